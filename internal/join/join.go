// Package join implements the engine's hash-based equi-join kernel
// (§4.K): inner and left joins on a single key column, with null keys
// collapsed to one sentinel bucket.
package join

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"coltab/config"
	"coltab/internal/column"
	"coltab/kerr"
	"coltab/schema"
	"coltab/table"
)

// Kind selects inner or left join semantics.
type Kind int

const (
	Inner Kind = iota
	Left
)

// nullSentinel is a fixed value no real row key collides with; all
// rows whose key is null are bucketed under it so null = null holds
// for join purposes (§4.K).
const nullSentinel = "\x00__coltab_null__\x00"

// Join builds the result of joining left to right on a single equal
// key column named on (must exist on both sides). Right columns other
// than the key are forced nullable for a left join; unmatched index
// -1 yields a null. Name collisions between non-key columns fail with
// NameCollision.
func Join(left, right *table.Table, on string, kind Kind, cfg config.GroupingConfig) (*table.Table, error) {
	leftKey, err := left.Column(on)
	if err != nil {
		return nil, err
	}
	rightKey, err := right.Column(on)
	if err != nil {
		return nil, err
	}

	if err := checkCollisions(left, right, on); err != nil {
		return nil, err
	}

	buckets := buildHash(rightKey, cfg)

	var leftIdx, rightIdx []int
	n := leftKey.Len()
	for i := 0; i < n; i++ {
		k := keyOf(leftKey, i)
		matches, ok := buckets[k]
		if !ok {
			if kind == Left {
				leftIdx = append(leftIdx, i)
				rightIdx = append(rightIdx, -1)
			}
			continue
		}
		for _, rj := range matches {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, rj)
		}
	}

	leftCols, err := gatherColumns(left.Columns(), leftIdx, false)
	if err != nil {
		return nil, err
	}

	var rightCols []column.Column
	for _, c := range right.Columns() {
		if c.Name() == on {
			continue
		}
		forceNullable := kind == Left
		gc, err := gatherOne(c, rightIdx, forceNullable)
		if err != nil {
			return nil, err
		}
		rightCols = append(rightCols, gc)
	}

	return table.New(append(leftCols, rightCols...))
}

func checkCollisions(left, right *table.Table, on string) error {
	leftNames := map[string]bool{}
	for _, c := range left.Columns() {
		leftNames[c.Name()] = true
	}
	for _, c := range right.Columns() {
		if c.Name() == on {
			continue
		}
		if leftNames[c.Name()] {
			return kerr.New(kerr.NameCollision, "join.Join", "column "+c.Name()+" exists on both sides of the join")
		}
	}
	return nil
}

func keyOf(c column.Column, i int) string {
	if c.IsNull(i) {
		return nullSentinel
	}
	v, _ := c.GetBoxed(i)
	switch tv := v.(type) {
	case int32:
		return "i:" + itoa(int64(tv))
	case string:
		return "s:" + tv
	default:
		return fmt.Sprintf("%T:%v", tv, tv)
	}
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	pos := len(buf)
	for v > 0 {
		pos--
		buf[pos] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// buildHash scans right once, building key -> right-row-indices. For
// large right tables it shards the scan across goroutines and merges,
// matching the grouping engine's shard-and-join concurrency model
// (§5, §4.K "own their own thread pool and join before returning").
func buildHash(rightKey column.Column, cfg config.GroupingConfig) map[string][]int {
	n := rightKey.Len()
	if n <= cfg.ParallelThreshold {
		buckets := make(map[string][]int)
		for i := 0; i < n; i++ {
			k := keyOf(rightKey, i)
			buckets[k] = append(buckets[k], i)
		}
		return buckets
	}

	shards := 8
	shardMaps := make([]map[string][]int, shards)
	var eg errgroup.Group
	chunk := (n + shards - 1) / shards
	for s := 0; s < shards; s++ {
		s := s
		start := s * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			shardMaps[s] = map[string][]int{}
			continue
		}
		eg.Go(func() error {
			m := make(map[string][]int)
			for i := start; i < end; i++ {
				k := keyOf(rightKey, i)
				m[k] = append(m[k], i)
			}
			shardMaps[s] = m
			return nil
		})
	}
	_ = eg.Wait()

	merged := make(map[string][]int)
	for _, m := range shardMaps {
		for k, rows := range m {
			merged[k] = append(merged[k], rows...)
		}
	}
	for _, rows := range merged {
		sort.Ints(rows)
	}
	return merged
}

func gatherColumns(cols []column.Column, indices []int, forceNullable bool) ([]column.Column, error) {
	out := make([]column.Column, len(cols))
	for i, c := range cols {
		gc, err := gatherOne(c, indices, forceNullable)
		if err != nil {
			return nil, err
		}
		out[i] = gc
	}
	return out, nil
}

// gatherOne gathers c at indices; an index of -1 (unmatched left-join
// row) yields a null in the result. The output is nullable whenever an
// index is -1 or forceNullable is set, even when c itself was not.
func gatherOne(c column.Column, indices []int, forceNullable bool) (column.Column, error) {
	hasMissing := false
	translated := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 {
			hasMissing = true
			translated[i] = 0
			continue
		}
		translated[i] = idx
	}
	if !hasMissing && (!forceNullable || c.Nullable()) {
		return c.Gather(translated)
	}

	field := schema.Field{Name: c.Name(), Type: schema.NameOf(c.Type()), Nullable: true}
	out, err := table.NewColumn(field, len(indices))
	if err != nil {
		return nil, err
	}
	for i, idx := range indices {
		if idx < 0 {
			if err := appendNull(out); err != nil {
				return nil, err
			}
			continue
		}
		if err := appendFrom(out, c, idx); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// appendNull appends a null slot to a freshly built nullable column of
// any variant this join kernel may need to materialize.
func appendNull(c column.Column) error {
	switch cc := c.(type) {
	case *column.Int32Column:
		return cc.AppendOptional(0, false)
	case *column.Float64Column:
		return cc.AppendOptional(0, false)
	case *column.TimestampColumn:
		return cc.AppendOptional(0, false)
	case *column.BoolColumn:
		return cc.AppendOptional(false, false)
	case *column.VarcharColumn:
		return cc.AppendOptional("", false)
	case *column.CategoricalColumn:
		return cc.AppendOptional("", false)
	default:
		return kerr.New(kerr.NotSupported, "join.appendNull", "column variant cannot append a null")
	}
}

// appendFrom copies src[idx] into a freshly built column of the same
// logical type, boxing through GetBoxed since src may be any variant.
func appendFrom(out column.Column, src column.Column, idx int) error {
	v, ok := src.GetBoxed(idx)
	switch cc := out.(type) {
	case *column.Int32Column:
		n, _ := v.(int32)
		return cc.AppendOptional(n, ok)
	case *column.Float64Column:
		n, _ := v.(float64)
		return cc.AppendOptional(n, ok)
	case *column.TimestampColumn:
		n, _ := v.(column.Timestamp)
		return cc.AppendOptional(n, ok)
	case *column.BoolColumn:
		n, _ := v.(bool)
		return cc.AppendOptional(n, ok)
	case *column.VarcharColumn:
		n, _ := v.(string)
		return cc.AppendOptional(n, ok)
	case *column.CategoricalColumn:
		n, _ := v.(string)
		return cc.AppendOptional(n, ok)
	default:
		return kerr.New(kerr.NotSupported, "join.appendFrom", "column variant cannot append from a boxed value")
	}
}
