// Package grouping implements the engine's strategy-dispatched
// grouping pipeline (§4.I): direct-map, radix-partition, generic-hash,
// and dictionary-aware strategies that all produce the same
// Compressed-Sparse-Row (CSR) output shape.
package grouping

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"coltab/config"
	"coltab/internal/column"
	"coltab/kerr"
	"coltab/table"
)

// Strategy names the algorithm that produced a Result, exposed mainly
// for tests and the fast-path annotation in the optimizer/physical
// planner (§4.J fast path).
type Strategy int

const (
	IntDirectMap Strategy = iota
	IntRadix
	DictionaryAware
	GenericHashMap
)

func (s Strategy) String() string {
	switch s {
	case IntDirectMap:
		return "int_direct_map"
	case IntRadix:
		return "int_radix"
	case DictionaryAware:
		return "dictionary_aware"
	case GenericHashMap:
		return "generic_hash_map"
	default:
		return "unknown"
	}
}

// Result is a grouped-table's CSR partitioning (§3 "Grouped-table"):
// Indices[Offsets[g]:Offsets[g+1]] are the source row indices of
// group g, in ascending source order. Keys[g] holds one value per
// KeyColumns entry. NullGroupIndices holds rows excluded from the CSR
// because at least one key value was null.
type Result struct {
	KeyColumns       []string
	Keys             [][]any
	Offsets          []int
	Indices          []int
	NullGroupIndices []int
	Strategy         Strategy
	// Native reports whether the result came from one of the
	// specialised single-key strategies (IntDirectMap, IntRadix,
	// DictionaryAware) rather than the composite-key GenericHashMap
	// fallback — the "native vs managed" distinction of §3.
	Native bool
}

// GroupCount returns the number of non-null groups.
func (r *Result) GroupCount() int { return len(r.Offsets) - 1 }

// Group builds a grouped-table Result over t, keyed by keyNames,
// dispatching to the first applicable strategy (§4.I).
func Group(t *table.Table, keyNames []string, cfg config.GroupingConfig) (*Result, error) {
	if len(keyNames) == 0 {
		return nil, kerr.New(kerr.MissingColumn, "grouping.Group", "group_by requires at least one key column")
	}
	cols := make([]column.Column, len(keyNames))
	for i, name := range keyNames {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	if len(cols) == 1 {
		switch c := cols[0].(type) {
		case *column.Int32Column:
			lo, hi, anyNonNull := i32Range(c)
			if anyNonNull {
				r := int64(hi) - int64(lo) + 1
				if r <= cfg.DirectMapMaxRange {
					return directMapI32(t, keyNames, c, lo, hi)
				}
			}
			return radixI32(t, keyNames, c, cfg)
		case *column.CategoricalColumn:
			return dictionaryAware(t, keyNames, c)
		}
	}
	return genericHash(t, keyNames, cols)
}

func i32Range(c *column.Int32Column) (lo, hi int32, anyNonNull bool) {
	n := c.Len()
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.Get(i)
		if !anyNonNull {
			lo, hi, anyNonNull = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, anyNonNull
}

func directMapI32(t *table.Table, keyNames []string, c *column.Int32Column, lo, hi int32) (*Result, error) {
	n := c.Len()
	rng := int(hi-lo) + 1
	counts := make([]int, rng)
	var nullGroup []int
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			nullGroup = append(nullGroup, i)
			continue
		}
		counts[int(c.Get(i)-lo)]++
	}

	slotToGroup := make([]int, rng)
	for i := range slotToGroup {
		slotToGroup[i] = -1
	}
	var keys [][]any
	offsets := []int{0}
	g := 0
	for slot, cnt := range counts {
		if cnt == 0 {
			continue
		}
		slotToGroup[slot] = g
		keys = append(keys, []any{int32(slot) + lo})
		offsets = append(offsets, offsets[g]+cnt)
		g++
	}

	cursor := append([]int(nil), offsets[:g]...)
	indices := make([]int, offsets[g])
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			continue
		}
		slot := int(c.Get(i) - lo)
		group := slotToGroup[slot]
		indices[cursor[group]] = i
		cursor[group]++
	}

	return &Result{
		KeyColumns:       keyNames,
		Keys:             keys,
		Offsets:          offsets,
		Indices:          indices,
		NullGroupIndices: nullGroup,
		Strategy:         IntDirectMap,
		Native:           true,
	}, nil
}

// radixI32 partitions rows into cfg.RadixShards shards by the key's
// high bits, builds each shard's group list independently (in
// parallel once row count clears cfg.ParallelThreshold, via
// errgroup), then concatenates the per-shard CSRs in shard order.
func radixI32(t *table.Table, keyNames []string, c *column.Int32Column, cfg config.GroupingConfig) (*Result, error) {
	n := c.Len()
	shards := cfg.RadixShards
	if shards < 1 {
		shards = 1
	}
	shardRows := make([][]int, shards)
	var nullGroup []int
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			nullGroup = append(nullGroup, i)
			continue
		}
		s := int((uint64(uint32(c.Get(i))) * uint64(shards)) >> 32)
		shardRows[s] = append(shardRows[s], i)
	}

	type shardResult struct {
		keys    []int32
		offsets []int
		indices []int
	}
	results := make([]shardResult, shards)

	buildShard := func(s int) {
		rows := shardRows[s]
		buckets := make(map[int32][]int)
		var order []int32
		for _, row := range rows {
			v := c.Get(row)
			if _, ok := buckets[v]; !ok {
				order = append(order, v)
			}
			buckets[v] = append(buckets[v], row)
		}
		sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
		offsets := make([]int, 1, len(order)+1)
		var indices []int
		for _, k := range order {
			indices = append(indices, buckets[k]...)
			offsets = append(offsets, len(indices))
		}
		results[s] = shardResult{keys: order, offsets: offsets, indices: indices}
	}

	if n > cfg.ParallelThreshold && shards > 1 {
		var eg errgroup.Group
		for s := 0; s < shards; s++ {
			s := s
			eg.Go(func() error {
				buildShard(s)
				return nil
			})
		}
		_ = eg.Wait()
	} else {
		for s := 0; s < shards; s++ {
			buildShard(s)
		}
	}

	var keys [][]any
	offsets := []int{0}
	var indices []int
	for _, sr := range results {
		for gi, k := range sr.keys {
			start, end := sr.offsets[gi], sr.offsets[gi+1]
			indices = append(indices, sr.indices[start:end]...)
			offsets = append(offsets, len(indices))
			keys = append(keys, []any{k})
		}
	}

	return &Result{
		KeyColumns:       keyNames,
		Keys:             keys,
		Offsets:          offsets,
		Indices:          indices,
		NullGroupIndices: nullGroup,
		Strategy:         IntRadix,
		Native:           true,
	}, nil
}

// dictionaryAware groups by a categorical column's underlying i32
// code, an IntDirectMap problem over [1, len(dict)], then resolves
// codes back to dictionary strings for the emitted keys. Code 0 is
// the null bucket and is never emitted as a normal group (§9 open
// question, resolved).
func dictionaryAware(t *table.Table, keyNames []string, c *column.CategoricalColumn) (*Result, error) {
	n := c.Len()
	dict := c.Dict()
	counts := make([]int, len(dict)+1)
	var nullGroup []int
	for i := 0; i < n; i++ {
		code := c.Code(i)
		if code == 0 {
			nullGroup = append(nullGroup, i)
			continue
		}
		counts[code]++
	}

	codeToGroup := make([]int, len(dict)+1)
	for i := range codeToGroup {
		codeToGroup[i] = -1
	}
	var keys [][]any
	offsets := []int{0}
	g := 0
	for code := 1; code <= len(dict); code++ {
		cnt := counts[code]
		if cnt == 0 {
			continue
		}
		codeToGroup[code] = g
		keys = append(keys, []any{dict[code-1]})
		offsets = append(offsets, offsets[g]+cnt)
		g++
	}

	cursor := append([]int(nil), offsets[:g]...)
	indices := make([]int, offsets[g])
	for i := 0; i < n; i++ {
		code := c.Code(i)
		if code == 0 {
			continue
		}
		group := codeToGroup[code]
		indices[cursor[group]] = i
		cursor[group]++
	}

	return &Result{
		KeyColumns:       keyNames,
		Keys:             keys,
		Offsets:          offsets,
		Indices:          indices,
		NullGroupIndices: nullGroup,
		Strategy:         DictionaryAware,
		Native:           true,
	}, nil
}

// genericHash is the fallback for multi-column keys, unsupported key
// types, and single-column keys of a type without a specialized
// strategy: a composite string hash of the boxed key tuple, with
// null-in-any-key rows routed to the null bucket.
func genericHash(t *table.Table, keyNames []string, cols []column.Column) (*Result, error) {
	n := cols[0].Len()
	type bucket struct {
		key    []any
		rows   []int
		hashID string
	}
	buckets := make(map[string]*bucket)
	var order []string
	var nullGroup []int

	for i := 0; i < n; i++ {
		hasNull := false
		key := make([]any, len(cols))
		for ci, c := range cols {
			if c.IsNull(i) {
				hasNull = true
				break
			}
			v, _ := c.GetBoxed(i)
			key[ci] = v
		}
		if hasNull {
			nullGroup = append(nullGroup, i)
			continue
		}
		hashID := fmt.Sprint(key)
		b, ok := buckets[hashID]
		if !ok {
			b = &bucket{key: key, hashID: hashID}
			buckets[hashID] = b
			order = append(order, hashID)
		}
		b.rows = append(b.rows, i)
	}

	sort.Strings(order)

	var keys [][]any
	offsets := []int{0}
	var indices []int
	for _, id := range order {
		b := buckets[id]
		indices = append(indices, b.rows...)
		offsets = append(offsets, len(indices))
		keys = append(keys, b.key)
	}

	return &Result{
		KeyColumns:       keyNames,
		Keys:             keys,
		Offsets:          offsets,
		Indices:          indices,
		NullGroupIndices: nullGroup,
		Strategy:         GenericHashMap,
		Native:           false,
	}, nil
}
