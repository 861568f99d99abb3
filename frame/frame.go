// Package frame implements the engine's eager table API (§6 "Eager
// operations on table"): filter, select, slice, head/tail, distinct,
// drop_nulls, fill_null, add_column, order_by, smallest/largest, join,
// and group_by. Each operation runs immediately against a materialized
// table.Table, in contrast to package lazy's deferred builder.
//
// These operations live outside package table because they depend on
// the grouping/join/sortkit/kernel packages, which themselves depend
// on table — defining them as table.Table methods would create an
// import cycle.
package frame

import (
	"coltab/config"
	"coltab/expr"
	"coltab/internal/agg"
	"coltab/internal/column"
	"coltab/internal/exec"
	"coltab/internal/grouping"
	"coltab/internal/join"
	"coltab/internal/kernel"
	"coltab/internal/sortkit"
	"coltab/kerr"
	"coltab/schema"
	"coltab/table"
)

// Filter keeps the rows of t where col compares true against scalar
// (§4.G vectorized path via kernel.FilterVec).
func Filter(t *table.Table, col string, op expr.CompareOp, scalar any) (*table.Table, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	indices, err := kernel.FilterVec(c, op, scalar)
	if err != nil {
		return nil, err
	}
	return gather(t, indices)
}

// Select returns a new table containing only the named columns, in
// the order given.
func Select(t *table.Table, names ...string) (*table.Table, error) {
	cols := make([]column.Column, len(names))
	for i, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return table.New(cols)
}

// Slice returns rows [start, start+length) as a new owning table.
func Slice(t *table.Table, start, length int) (*table.Table, error) {
	if start < 0 || length < 0 || start+length > t.RowCount() {
		return nil, kerr.New(kerr.OutOfRange, "frame.Slice", "slice window out of bounds")
	}
	indices := make([]int, length)
	for i := range indices {
		indices[i] = start + i
	}
	return gather(t, indices)
}

// Head returns the first n rows (fewer if t is shorter).
func Head(t *table.Table, n int) (*table.Table, error) {
	if n > t.RowCount() {
		n = t.RowCount()
	}
	return Slice(t, 0, n)
}

// Tail returns the last n rows (fewer if t is shorter).
func Tail(t *table.Table, n int) (*table.Table, error) {
	if n > t.RowCount() {
		n = t.RowCount()
	}
	return Slice(t, t.RowCount()-n, n)
}

// Distinct returns one representative row per distinct combination of
// names, keeping the first row encountered in source order. Built on
// the same grouping engine group_by uses, since "distinct rows" is
// "one row per group, first index."
func Distinct(t *table.Table, names ...string) (*table.Table, error) {
	gr, err := grouping.Group(t, names, config.Default().Grouping)
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, gr.GroupCount()+1)
	for g := 0; g < gr.GroupCount(); g++ {
		indices = append(indices, t0(gr, g))
	}
	if len(gr.NullGroupIndices) > 0 {
		indices = append(indices, gr.NullGroupIndices[0])
	}
	return gather(t, indices)
}

func t0(gr *grouping.Result, g int) int { return gr.Indices[gr.Offsets[g]] }

// DropNulls keeps only rows where every one of names is non-null.
func DropNulls(t *table.Table, names ...string) (*table.Table, error) {
	cols := make([]column.Column, len(names))
	for i, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	var kept []int
	for i := 0; i < t.RowCount(); i++ {
		ok := true
		for _, c := range cols {
			if c.IsNull(i) {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, i)
		}
	}
	return gather(t, kept)
}

// FillNull rebuilds column name with every null slot replaced by
// value, producing a non-nullable column.
func FillNull(t *table.Table, name string, value any) (*table.Table, error) {
	src, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	field := schema.Field{Name: name, Type: schema.NameOf(src.Type()), Nullable: false}
	out, err := table.NewColumn(field, src.Len())
	if err != nil {
		return nil, err
	}
	for i := 0; i < src.Len(); i++ {
		v, ok := src.GetBoxed(i)
		if !ok {
			v = value
		}
		if err := appendFilled(out, v); err != nil {
			return nil, err
		}
	}
	return replaceColumn(t, name, out)
}

func appendFilled(c column.Column, v any) error {
	switch cc := c.(type) {
	case *column.Int32Column:
		return cc.AppendOptional(v.(int32), true)
	case *column.Float64Column:
		return cc.AppendOptional(v.(float64), true)
	case *column.TimestampColumn:
		return cc.AppendOptional(v.(column.Timestamp), true)
	case *column.BoolColumn:
		return cc.AppendOptional(v.(bool), true)
	case *column.VarcharColumn:
		return cc.AppendOptional(v.(string), true)
	case *column.CategoricalColumn:
		return cc.AppendOptional(v.(string), true)
	default:
		return kerr.New(kerr.NotSupported, "frame.FillNull", "unsupported column variant")
	}
}

func replaceColumn(t *table.Table, name string, replacement column.Column) (*table.Table, error) {
	cols := append([]column.Column(nil), t.Columns()...)
	for i, c := range cols {
		if c.Name() == name {
			cols[i] = replacement
			return table.New(cols)
		}
	}
	return nil, kerr.New(kerr.MissingColumn, "frame.replaceColumn", "no column named "+name)
}

// AddColumn appends a new column computed by the JIT from expression
// e (§4.H), named name.
func AddColumn(t *table.Table, name string, e expr.Expr) (*table.Table, error) {
	colKinds := make(map[string]column.Kind)
	for _, c := range t.Columns() {
		colKinds[c.Name()] = c.Type()
	}
	prog, err := kernel.Compile(e, colKinds)
	if err != nil {
		return nil, err
	}
	n := t.RowCount()
	var newCol column.Column
	if prog.IsI32 {
		inputs := make([][]int32, len(prog.ColNames))
		for i, cn := range prog.ColNames {
			c, err := t.Column(cn)
			if err != nil {
				return nil, err
			}
			inputs[i] = c.(column.Valuer32).ValuesI32()
		}
		out := make([]int32, n)
		prog.RunI32(n, out, inputs)
		newCol = column.NewInt32ColumnFromSlice(name, out, nil)
	} else {
		inputs := make([][]float64, len(prog.ColNames))
		for i, cn := range prog.ColNames {
			c, err := t.Column(cn)
			if err != nil {
				return nil, err
			}
			if v, ok := c.(column.Valuer64); ok && c.Type() == column.KindF64 {
				inputs[i] = v.ValuesF64()
			} else if v, ok := c.(column.Valuer32); ok && c.Type() == column.KindI32 {
				inputs[i] = kernel.WidenI32ToF64(v.ValuesI32())
			}
		}
		out := make([]float64, n)
		prog.RunF64(n, out, inputs)
		newCol = column.NewFloat64ColumnFromSlice(name, out, nil)
	}
	return table.New(append(append([]column.Column(nil), t.Columns()...), newCol))
}

// OrderBy sorts t by names/ascending pairs (§4.L ArgSort).
func OrderBy(t *table.Table, names []string, ascending []bool) (*table.Table, error) {
	keys := make([]sortkit.Key, len(names))
	for i, n := range names {
		keys[i] = sortkit.Key{Column: n, Ascending: ascending[i]}
	}
	perm, err := sortkit.ArgSort(t, keys)
	if err != nil {
		return nil, err
	}
	return gather(t, perm)
}

// Smallest returns the n rows with the smallest values in name.
func Smallest(t *table.Table, n int, name string) (*table.Table, error) {
	indices, err := sortkit.Smallest(t, n, name)
	if err != nil {
		return nil, err
	}
	return gather(t, indices)
}

// Largest is Smallest for the n largest values.
func Largest(t *table.Table, n int, name string) (*table.Table, error) {
	indices, err := sortkit.Largest(t, n, name)
	if err != nil {
		return nil, err
	}
	return gather(t, indices)
}

// Join combines t with other on a single equi-key column (§4.K).
func Join(t, other *table.Table, on string, kind join.Kind) (*table.Table, error) {
	return join.Join(t, other, on, kind, config.Default().Grouping)
}

// GroupBy partitions t by names, returning a GroupedTable (§4.I/J).
func GroupBy(t *table.Table, names ...string) (*GroupedTable, error) {
	gr, err := grouping.Group(t, names, config.Default().Grouping)
	if err != nil {
		return nil, err
	}
	return &GroupedTable{source: t, result: gr}, nil
}

// GroupedTable is the result of GroupBy: a source table plus its CSR
// partitioning, ready for aggregation.
type GroupedTable struct {
	source *table.Table
	result *grouping.Result
}

// Count returns one row per group with a trailing "count" column
// (§4.J fast path when eligible).
func (g *GroupedTable) Count() (*table.Table, error) {
	return agg.Aggregate(g.source, g.result, []agg.Def{{Op: expr.Count, Target: "count"}})
}

// Sum/Min/Max/Mean each return one row per group with a column named
// after the source column, aggregated with the named operator.
func (g *GroupedTable) Sum(name string) (*table.Table, error)  { return g.one(expr.Sum, name) }
func (g *GroupedTable) Min(name string) (*table.Table, error)  { return g.one(expr.Min, name) }
func (g *GroupedTable) Max(name string) (*table.Table, error)  { return g.one(expr.Max, name) }
func (g *GroupedTable) Mean(name string) (*table.Table, error) { return g.one(expr.Mean, name) }

func (g *GroupedTable) one(op expr.AggOp, name string) (*table.Table, error) {
	return agg.Aggregate(g.source, g.result, []agg.Def{{Op: op, Source: name, Target: name}})
}

// Aggregate applies every def against the grouping, one output column
// per def (§6 aggregate(agg_defs…)).
func (g *GroupedTable) Aggregate(defs ...agg.Def) (*table.Table, error) {
	return agg.Aggregate(g.source, g.result, defs)
}

// CountStream yields one (key, count) pair per call without
// materializing an output table (§6 count_stream()).
func (g *GroupedTable) CountStream() func() (exec.GroupCount, bool, error) {
	return exec.NewGroupCountIterator(g.result)
}

func gather(t *table.Table, indices []int) (*table.Table, error) {
	cols := t.Columns()
	out := make([]column.Column, len(cols))
	for i, c := range cols {
		gc, err := c.Gather(indices)
		if err != nil {
			return nil, err
		}
		out[i] = gc
	}
	return table.New(out)
}
