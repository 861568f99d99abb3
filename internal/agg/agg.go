// Package agg implements the CSR-driven aggregation kernels (§4.J):
// given a grouped-table's Compressed-Sparse-Row partitioning and a
// list of AggregationDefs, produce a table with one row per group.
package agg

import (
	"coltab/expr"
	"coltab/internal/column"
	"coltab/internal/grouping"
	"coltab/kerr"
	"coltab/schema"
	"coltab/table"
)

// Def is one requested aggregation: apply Op to Source, name the
// result column Target. Source is ignored for Count.
type Def struct {
	Op     expr.AggOp
	Source string
	Target string
}

// Aggregate builds the grouped output table: key columns first, then
// one column per Def, plus a trailing null-keyed row if src had a
// null group (§4.J).
func Aggregate(src *table.Table, gr *grouping.Result, defs []Def) (*table.Table, error) {
	if len(defs) == 0 {
		return nil, kerr.New(kerr.NotSupported, "agg.Aggregate", "aggregate requires at least one AggregationDef")
	}
	if isCountFastPath(gr, defs) {
		return countFastPath(gr, defs[0])
	}

	hasNullGroup := len(gr.NullGroupIndices) > 0
	rows := gr.GroupCount()
	if hasNullGroup {
		rows++
	}

	keyCols := make([]column.Column, len(gr.KeyColumns))
	for ki, name := range gr.KeyColumns {
		srcCol, err := src.Column(name)
		if err != nil {
			return nil, err
		}
		field := schema.Field{Name: name, Type: schema.NameOf(srcCol.Type()), Nullable: true}
		kc, err := table.NewColumn(field, rows)
		if err != nil {
			return nil, err
		}
		for g := 0; g < gr.GroupCount(); g++ {
			if err := appendKey(kc, gr.Keys[g][ki]); err != nil {
				return nil, err
			}
		}
		if hasNullGroup {
			if err := appendNullKey(kc); err != nil {
				return nil, err
			}
		}
		keyCols[ki] = kc
	}

	aggCols := make([]column.Column, len(defs))
	for di, def := range defs {
		col, err := buildAggColumn(src, gr, def, rows, hasNullGroup)
		if err != nil {
			return nil, err
		}
		aggCols[di] = col
	}

	return table.New(append(keyCols, aggCols...))
}

func isCountFastPath(gr *grouping.Result, defs []Def) bool {
	return gr.Native && len(defs) == 1 && defs[0].Op == expr.Count && len(gr.KeyColumns) == 1
}

// countFastPath answers a single-key, count-only aggregation by
// reading only gr.Offsets — no index array touched (§4.J fast path).
func countFastPath(gr *grouping.Result, def Def) (*table.Table, error) {
	hasNullGroup := len(gr.NullGroupIndices) > 0
	rows := gr.GroupCount()
	if hasNullGroup {
		rows++
	}

	keyField := schema.Field{Name: gr.KeyColumns[0], Type: inferKeyType(gr), Nullable: true}
	keyCol, err := table.NewColumn(keyField, rows)
	if err != nil {
		return nil, err
	}
	countCol := column.NewInt32Column(def.Target, rows, false)

	for g := 0; g < gr.GroupCount(); g++ {
		if err := appendKey(keyCol, gr.Keys[g][0]); err != nil {
			return nil, err
		}
		countCol.Append(int32(gr.Offsets[g+1] - gr.Offsets[g]))
	}
	if hasNullGroup {
		if err := appendNullKey(keyCol); err != nil {
			return nil, err
		}
		countCol.Append(int32(len(gr.NullGroupIndices)))
	}

	return table.New([]column.Column{keyCol, countCol})
}

func inferKeyType(gr *grouping.Result) schema.TypeName {
	if gr.GroupCount() == 0 {
		return schema.TypeI32
	}
	switch gr.Keys[0][0].(type) {
	case int32:
		return schema.TypeI32
	case string:
		return schema.TypeString
	default:
		return schema.TypeI32
	}
}

func buildAggColumn(src *table.Table, gr *grouping.Result, def Def, rows int, hasNullGroup bool) (column.Column, error) {
	if def.Op == expr.Count {
		col := column.NewInt32Column(def.Target, rows, false)
		for g := 0; g < gr.GroupCount(); g++ {
			col.Append(int32(gr.Offsets[g+1] - gr.Offsets[g]))
		}
		if hasNullGroup {
			col.Append(int32(len(gr.NullGroupIndices)))
		}
		return col, nil
	}

	srcCol, err := src.Column(def.Source)
	if err != nil {
		return nil, err
	}
	aggCol, ok := srcCol.(column.Aggregatable)
	if !ok {
		return nil, kerr.New(kerr.NotSupported, "agg.buildAggColumn", "column "+def.Source+" does not support aggregation")
	}

	outKind := srcCol.Type()
	if def.Op == expr.Mean {
		outKind = column.KindF64
	}
	out, err := table.NewColumn(schema.Field{Name: def.Target, Type: schema.NameOf(outKind), Nullable: true}, rows)
	if err != nil {
		return nil, err
	}

	compute := func(indices []int, start, end int) (any, bool, error) {
		switch def.Op {
		case expr.Sum:
			return aggCol.ComputeSum(indices, start, end)
		case expr.Mean:
			return aggCol.ComputeMean(indices, start, end)
		case expr.Min:
			return aggCol.ComputeMin(indices, start, end)
		case expr.Max:
			return aggCol.ComputeMax(indices, start, end)
		default:
			return nil, false, kerr.New(kerr.NotSupported, "agg.buildAggColumn", "unknown aggregate operator")
		}
	}

	for g := 0; g < gr.GroupCount(); g++ {
		v, ok, err := compute(gr.Indices, gr.Offsets[g], gr.Offsets[g+1])
		if err != nil {
			return nil, err
		}
		if err := appendAggValue(out, v, ok, def.Op); err != nil {
			return nil, err
		}
	}
	if hasNullGroup {
		v, ok, err := compute(gr.NullGroupIndices, 0, len(gr.NullGroupIndices))
		if err != nil {
			return nil, err
		}
		if err := appendAggValue(out, v, ok, def.Op); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendKey(c column.Column, v any) error {
	switch cc := c.(type) {
	case *column.Int32Column:
		return cc.AppendOptional(v.(int32), true)
	case *column.VarcharColumn:
		return cc.AppendOptional(v.(string), true)
	case *column.Float64Column:
		return cc.AppendOptional(v.(float64), true)
	case *column.TimestampColumn:
		return cc.AppendOptional(v.(column.Timestamp), true)
	case *column.BoolColumn:
		return cc.AppendOptional(v.(bool), true)
	default:
		return kerr.New(kerr.NotSupported, "agg.appendKey", "unsupported key column variant")
	}
}

func appendNullKey(c column.Column) error {
	switch cc := c.(type) {
	case *column.Int32Column:
		return cc.AppendOptional(0, false)
	case *column.VarcharColumn:
		return cc.AppendOptional("", false)
	case *column.Float64Column:
		return cc.AppendOptional(0, false)
	case *column.TimestampColumn:
		return cc.AppendOptional(0, false)
	case *column.BoolColumn:
		return cc.AppendOptional(false, false)
	default:
		return kerr.New(kerr.NotSupported, "agg.appendNullKey", "unsupported key column variant")
	}
}

func appendAggValue(c column.Column, v any, ok bool, op expr.AggOp) error {
	switch cc := c.(type) {
	case *column.Int32Column:
		if !ok {
			return cc.AppendOptional(0, false)
		}
		switch n := v.(type) {
		case int64:
			return cc.AppendOptional(int32(n), true)
		case int32:
			return cc.AppendOptional(n, true)
		default:
			return kerr.New(kerr.KindMismatch, "agg.appendAggValue", "unexpected i32 aggregate result type")
		}
	case *column.Float64Column:
		if !ok {
			return cc.AppendOptional(0, false)
		}
		switch n := v.(type) {
		case float64:
			return cc.AppendOptional(n, true)
		case int64:
			return cc.AppendOptional(float64(n), true)
		default:
			return kerr.New(kerr.KindMismatch, "agg.appendAggValue", "unexpected f64 aggregate result type")
		}
	case *column.TimestampColumn:
		if !ok {
			return cc.AppendOptional(0, false)
		}
		switch n := v.(type) {
		case column.Timestamp:
			return cc.AppendOptional(n, true)
		case int64:
			return cc.AppendOptional(column.Timestamp(n), true)
		default:
			return kerr.New(kerr.KindMismatch, "agg.appendAggValue", "unexpected timestamp aggregate result type")
		}
	default:
		return kerr.New(kerr.NotSupported, "agg.appendAggValue", "aggregate result column variant unsupported")
	}
}
