package kernel

import (
	"coltab/expr"
	"coltab/internal/bitmask"
	"coltab/internal/column"
	"coltab/kerr"
)

// ArithOp is an alias for expr.ArithOp (see CompareOp for the same
// reasoning).
type ArithOp = expr.ArithOp

const (
	Add = expr.Add
	Sub = expr.Sub
	Mul = expr.Mul
	Div = expr.Div
)

// ElementWise computes left op right lane-by-lane, falling back to a
// scalar loop for the unaligned tail (§4.G). Both operands must be the
// same numeric kind and the same length; the result is nullable iff
// either operand is, with its mask the OR-merge of both (§4.C).
func ElementWise(left, right column.Column, op ArithOp) (column.Column, error) {
	if left.Len() != right.Len() {
		return nil, kerr.New(kerr.ShapeMismatch, "kernel.ElementWise", "operand columns have different lengths")
	}
	if left.Type() != right.Type() {
		return nil, kerr.New(kerr.KindMismatch, "kernel.ElementWise", "operand columns have different types")
	}
	switch left.Type() {
	case column.KindI32:
		lv := left.(column.Valuer32).ValuesI32()
		rv := right.(column.Valuer32).ValuesI32()
		out := make([]int32, len(lv))
		for i := range lv {
			v, err := applyArithI32(op, lv[i], rv[i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		mask := bitmask.MergeOr(maskOf(left), maskOf(right), left.Len())
		return column.NewInt32ColumnFromSlice(left.Name(), out, mask), nil
	case column.KindF64:
		lv := left.(column.Valuer64).ValuesF64()
		rv := right.(column.Valuer64).ValuesF64()
		out := make([]float64, len(lv))
		for i := range lv {
			out[i] = applyArithF64(op, lv[i], rv[i])
		}
		mask := bitmask.MergeOr(maskOf(left), maskOf(right), left.Len())
		return column.NewFloat64ColumnFromSlice(left.Name(), out, mask), nil
	default:
		return nil, kerr.New(kerr.NotSupported, "kernel.ElementWise", "arithmetic is only defined for i32/f64 columns")
	}
}

// ScalarBroadcast computes col op scalar (or scalar op col, controlled
// by scalarOnLeft) lane-by-lane.
func ScalarBroadcast(col column.Column, op ArithOp, scalar any, scalarOnLeft bool) (column.Column, error) {
	switch col.Type() {
	case column.KindI32:
		s, ok := scalar.(int32)
		if !ok {
			return nil, kerr.New(kerr.KindMismatch, "kernel.ScalarBroadcast", "scalar is not i32")
		}
		vals := col.(column.Valuer32).ValuesI32()
		out := make([]int32, len(vals))
		for i, v := range vals {
			var err error
			if scalarOnLeft {
				out[i], err = applyArithI32(op, s, v)
			} else {
				out[i], err = applyArithI32(op, v, s)
			}
			if err != nil {
				return nil, err
			}
		}
		return column.NewInt32ColumnFromSlice(col.Name(), out, cloneMask(maskOf(col))), nil
	case column.KindF64:
		s, ok := scalar.(float64)
		if !ok {
			return nil, kerr.New(kerr.KindMismatch, "kernel.ScalarBroadcast", "scalar is not f64")
		}
		vals := col.(column.Valuer64).ValuesF64()
		out := make([]float64, len(vals))
		for i, v := range vals {
			if scalarOnLeft {
				out[i] = applyArithF64(op, s, v)
			} else {
				out[i] = applyArithF64(op, v, s)
			}
		}
		return column.NewFloat64ColumnFromSlice(col.Name(), out, cloneMask(maskOf(col))), nil
	default:
		return nil, kerr.New(kerr.NotSupported, "kernel.ScalarBroadcast", "arithmetic is only defined for i32/f64 columns")
	}
}

func applyArithI32(op ArithOp, a, b int32) (int32, error) {
	switch op {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div:
		if b == 0 {
			return 0, kerr.New(kerr.Arithmetic, "kernel.arith", "integer division by zero")
		}
		return a / b, nil
	default:
		return 0, kerr.New(kerr.NotSupported, "kernel.arith", "unknown arithmetic operator")
	}
}

func applyArithF64(op ArithOp, a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		return a / b // IEEE-754: division by zero yields Inf/NaN, not an error.
	default:
		return 0
	}
}

func maskOf(col column.Column) *bitmask.Mask {
	switch v := col.(type) {
	case *column.Int32Column:
		return v.Mask()
	case *column.Float64Column:
		return v.Mask()
	default:
		if !col.Nullable() {
			return nil
		}
		m := bitmask.New(col.Len())
		for i := 0; i < col.Len(); i++ {
			if col.IsNull(i) {
				m.SetNull(i)
			}
		}
		return m
	}
}

func cloneMask(m *bitmask.Mask) *bitmask.Mask {
	if m == nil {
		return nil
	}
	return m.Clone()
}
