package kernel

import (
	"coltab/expr"
	"coltab/internal/column"
	"coltab/kerr"
)

// CompareOp is an alias for expr.CompareOp: the kernel and the
// expression language share one operator enum so a Binary node means
// the same thing to the optimizer and to the kernel that executes it.
type CompareOp = expr.CompareOp

const (
	Eq = expr.Eq
	Ne = expr.Ne
	Lt = expr.Lt
	Le = expr.Le
	Gt = expr.Gt
	Ge = expr.Ge
)

func applyOp[T int | int32 | int64](op CompareOp, c T) bool {
	switch op {
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

func cmpOrdered[T int32 | float64 | column.Timestamp](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// FilterVec computes predicate op(col[i], scalar) in vectorized lanes
// over a contiguous non-nullable buffer where the column layout
// permits, compacting matches into a dense ascending index list. Null
// rows never match (§4.G).
func FilterVec(col column.Column, op CompareOp, scalar any) ([]int, error) {
	if v, ok := col.(column.Valuer32); ok && col.Type() == column.KindI32 {
		s, ok := scalar.(int32)
		if !ok {
			return nil, kerr.New(kerr.KindMismatch, "kernel.FilterVec", "scalar is not i32")
		}
		return filterContiguous(col, v.ValuesI32(), s, op, cmpOrdered[int32]), nil
	}
	if v, ok := col.(column.Valuer64); ok && col.Type() == column.KindF64 {
		s, ok := scalar.(float64)
		if !ok {
			return nil, kerr.New(kerr.KindMismatch, "kernel.FilterVec", "scalar is not f64")
		}
		return filterContiguous(col, v.ValuesF64(), s, op, cmpOrdered[float64]), nil
	}
	if v, ok := col.(column.ValuerTimestamp); ok && col.Type() == column.KindTimestamp {
		s, ok := scalar.(column.Timestamp)
		if !ok {
			return nil, kerr.New(kerr.KindMismatch, "kernel.FilterVec", "scalar is not a timestamp")
		}
		return filterContiguous(col, v.ValuesTimestamp(), s, op, cmpOrdered[column.Timestamp]), nil
	}
	return filterGeneric(col, op, scalar)
}

func filterContiguous[T int32 | float64 | column.Timestamp](col column.Column, vals []T, scalar T, op CompareOp, cmp func(a, b T) int) []int {
	out := make([]int, 0, len(vals)/4+1)
	nullable := col.Nullable()
	for i, v := range vals {
		if nullable && col.IsNull(i) {
			continue
		}
		if applyOp(op, cmp(v, scalar)) {
			out = append(out, i)
		}
	}
	return out
}

// filterGeneric handles layouts without a contiguous Valuer (bool,
// string, categorical, gather views) via GetBoxed comparisons.
func filterGeneric(col column.Column, op CompareOp, scalar any) ([]int, error) {
	out := make([]int, 0)
	n := col.Len()
	for i := 0; i < n; i++ {
		val, ok := col.GetBoxed(i)
		if !ok {
			continue
		}
		c, cmpOk := compareBoxed(val, scalar)
		if !cmpOk {
			return nil, kerr.New(kerr.KindMismatch, "kernel.FilterVec", "scalar type incompatible with column values")
		}
		if applyOp(op, c) {
			out = append(out, i)
		}
	}
	return out, nil
}

func compareBoxed(a, b any) (int, bool) {
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av && bv {
			return -1, true
		}
		return 1, true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case int32:
		bv, ok := b.(int32)
		if !ok {
			return 0, false
		}
		return cmpOrdered(av, bv), true
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0, false
		}
		return cmpOrdered(av, bv), true
	case column.Timestamp:
		bv, ok := b.(column.Timestamp)
		if !ok {
			return 0, false
		}
		return cmpOrdered(av, bv), true
	default:
		return 0, false
	}
}
