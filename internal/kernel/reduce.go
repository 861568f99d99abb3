// Package kernel implements the engine's vectorized execution kernels
// (§4.G): reductions, element-wise and scalar-broadcast arithmetic, and
// comparison-to-mask filtering. The sum loops are written in 4-wide
// unrolled form over contiguous slices so the compiler has a realistic shot at
// autovectorizing the non-nullable fast path; nullable inputs always
// take the scalar guarded path (§4.C, §9 open question on SIMD+NaN).
package kernel

import (
	"coltab/internal/column"
	"coltab/kerr"
)

// SumI32 widens each lane to a 64-bit accumulator and reduces, per
// §4.G: sum on i32 must not silently overflow for realistic input
// sizes.
func SumI32(vals []int32) int64 {
	var acc0, acc1, acc2, acc3 int64
	n := len(vals)
	i := 0
	for ; i+4 <= n; i += 4 {
		acc0 += int64(vals[i])
		acc1 += int64(vals[i+1])
		acc2 += int64(vals[i+2])
		acc3 += int64(vals[i+3])
	}
	sum := acc0 + acc1 + acc2 + acc3
	for ; i < n; i++ {
		sum += int64(vals[i])
	}
	return sum
}

// SumF64 uses one accumulator vector (four lanes) and a horizontal sum
// at the end.
func SumF64(vals []float64) float64 {
	var acc0, acc1, acc2, acc3 float64
	n := len(vals)
	i := 0
	for ; i+4 <= n; i += 4 {
		acc0 += vals[i]
		acc1 += vals[i+1]
		acc2 += vals[i+2]
		acc3 += vals[i+3]
	}
	sum := (acc0 + acc1) + (acc2 + acc3)
	for ; i < n; i++ {
		sum += vals[i]
	}
	return sum
}

// MinMaxI32 returns the min and max over vals in a single scalar pass;
// unlike the sums it uses no multi-lane accumulators. Panics if vals is
// empty; callers check length first.
func MinMaxI32(vals []int32) (min, max int32) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// MinMaxF64 is MinMaxI32 for float64.
func MinMaxF64(vals []float64) (min, max float64) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Sum reduces an entire column in one pass: non-nullable i32/f64
// columns take the SIMD-style contiguous path above; everything else
// (nullable columns, or columns without a contiguous Valuer) takes the
// column's own scalar guarded ComputeSum hook over the full index
// range.
func Sum(col column.Column) (any, error) {
	if !col.Nullable() {
		if v, ok := col.(column.Valuer32); ok && col.Type() == column.KindI32 {
			return SumI32(v.ValuesI32()), nil
		}
		if v, ok := col.(column.Valuer64); ok && col.Type() == column.KindF64 {
			return SumF64(v.ValuesF64()), nil
		}
	}
	agg, ok := col.(column.Aggregatable)
	if !ok {
		return nil, kerr.New(kerr.NotSupported, "kernel.Sum", "column type does not support sum")
	}
	indices := identityIndices(col.Len())
	val, _, err := agg.ComputeSum(indices, 0, len(indices))
	return val, err
}

func identityIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
