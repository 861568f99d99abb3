package column

// ComputeSum implements the typed aggregate hook for fixed-width
// columns (§4.C, §4.J). i32 widens to a 64-bit accumulator to avoid
// overflow; f64 accumulates in float64; timestamp sums nanoseconds.
// Nulls are skipped (the scalar guarded path, never SIMD, for nullable
// inputs). An empty or all-null group's sum is 0, not null.
func (c *FixedColumn[T]) ComputeSum(indices []int, start, end int) (any, bool, error) {
	switch c.kind {
	case KindI32:
		var sum int64
		for _, idx := range indices[start:end] {
			if c.mask != nil && c.mask.IsNull(idx) {
				continue
			}
			sum += int64(any(c.values[idx]).(int32))
		}
		return sum, true, nil
	case KindF64:
		var sum float64
		for _, idx := range indices[start:end] {
			if c.mask != nil && c.mask.IsNull(idx) {
				continue
			}
			sum += any(c.values[idx]).(float64)
		}
		return sum, true, nil
	case KindTimestamp:
		var sum int64
		for _, idx := range indices[start:end] {
			if c.mask != nil && c.mask.IsNull(idx) {
				continue
			}
			sum += int64(any(c.values[idx]).(Timestamp))
		}
		return sum, true, nil
	default:
		return nil, false, errNotSupported("FixedColumn.ComputeSum")
	}
}

// ComputeMean returns sum/count over non-null values in the slice, or
// (nil, false, nil) if the group is empty or entirely null.
func (c *FixedColumn[T]) ComputeMean(indices []int, start, end int) (any, bool, error) {
	switch c.kind {
	case KindI32:
		var sum int64
		var count int64
		for _, idx := range indices[start:end] {
			if c.mask != nil && c.mask.IsNull(idx) {
				continue
			}
			sum += int64(any(c.values[idx]).(int32))
			count++
		}
		if count == 0 {
			return nil, false, nil
		}
		return float64(sum) / float64(count), true, nil
	case KindF64:
		var sum float64
		var count int64
		for _, idx := range indices[start:end] {
			if c.mask != nil && c.mask.IsNull(idx) {
				continue
			}
			sum += any(c.values[idx]).(float64)
			count++
		}
		if count == 0 {
			return nil, false, nil
		}
		return sum / float64(count), true, nil
	case KindTimestamp:
		var sum int64
		var count int64
		for _, idx := range indices[start:end] {
			if c.mask != nil && c.mask.IsNull(idx) {
				continue
			}
			sum += int64(any(c.values[idx]).(Timestamp))
			count++
		}
		if count == 0 {
			return nil, false, nil
		}
		return Timestamp(sum / count), true, nil
	default:
		return nil, false, errNotSupported("FixedColumn.ComputeMean")
	}
}

// ComputeMin returns the smallest non-null value in the slice, or
// (nil, false, nil) for an empty or all-null group.
func (c *FixedColumn[T]) ComputeMin(indices []int, start, end int) (any, bool, error) {
	var best T
	found := false
	for _, idx := range indices[start:end] {
		if c.mask != nil && c.mask.IsNull(idx) {
			continue
		}
		v := c.values[idx]
		if !found || v < best {
			best = v
			found = true
		}
	}
	if !found {
		return nil, false, nil
	}
	return best, true, nil
}

// ComputeMax returns the largest non-null value in the slice, or
// (nil, false, nil) for an empty or all-null group.
func (c *FixedColumn[T]) ComputeMax(indices []int, start, end int) (any, bool, error) {
	var best T
	found := false
	for _, idx := range indices[start:end] {
		if c.mask != nil && c.mask.IsNull(idx) {
			continue
		}
		v := c.values[idx]
		if !found || v > best {
			best = v
			found = true
		}
	}
	if !found {
		return nil, false, nil
	}
	return best, true, nil
}
