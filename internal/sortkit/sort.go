// Package sortkit implements the engine's ordering kernels (§4.L):
// stable multi-key ArgSort and heap-based top-N.
package sortkit

import (
	"sort"

	"coltab/internal/column"
	"coltab/kerr"
	"coltab/table"
)

// Key is one (column, direction) pair in a multi-key ordering.
type Key struct {
	Column    string
	Ascending bool
}

// ArgSort returns a permutation of [0, t.RowCount()) ordering rows by
// keys in order. Nulls sort first in ascending, last in descending;
// ties within all keys preserve source order (stable).
func ArgSort(t *table.Table, keys []Key) ([]int, error) {
	if len(keys) == 0 {
		return nil, kerr.New(kerr.NotSupported, "sortkit.ArgSort", "order_by requires at least one key column")
	}
	cols := make([]column.Column, len(keys))
	for i, k := range keys {
		c, err := t.Column(k.Column)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	n := t.RowCount()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	less := func(a, b int) bool {
		for ki, c := range cols {
			cmp := compareRows(c, a, b, keys[ki].Ascending)
			if cmp != 0 {
				if keys[ki].Ascending {
					return cmp < 0
				}
				return cmp > 0
			}
		}
		return false
	}
	sort.SliceStable(perm, func(i, j int) bool { return less(perm[i], perm[j]) })
	return perm, nil
}

// compareRows orders two rows of a single key column, returning
// -1/0/1 in the column's own natural order with null below every
// value; the caller flips it for descending, so nulls come first
// ascending and last descending.
func compareRows(c column.Column, a, b int, ascending bool) int {
	aNull, bNull := c.IsNull(a), c.IsNull(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	}
	av, _ := c.GetBoxed(a)
	bv, _ := c.GetBoxed(b)
	return compareBoxed(av, bv)
}

func compareBoxed(a, b any) int {
	switch av := a.(type) {
	case int32:
		bv := b.(int32)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case column.Timestamp:
		bv := b.(column.Timestamp)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case bool:
		bv := b.(bool)
		if av == bv {
			return 0
		}
		if !av && bv {
			return -1
		}
		return 1
	default:
		return 0
	}
}
