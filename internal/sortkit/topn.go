package sortkit

import (
	"container/heap"

	"coltab/internal/column"
	"coltab/table"
)

// rowHeap is a container/heap.Interface over row indices, ordered by
// a single column's boxed value. wantsMax selects which element
// surfaces at the heap's root — for Smallest we want a
// max-heap (root = current worst-of-the-kept, so easy to evict), for
// Largest a min-heap.
type rowHeap struct {
	col      column.Column
	indices  []int
	wantsMax bool // true: root holds the largest kept value (Smallest mode)
}

func (h *rowHeap) Len() int { return len(h.indices) }
func (h *rowHeap) Less(i, j int) bool {
	c := compareBoxedAt(h.col, h.indices[i], h.indices[j])
	if h.wantsMax {
		return c > 0
	}
	return c < 0
}
func (h *rowHeap) Swap(i, j int) { h.indices[i], h.indices[j] = h.indices[j], h.indices[i] }
func (h *rowHeap) Push(x any)    { h.indices = append(h.indices, x.(int)) }
func (h *rowHeap) Pop() any {
	n := len(h.indices)
	v := h.indices[n-1]
	h.indices = h.indices[:n-1]
	return v
}

func compareBoxedAt(c column.Column, a, b int) int {
	av, _ := c.GetBoxed(a)
	bv, _ := c.GetBoxed(b)
	return compareBoxed(av, bv)
}

// Smallest returns the indices of the n rows with the smallest values
// in colName, ascending, ignoring null values. For n >= row count it
// delegates to a full ArgSort and windows the result (§4.L).
func Smallest(t *table.Table, n int, colName string) ([]int, error) {
	return topN(t, n, colName, true)
}

// Largest is Smallest for the n largest values, descending-then-
// windowed via ArgSort on the same column.
func Largest(t *table.Table, n int, colName string) ([]int, error) {
	return topN(t, n, colName, false)
}

func topN(t *table.Table, n int, colName string, smallest bool) ([]int, error) {
	col, err := t.Column(colName)
	if err != nil {
		return nil, err
	}
	rowCount := t.RowCount()
	if n >= rowCount {
		perm, err := ArgSort(t, []Key{{Column: colName, Ascending: smallest}})
		if err != nil {
			return nil, err
		}
		out := make([]int, 0, rowCount)
		for _, idx := range perm {
			if col.IsNull(idx) {
				continue
			}
			out = append(out, idx)
		}
		return out, nil
	}

	h := &rowHeap{col: col, wantsMax: smallest}
	for i := 0; i < rowCount; i++ {
		if col.IsNull(i) {
			continue
		}
		if h.Len() < n {
			heap.Push(h, i)
			continue
		}
		cmp := compareBoxedAt(col, i, h.indices[0])
		replace := false
		if smallest {
			replace = cmp < 0 // i is smaller than the current worst-kept (heap root, the max)
		} else {
			replace = cmp > 0 // i is larger than the current worst-kept (heap root, the min)
		}
		if replace {
			h.indices[0] = i
			heap.Fix(h, 0)
		}
	}

	kept := append([]int(nil), h.indices...)
	keptTable, err := subTable(t, colName, kept)
	if err != nil {
		return nil, err
	}
	order, err := ArgSort(keptTable, []Key{{Column: colName, Ascending: smallest}})
	if err != nil {
		return nil, err
	}
	out := make([]int, len(order))
	for i, o := range order {
		out[i] = kept[o]
	}
	return out, nil
}

// subTable builds a single-column table restricted to indices, used
// to re-sort the heap's final contents by value via ArgSort
// without re-implementing a second comparator.
func subTable(t *table.Table, colName string, indices []int) (*table.Table, error) {
	col, err := t.Column(colName)
	if err != nil {
		return nil, err
	}
	gathered, err := col.Gather(indices)
	if err != nil {
		return nil, err
	}
	return table.New([]column.Column{gathered})
}
