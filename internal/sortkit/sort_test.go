package sortkit

import (
	"testing"

	"coltab/internal/column"
	"coltab/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildValueTable(t *testing.T, vals []int32, nullIdx int) *table.Table {
	t.Helper()
	col := column.NewInt32Column("v", len(vals), nullIdx >= 0)
	for _, v := range vals {
		col.Append(v)
	}
	if nullIdx >= 0 {
		require.NoError(t, col.SetNull(nullIdx))
	}
	tbl, err := table.New([]column.Column{col})
	require.NoError(t, err)
	return tbl
}

func TestArgSortAscending(t *testing.T) {
	tbl := buildValueTable(t, []int32{3, 1, 2}, -1)
	perm, err := ArgSort(tbl, []Key{{Column: "v", Ascending: true}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, perm)
}

func TestArgSortNullsFirstAscending(t *testing.T) {
	tbl := buildValueTable(t, []int32{3, 0, 2}, 1)
	perm, err := ArgSort(tbl, []Key{{Column: "v", Ascending: true}})
	require.NoError(t, err)
	assert.Equal(t, 1, perm[0])
}

func TestArgSortNullsLastDescending(t *testing.T) {
	tbl := buildValueTable(t, []int32{3, 0, 2}, 1)
	perm, err := ArgSort(tbl, []Key{{Column: "v", Ascending: false}})
	require.NoError(t, err)
	assert.Equal(t, 1, perm[len(perm)-1])
}

func TestArgSortStableOnTies(t *testing.T) {
	a := column.NewInt32ColumnFromSlice("a", []int32{1, 1, 1}, nil)
	tbl, err := table.New([]column.Column{a})
	require.NoError(t, err)
	perm, err := ArgSort(tbl, []Key{{Column: "a", Ascending: true}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, perm)
}

func TestArgSortRequiresAtLeastOneKey(t *testing.T) {
	tbl := buildValueTable(t, []int32{1}, -1)
	_, err := ArgSort(tbl, nil)
	assert.Error(t, err)
}
