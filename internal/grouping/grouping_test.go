package grouping

import (
	"testing"

	"coltab/config"
	"coltab/internal/column"
	"coltab/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildKeyedTable(t *testing.T, keys []int32, nulls []int) *table.Table {
	t.Helper()
	col := column.NewInt32Column("key", len(keys), len(nulls) > 0)
	for _, k := range keys {
		col.Append(k)
	}
	for _, i := range nulls {
		require.NoError(t, col.SetNull(i))
	}
	tbl, err := table.New([]column.Column{col})
	require.NoError(t, err)
	return tbl
}

func TestGroupDirectMapCSRIsAscendingWithinGroup(t *testing.T) {
	tbl := buildKeyedTable(t, []int32{3, 1, 3, 1, 2}, nil)
	cfg := config.Default().Grouping
	gr, err := Group(tbl, []string{"key"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, IntDirectMap, gr.Strategy)
	assert.True(t, gr.Native)

	for g := 0; g < gr.GroupCount(); g++ {
		idx := gr.Indices[gr.Offsets[g]:gr.Offsets[g+1]]
		for i := 1; i < len(idx); i++ {
			assert.Less(t, idx[i-1], idx[i])
		}
	}
}

func TestGroupCollectsNullsIntoNullGroup(t *testing.T) {
	tbl := buildKeyedTable(t, []int32{1, 0, 1, 0}, []int{1, 3})
	gr, err := Group(tbl, []string{"key"}, config.Default().Grouping)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, gr.NullGroupIndices)
}

func TestGroupUsesRadixWhenRangeExceedsDirectMapCeiling(t *testing.T) {
	cfg := config.Default().Grouping
	cfg.DirectMapMaxRange = 1
	tbl := buildKeyedTable(t, []int32{1, 1_000_000, 2_000_000}, nil)
	gr, err := Group(tbl, []string{"key"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, IntRadix, gr.Strategy)
}

func TestGroupGenericHashMultiKey(t *testing.T) {
	a := column.NewInt32ColumnFromSlice("a", []int32{1, 1, 2}, nil)
	b := column.NewVarcharColumn("b", 3, false)
	b.Append("x")
	b.Append("y")
	b.Append("x")
	tbl, err := table.New([]column.Column{a, b})
	require.NoError(t, err)

	gr, err := Group(tbl, []string{"a", "b"}, config.Default().Grouping)
	require.NoError(t, err)
	assert.Equal(t, GenericHashMap, gr.Strategy)
	assert.False(t, gr.Native)
	assert.Equal(t, 3, gr.GroupCount())
}
