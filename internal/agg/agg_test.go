package agg

import (
	"testing"

	"coltab/config"
	"coltab/expr"
	"coltab/internal/column"
	"coltab/internal/grouping"
	"coltab/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSrc(t *testing.T) *table.Table {
	t.Helper()
	key := column.NewInt32ColumnFromSlice("key", []int32{1, 1, 2, 2, 2}, nil)
	value := column.NewInt32ColumnFromSlice("value", []int32{10, 20, 1, 2, 3}, nil)
	tbl, err := table.New([]column.Column{key, value})
	require.NoError(t, err)
	return tbl
}

func TestAggregateSum(t *testing.T) {
	src := buildSrc(t)
	gr, err := grouping.Group(src, []string{"key"}, config.Default().Grouping)
	require.NoError(t, err)

	out, err := Aggregate(src, gr, []Def{{Op: expr.Sum, Source: "value", Target: "total"}})
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount())

	totalCol, err := out.Column("total")
	require.NoError(t, err)
	v0, _ := totalCol.GetBoxed(0)
	v1, _ := totalCol.GetBoxed(1)
	assert.Equal(t, int32(30), v0)
	assert.Equal(t, int32(6), v1)
}

func TestAggregateCountFastPath(t *testing.T) {
	src := buildSrc(t)
	gr, err := grouping.Group(src, []string{"key"}, config.Default().Grouping)
	require.NoError(t, err)
	assert.True(t, isCountFastPath(gr, []Def{{Op: expr.Count, Target: "n"}}))

	out, err := Aggregate(src, gr, []Def{{Op: expr.Count, Target: "n"}})
	require.NoError(t, err)
	countCol, err := out.Column("n")
	require.NoError(t, err)
	c0, _ := countCol.GetBoxed(0)
	c1, _ := countCol.GetBoxed(1)
	assert.Equal(t, int32(2), c0)
	assert.Equal(t, int32(3), c1)
}

func TestAggregateMeanOutputsF64(t *testing.T) {
	src := buildSrc(t)
	gr, err := grouping.Group(src, []string{"key"}, config.Default().Grouping)
	require.NoError(t, err)

	out, err := Aggregate(src, gr, []Def{{Op: expr.Mean, Source: "value", Target: "avg"}})
	require.NoError(t, err)
	avgCol, err := out.Column("avg")
	require.NoError(t, err)
	assert.Equal(t, column.KindF64, avgCol.Type())
}

func TestAggregateRequiresAtLeastOneDef(t *testing.T) {
	src := buildSrc(t)
	gr, err := grouping.Group(src, []string{"key"}, config.Default().Grouping)
	require.NoError(t, err)
	_, err = Aggregate(src, gr, nil)
	assert.Error(t, err)
}
