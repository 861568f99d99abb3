package lazy

import (
	"testing"

	"coltab/expr"
	"coltab/internal/column"
	"coltab/internal/join"
	"coltab/internal/sortkit"
	"coltab/plan"
	"coltab/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOrders(t *testing.T) *table.Table {
	t.Helper()
	key := column.NewInt32ColumnFromSlice("key", []int32{1, 1, 2, 2, 2}, nil)
	val := column.NewInt32ColumnFromSlice("val", []int32{5, 5, 1, 1, 1}, nil)
	tbl, err := table.New([]column.Column{key, val})
	require.NoError(t, err)
	return tbl
}

func TestBuilderFilterThenCollect(t *testing.T) {
	tbl := buildOrders(t)
	pred := expr.BinaryCompare(expr.Col{Name: "val"}, expr.Gt, expr.Lit{Value: int32(1)})
	out, err := From(tbl).Filter(pred).Collect()
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
}

func TestBuilderGroupByThenCollect(t *testing.T) {
	tbl := buildOrders(t)
	out, err := From(tbl).
		GroupBy([]string{"key"}, plan.AggExpr{Op: expr.Sum, Source: "val", Target: "total"}).
		Collect()
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
}

func TestBuilderSelectUsesOutputName(t *testing.T) {
	tbl := buildOrders(t)
	out, err := From(tbl).Select(expr.Col{Name: "key"}).Collect()
	require.NoError(t, err)
	assert.True(t, out.HasColumn("key"))
}

func TestBuilderOrderByAscending(t *testing.T) {
	tbl := buildOrders(t)
	out, err := From(tbl).OrderBy(sortkit.Key{Column: "val", Ascending: true}).Collect()
	require.NoError(t, err)
	col, err := out.Column("val")
	require.NoError(t, err)
	first, _ := col.GetBoxed(0)
	assert.Equal(t, int32(1), first)
}

func TestBuilderJoinCombinesTwoPipelines(t *testing.T) {
	left := buildOrders(t)
	rightID := column.NewInt32ColumnFromSlice("key", []int32{1, 2}, nil)
	right, err := table.New([]column.Column{rightID})
	require.NoError(t, err)

	out, err := From(left).Join(From(right), "key", join.Inner).Collect()
	require.NoError(t, err)
	assert.Equal(t, 5, out.RowCount())
}

func TestBuilderCollectCountStream(t *testing.T) {
	tbl := buildOrders(t)
	next, err := From(tbl).
		GroupBy([]string{"key"}, plan.AggExpr{Op: expr.Count, Target: "n"}).
		CollectCountStream()
	require.NoError(t, err)

	total := 0
	for {
		gc, ok, err := next()
		require.NoError(t, err)
		if !ok {
			break
		}
		total += gc.Count
	}
	assert.Equal(t, 5, total)
}

func TestBuilderCollectStreamMaterializesThenIterates(t *testing.T) {
	tbl := buildOrders(t)
	it, err := From(tbl).CollectStream()
	require.NoError(t, err)

	count := 0
	for {
		_, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 5, count)
}

func TestBuilderIsImmutableAcrossCalls(t *testing.T) {
	tbl := buildOrders(t)
	base := From(tbl)
	pred := expr.BinaryCompare(expr.Col{Name: "val"}, expr.Gt, expr.Lit{Value: int32(1)})
	filtered := base.Filter(pred)

	baseOut, err := base.Collect()
	require.NoError(t, err)
	filteredOut, err := filtered.Collect()
	require.NoError(t, err)

	assert.Equal(t, 5, baseOut.RowCount())
	assert.Equal(t, 2, filteredOut.RowCount())
}
