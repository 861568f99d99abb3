package frame

import (
	"testing"

	"coltab/expr"
	"coltab/internal/column"
	"coltab/internal/join"
	"coltab/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPeople(t *testing.T) *table.Table {
	t.Helper()
	id := column.NewInt32ColumnFromSlice("id", []int32{1, 2, 3, 4}, nil)
	age := column.NewInt32ColumnFromSlice("age", []int32{30, 25, 40, 25}, nil)
	tbl, err := table.New([]column.Column{id, age})
	require.NoError(t, err)
	return tbl
}

func TestFilterKeepsMatchingRows(t *testing.T) {
	tbl := buildPeople(t)
	out, err := Filter(tbl, "age", expr.Gt, int32(25))
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
}

func TestSelectProjectsNamedColumns(t *testing.T) {
	tbl := buildPeople(t)
	out, err := Select(tbl, "age")
	require.NoError(t, err)
	assert.Equal(t, 1, out.ColumnCount())
}

func TestHeadAndTail(t *testing.T) {
	tbl := buildPeople(t)
	head, err := Head(tbl, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, head.RowCount())

	tail, err := Tail(tbl, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, tail.RowCount())
}

func TestDistinctKeepsOneRowPerGroup(t *testing.T) {
	tbl := buildPeople(t)
	out, err := Distinct(tbl, "age")
	require.NoError(t, err)
	assert.Equal(t, 3, out.RowCount())
}

func TestOrderByAscending(t *testing.T) {
	tbl := buildPeople(t)
	out, err := OrderBy(tbl, []string{"age"}, []bool{true})
	require.NoError(t, err)
	ageCol, err := out.Column("age")
	require.NoError(t, err)
	first, _ := ageCol.GetBoxed(0)
	assert.Equal(t, int32(25), first)
}

func TestGroupByCount(t *testing.T) {
	tbl := buildPeople(t)
	g, err := GroupBy(tbl, "age")
	require.NoError(t, err)
	out, err := g.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, out.RowCount())
}

func TestGroupBySum(t *testing.T) {
	tbl := buildPeople(t)
	g, err := GroupBy(tbl, "age")
	require.NoError(t, err)
	out, err := g.Sum("id")
	require.NoError(t, err)
	assert.Equal(t, 3, out.RowCount())
}

func TestJoinInner(t *testing.T) {
	left := buildPeople(t)
	rightID := column.NewInt32ColumnFromSlice("id", []int32{1, 2}, nil)
	rightTag := column.NewVarcharColumn("tag", 2, false)
	rightTag.Append("x")
	rightTag.Append("y")
	right, err := table.New([]column.Column{rightID, rightTag})
	require.NoError(t, err)

	out, err := Join(left, right, "id", join.Inner)
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
}

func TestAddColumnJITProjectsNewColumn(t *testing.T) {
	tbl := buildPeople(t)
	out, err := AddColumn(tbl, "age_plus_one", expr.BinaryArith(expr.Col{Name: "age"}, expr.Add, expr.Lit{Value: int32(1)}))
	require.NoError(t, err)
	assert.Equal(t, 3, out.ColumnCount())
	col, err := out.Column("age_plus_one")
	require.NoError(t, err)
	v, _ := col.GetBoxed(0)
	assert.Equal(t, int32(31), v)
}

func TestSmallestAndLargest(t *testing.T) {
	tbl := buildPeople(t)
	smallest, err := Smallest(tbl, 1, "age")
	require.NoError(t, err)
	v, _ := mustColumn(t, smallest, "age").GetBoxed(0)
	assert.Equal(t, int32(25), v)

	largest, err := Largest(tbl, 1, "age")
	require.NoError(t, err)
	v, _ = mustColumn(t, largest, "age").GetBoxed(0)
	assert.Equal(t, int32(40), v)
}

func mustColumn(t *testing.T, tbl *table.Table, name string) column.Column {
	t.Helper()
	c, err := tbl.Column(name)
	require.NoError(t, err)
	return c
}
