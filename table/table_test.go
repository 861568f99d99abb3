package table

import (
	"testing"

	"coltab/internal/column"
	"coltab/kerr"
	"coltab/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDerivesSchemaFromColumns(t *testing.T) {
	a := column.NewInt32ColumnFromSlice("a", []int32{1, 2, 3}, nil)
	b := column.NewVarcharColumn("b", 3, false)
	b.Append("x")
	b.Append("y")
	b.Append("z")

	tbl, err := New([]column.Column{a, b})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, 2, tbl.ColumnCount())
	assert.True(t, tbl.HasColumn("b"))
}

func TestNewRejectsShapeMismatch(t *testing.T) {
	a := column.NewInt32ColumnFromSlice("a", []int32{1, 2}, nil)
	b := column.NewInt32ColumnFromSlice("b", []int32{1, 2, 3}, nil)
	_, err := New([]column.Column{a, b})
	require.Error(t, err)
	var kerrErr *kerr.Error
	require.ErrorAs(t, err, &kerrErr)
	assert.Equal(t, kerr.ShapeMismatch, kerrErr.Kind)
}

func TestCreateBuildsEmptyTypedColumns(t *testing.T) {
	sch, err := schema.New([]schema.Field{{Name: "a", Type: schema.TypeI32, Nullable: false}})
	require.NoError(t, err)
	tbl, err := Create(sch, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.RowCount())
	assert.Equal(t, 1, tbl.ColumnCount())
}

func TestRowAccessorsReadTypedValues(t *testing.T) {
	a := column.NewInt32ColumnFromSlice("a", []int32{42}, nil)
	tbl, err := New([]column.Column{a})
	require.NoError(t, err)
	row, err := tbl.Row(0)
	require.NoError(t, err)
	v, err := row.GetI32(0)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)
}

func TestRowOutOfRange(t *testing.T) {
	a := column.NewInt32ColumnFromSlice("a", []int32{1}, nil)
	tbl, err := New([]column.Column{a})
	require.NoError(t, err)
	_, err = tbl.Row(5)
	assert.Error(t, err)
}
