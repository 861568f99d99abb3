package kernel

import (
	"testing"

	"coltab/internal/column"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterVecContiguousI32(t *testing.T) {
	col := column.NewInt32ColumnFromSlice("a", []int32{1, 5, 3, 8, 2}, nil)
	idx, err := FilterVec(col, Gt, int32(3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, idx)
}

func TestFilterVecSkipsNulls(t *testing.T) {
	col := column.NewInt32Column("a", 4, true)
	col.Append(1)
	col.Append(5)
	require.NoError(t, col.SetNull(1))
	col.Append(5)
	idx, err := FilterVec(col, Eq, int32(5))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, idx)
}

func TestFilterVecRejectsWrongScalarType(t *testing.T) {
	col := column.NewInt32ColumnFromSlice("a", []int32{1, 2}, nil)
	_, err := FilterVec(col, Eq, "nope")
	assert.Error(t, err)
}

func TestFilterVecGenericBoolColumn(t *testing.T) {
	col := column.NewBoolColumn("flag", 3, false)
	col.Append(true)
	col.Append(false)
	col.Append(true)
	idx, err := FilterVec(col, Eq, true)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, idx)
}
