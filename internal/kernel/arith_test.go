package kernel

import (
	"testing"

	"coltab/internal/column"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementWiseI32(t *testing.T) {
	left := column.NewInt32ColumnFromSlice("a", []int32{1, 2, 3}, nil)
	right := column.NewInt32ColumnFromSlice("b", []int32{10, 20, 30}, nil)
	out, err := ElementWise(left, right, Add)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	v, ok := out.GetBoxed(0)
	assert.True(t, ok)
	assert.Equal(t, int32(11), v)
}

func TestElementWiseRejectsLengthMismatch(t *testing.T) {
	left := column.NewInt32ColumnFromSlice("a", []int32{1, 2}, nil)
	right := column.NewInt32ColumnFromSlice("b", []int32{1, 2, 3}, nil)
	_, err := ElementWise(left, right, Add)
	assert.Error(t, err)
}

func TestElementWiseDivisionByZeroFails(t *testing.T) {
	left := column.NewInt32ColumnFromSlice("a", []int32{10}, nil)
	right := column.NewInt32ColumnFromSlice("b", []int32{0}, nil)
	_, err := ElementWise(left, right, Div)
	assert.Error(t, err)
}

func TestScalarBroadcastF64(t *testing.T) {
	col := column.NewFloat64ColumnFromSlice("a", []float64{1, 2, 3}, nil)
	out, err := ScalarBroadcast(col, Mul, float64(2), false)
	require.NoError(t, err)
	v, _ := out.GetBoxed(1)
	assert.Equal(t, float64(4), v)
}
