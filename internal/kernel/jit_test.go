package kernel

import (
	"testing"

	"coltab/expr"
	"coltab/internal/column"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileI32(t *testing.T) {
	e := expr.BinaryArith(expr.Col{Name: "a"}, expr.Add, expr.BinaryArith(expr.Col{Name: "b"}, expr.Mul, expr.Lit{Value: int32(2)}))
	prog, err := Compile(e, map[string]column.Kind{"a": column.KindI32, "b": column.KindI32})
	require.NoError(t, err)
	require.True(t, prog.IsI32)
	require.Equal(t, []string{"a", "b"}, prog.ColNames)

	a := []int32{1, 2, 3}
	b := []int32{10, 20, 30}
	out := make([]int32, 3)
	prog.RunI32(3, out, [][]int32{a, b})
	assert.Equal(t, []int32{21, 42, 63}, out)
}

func TestCompileWidensToF64WhenLiteralIsFloat(t *testing.T) {
	e := expr.BinaryArith(expr.Col{Name: "a"}, expr.Mul, expr.Lit{Value: 1.5})
	prog, err := Compile(e, map[string]column.Kind{"a": column.KindI32})
	require.NoError(t, err)
	require.False(t, prog.IsI32)

	out := make([]float64, 2)
	prog.RunF64(2, out, [][]float64{{2, 4}})
	assert.Equal(t, []float64{3, 6}, out)
}

func TestCompileCachesByStructuralIdentity(t *testing.T) {
	e1 := expr.BinaryArith(expr.Col{Name: "a"}, expr.Add, expr.Lit{Value: int32(1)})
	e2 := expr.BinaryArith(expr.Col{Name: "a"}, expr.Add, expr.Lit{Value: int32(1)})
	kinds := map[string]column.Kind{"a": column.KindI32}

	p1, err := Compile(e1, kinds)
	require.NoError(t, err)
	p2, err := Compile(e2, kinds)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
}

func TestCompileRejectsComparisonNodes(t *testing.T) {
	e := expr.BinaryCompare(expr.Col{Name: "a"}, expr.Gt, expr.Lit{Value: int32(1)})
	_, err := Compile(e, map[string]column.Kind{"a": column.KindI32})
	assert.Error(t, err)
}

func TestCompileDivisionByZeroI32YieldsZero(t *testing.T) {
	e := expr.BinaryArith(expr.Col{Name: "a"}, expr.Div, expr.Lit{Value: int32(0)})
	prog, err := Compile(e, map[string]column.Kind{"a": column.KindI32})
	require.NoError(t, err)
	out := make([]int32, 1)
	prog.RunI32(1, out, [][]int32{{7}})
	assert.Equal(t, int32(0), out[0])
}

func TestWidenI32ToF64(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, WidenI32ToF64([]int32{1, 2, 3}))
}
