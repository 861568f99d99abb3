package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareOpSwap(t *testing.T) {
	cases := []struct {
		op, want CompareOp
	}{
		{Lt, Gt},
		{Gt, Lt},
		{Le, Ge},
		{Ge, Le},
		{Eq, Eq},
		{Ne, Ne},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.op.Swap())
	}
}

func TestCollectColumns(t *testing.T) {
	e := Alias{
		Name: "total",
		Child: BinaryArith(
			Col{Name: "a"},
			Add,
			BinaryArith(Col{Name: "b"}, Mul, Col{Name: "a"}),
		),
	}
	names := CollectColumns(e)
	require.Equal(t, []string{"a", "b"}, names)
}

func TestIsJITEligible(t *testing.T) {
	ok := BinaryArith(Col{Name: "a"}, Add, Lit{Value: int32(1)})
	assert.True(t, IsJITEligible(ok))

	withCompare := BinaryCompare(Col{Name: "a"}, Gt, Lit{Value: int32(1)})
	assert.False(t, IsJITEligible(withCompare))

	withAgg := Agg{Op: Sum, Child: Col{Name: "a"}}
	assert.False(t, IsJITEligible(withAgg))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "a", OutputName(Col{Name: "a"}))
	assert.Equal(t, "total", OutputName(Alias{Child: Col{Name: "a"}, Name: "total"}))
	assert.Equal(t, "sum(a)", OutputName(Agg{Op: Sum, Child: Col{Name: "a"}}))
}

func TestBinaryKeyDistinguishesArithAndCompare(t *testing.T) {
	arith := BinaryArith(Col{Name: "a"}, Add, Col{Name: "b"})
	compare := BinaryCompare(Col{Name: "a"}, Eq, Col{Name: "b"})
	assert.NotEqual(t, arith.Key(), compare.Key())
}
