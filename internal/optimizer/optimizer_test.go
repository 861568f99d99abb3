package optimizer

import (
	"testing"

	"coltab/expr"
	"coltab/internal/column"
	"coltab/plan"
	"coltab/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanOf(t *testing.T) plan.Scan {
	t.Helper()
	col := column.NewInt32ColumnFromSlice("a", []int32{1, 2, 3}, nil)
	tbl, err := table.New([]column.Column{col})
	require.NoError(t, err)
	return plan.Scan{Table: tbl}
}

func TestCanonicalizeComparisonsSwapsLitLeft(t *testing.T) {
	pred := expr.BinaryCompare(expr.Lit{Value: int32(1)}, expr.Lt, expr.Col{Name: "a"})
	n := plan.Filter{Input: scanOf(t), Predicate: pred}
	out := canonicalizeComparisons(n).(plan.Filter)

	col, ok := out.Predicate.Left.(expr.Col)
	require.True(t, ok)
	assert.Equal(t, "a", col.Name)
	assert.Equal(t, expr.Gt, out.Predicate.Compare)
}

func TestFoldConstantsCollapsesLiteralArithmetic(t *testing.T) {
	e := expr.BinaryArith(expr.Lit{Value: int32(2)}, expr.Add, expr.Lit{Value: int32(3)})
	folded := foldExpr(e)
	lit, ok := folded.(expr.Lit)
	require.True(t, ok)
	assert.Equal(t, int32(5), lit.Value)
}

func TestFoldConstantsDropsMultiplyByOne(t *testing.T) {
	e := expr.BinaryArith(expr.Col{Name: "a"}, expr.Mul, expr.Lit{Value: int32(1)})
	folded := foldExpr(e)
	col, ok := folded.(expr.Col)
	require.True(t, ok)
	assert.Equal(t, "a", col.Name)
}

func TestPushdownPredicatesThroughPassthroughProjection(t *testing.T) {
	proj := plan.Projection{
		Input: scanOf(t),
		Exprs: []plan.NamedExpr{{Expr: expr.Col{Name: "a"}, Name: "a"}},
	}
	pred := expr.BinaryCompare(expr.Col{Name: "a"}, expr.Gt, expr.Lit{Value: int32(1)})
	filter := plan.Filter{Input: proj, Predicate: pred}

	out := pushdownPredicates(filter)
	outProj, ok := out.(plan.Projection)
	require.True(t, ok)
	_, ok = outProj.Input.(plan.Filter)
	assert.True(t, ok, "filter should have moved below the projection")
}

func TestPushdownPredicatesSkipsComputedColumns(t *testing.T) {
	proj := plan.Projection{
		Input: scanOf(t),
		Exprs: []plan.NamedExpr{{Expr: expr.BinaryArith(expr.Col{Name: "a"}, expr.Add, expr.Lit{Value: int32(1)}), Name: "a"}},
	}
	pred := expr.BinaryCompare(expr.Col{Name: "a"}, expr.Gt, expr.Lit{Value: int32(1)})
	filter := plan.Filter{Input: proj, Predicate: pred}

	out := pushdownPredicates(filter)
	_, ok := out.(plan.Filter)
	assert.True(t, ok, "filter should stay above a projection that computes the referenced column")
}

func TestAnnotateGroupCountFastPath(t *testing.T) {
	agg := plan.Aggregate{
		Input:        scanOf(t),
		GroupColumns: []string{"a"},
		AggExprs:     []plan.AggExpr{{Op: expr.Count, Target: "n"}},
	}
	out := annotateGroupCountFastPath(agg).(plan.Aggregate)
	assert.True(t, out.FastPathCount)
}

func TestAnnotateGroupCountFastPathFalseForMultiKey(t *testing.T) {
	agg := plan.Aggregate{
		Input:        scanOf(t),
		GroupColumns: []string{"a", "b"},
		AggExprs:     []plan.AggExpr{{Op: expr.Count, Target: "n"}},
	}
	out := annotateGroupCountFastPath(agg).(plan.Aggregate)
	assert.False(t, out.FastPathCount)
}

func TestOptimizeReachesFixpoint(t *testing.T) {
	pred := expr.BinaryCompare(expr.Lit{Value: int32(1)}, expr.Lt, expr.Col{Name: "a"})
	n := plan.Filter{Input: scanOf(t), Predicate: pred}
	optimized := Optimize(n)
	out, ok := optimized.(plan.Filter)
	require.True(t, ok)
	assert.Equal(t, expr.Gt, out.Predicate.Compare)
}
