package exec

import (
	"testing"

	"coltab/config"
	"coltab/expr"
	"coltab/internal/column"
	"coltab/internal/join"
	"coltab/internal/sortkit"
	"coltab/plan"
	"coltab/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScan(t *testing.T) plan.Scan {
	t.Helper()
	id := column.NewInt32ColumnFromSlice("id", []int32{1, 2, 3, 4, 5}, nil)
	val := column.NewInt32ColumnFromSlice("val", []int32{10, 20, 30, 40, 50}, nil)
	tbl, err := table.New([]column.Column{id, val})
	require.NoError(t, err)
	return plan.Scan{Table: tbl}
}

func defaultCfg() Config {
	return Config{Grouping: config.Default().Grouping}
}

func TestRunScanReturnsUnderlyingTable(t *testing.T) {
	s := buildScan(t)
	out, err := Run(s, defaultCfg())
	require.NoError(t, err)
	assert.Equal(t, 5, out.RowCount())
}

func TestRunFilterUsesVectorizedScalarPath(t *testing.T) {
	s := buildScan(t)
	f := plan.Filter{
		Input:     s,
		Predicate: expr.BinaryCompare(expr.Col{Name: "val"}, expr.Gt, expr.Lit{Value: int32(20)}),
	}
	out, err := Run(f, defaultCfg())
	require.NoError(t, err)
	assert.Equal(t, 3, out.RowCount())
}

func TestRunFilterFallsBackToRowCursorForColumnToColumn(t *testing.T) {
	s := buildScan(t)
	pred := expr.BinaryCompare(expr.Col{Name: "val"}, expr.Gt, expr.Col{Name: "id"})
	f := plan.Filter{Input: s, Predicate: pred}
	out, err := Run(f, defaultCfg())
	require.NoError(t, err)
	assert.Equal(t, 5, out.RowCount())
}

func TestRunProjectionPassthroughAndRename(t *testing.T) {
	s := buildScan(t)
	p := plan.Projection{
		Input: s,
		Exprs: []plan.NamedExpr{{Expr: expr.Col{Name: "id"}, Name: "renamed"}},
	}
	out, err := Run(p, defaultCfg())
	require.NoError(t, err)
	assert.True(t, out.HasColumn("renamed"))
}

func TestRunProjectionJITComputedColumn(t *testing.T) {
	s := buildScan(t)
	p := plan.Projection{
		Input: s,
		Exprs: []plan.NamedExpr{{
			Expr: expr.BinaryArith(expr.Col{Name: "val"}, expr.Add, expr.Lit{Value: int32(1)}),
			Name: "val_plus_one",
		}},
	}
	out, err := Run(p, defaultCfg())
	require.NoError(t, err)
	col, err := out.Column("val_plus_one")
	require.NoError(t, err)
	v, _ := col.GetBoxed(0)
	assert.Equal(t, int32(11), v)
}

func TestRunAggregateGroupsByKey(t *testing.T) {
	key := column.NewInt32ColumnFromSlice("key", []int32{1, 1, 2}, nil)
	val := column.NewInt32ColumnFromSlice("val", []int32{1, 2, 3}, nil)
	tbl, err := table.New([]column.Column{key, val})
	require.NoError(t, err)

	a := plan.Aggregate{
		Input:        plan.Scan{Table: tbl},
		GroupColumns: []string{"key"},
		AggExprs:     []plan.AggExpr{{Op: expr.Sum, Source: "val", Target: "sum_val"}},
	}
	out, err := Run(a, defaultCfg())
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
}

func TestRunJoinInner(t *testing.T) {
	leftID := column.NewInt32ColumnFromSlice("id", []int32{1, 2}, nil)
	left, err := table.New([]column.Column{leftID})
	require.NoError(t, err)
	rightID := column.NewInt32ColumnFromSlice("id", []int32{2, 3}, nil)
	right, err := table.New([]column.Column{rightID})
	require.NoError(t, err)

	j := plan.Join{Left: plan.Scan{Table: left}, Right: plan.Scan{Table: right}, On: "id", Kind: join.Inner}
	out, err := Run(j, defaultCfg())
	require.NoError(t, err)
	assert.Equal(t, 1, out.RowCount())
}

func TestRunSortOrdersByKey(t *testing.T) {
	col := column.NewInt32ColumnFromSlice("v", []int32{3, 1, 2}, nil)
	tbl, err := table.New([]column.Column{col})
	require.NoError(t, err)

	s := plan.Sort{Input: plan.Scan{Table: tbl}, Keys: []sortkit.Key{{Column: "v", Ascending: true}}}
	out, err := Run(s, defaultCfg())
	require.NoError(t, err)
	first, _ := func() (any, bool) {
		c, err := out.Column("v")
		require.NoError(t, err)
		return c.GetBoxed(0)
	}()
	assert.Equal(t, int32(1), first)
}
