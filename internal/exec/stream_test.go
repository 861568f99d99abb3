package exec

import (
	"testing"

	"coltab/expr"
	"coltab/internal/column"
	"coltab/plan"
	"coltab/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildKeyedForStream(t *testing.T) plan.Scan {
	t.Helper()
	key := column.NewInt32ColumnFromSlice("key", []int32{1, 1, 2, 2, 2}, nil)
	tbl, err := table.New([]column.Column{key})
	require.NoError(t, err)
	return plan.Scan{Table: tbl}
}

func TestCountStreamYieldsOneGroupCountPerKey(t *testing.T) {
	a := plan.Aggregate{
		Input:        buildKeyedForStream(t),
		GroupColumns: []string{"key"},
		AggExprs:     []plan.AggExpr{{Op: expr.Count, Target: "n"}},
	}
	next, err := CountStream(a, defaultCfg())
	require.NoError(t, err)

	seen := map[int32]int{}
	for {
		gc, ok, err := next()
		require.NoError(t, err)
		if !ok {
			break
		}
		seen[gc.Key[0].(int32)] = gc.Count
	}
	assert.Equal(t, map[int32]int{1: 2, 2: 3}, seen)
}

func TestCountStreamRejectsNonAggregateNode(t *testing.T) {
	_, err := CountStream(buildKeyedForStream(t), defaultCfg())
	assert.Error(t, err)
}

func TestStreamWalksMaterializedRows(t *testing.T) {
	s := buildKeyedForStream(t)
	it, err := Stream(s, defaultCfg())
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
