// Package exec implements the physical planner (§4.O): it lowers an
// optimized plan.Node tree to calls against the kernel, grouping, agg,
// join, and sortkit packages, materializing a table.Table at the root.
package exec

import (
	"coltab/config"
	"coltab/expr"
	"coltab/internal/agg"
	"coltab/internal/column"
	"coltab/internal/grouping"
	"coltab/internal/join"
	"coltab/internal/kernel"
	"coltab/internal/sortkit"
	"coltab/kerr"
	"coltab/plan"
	"coltab/table"
)

// Config bundles the tunables the physical planner forwards to the
// grouping and join kernels.
type Config struct {
	Grouping config.GroupingConfig
}

// Run executes n and materializes its result as a table.Table
// (§4.O). This is the non-streaming eager path; Stream below covers
// the row-iterator mode for aggregations.
func Run(n plan.Node, cfg Config) (*table.Table, error) {
	switch v := n.(type) {
	case plan.Scan:
		return v.Table, nil
	case plan.Filter:
		return runFilter(v, cfg)
	case plan.Projection:
		return runProjection(v, cfg)
	case plan.Aggregate:
		return runAggregate(v, cfg)
	case plan.Join:
		return runJoin(v, cfg)
	case plan.Sort:
		return runSort(v, cfg)
	default:
		return nil, kerr.New(kerr.NotSupported, "exec.Run", "unknown plan node")
	}
}

func runFilter(f plan.Filter, cfg Config) (*table.Table, error) {
	input, err := Run(f.Input, cfg)
	if err != nil {
		return nil, err
	}

	if colName, scalar, op, ok := scalarPredicate(f.Predicate); ok {
		c, err := input.Column(colName)
		if err != nil {
			return nil, err
		}
		indices, err := kernel.FilterVec(c, op, scalar)
		if err != nil {
			return nil, err
		}
		return gatherTable(input, indices)
	}

	return filterByRowCursor(input, f.Predicate)
}

// scalarPredicate recognizes the Col-op-Lit(scalar) shape the
// optimizer canonicalizes comparisons into (§4.N rule 4), which the
// vectorized FilterVec kernel executes directly.
func scalarPredicate(pred expr.Binary) (colName string, scalar any, op expr.CompareOp, ok bool) {
	if pred.Kind != expr.CompareKind {
		return "", nil, 0, false
	}
	col, isCol := pred.Left.(expr.Col)
	lit, isLit := pred.Right.(expr.Lit)
	if !isCol || !isLit {
		return "", nil, 0, false
	}
	return col.Name, lit.Value, pred.Compare, true
}

// filterByRowCursor is the interpreted fallback for predicate shapes
// FilterVec cannot execute directly (e.g. column-to-column
// comparisons), walking the table one row at a time via table.Row.
func filterByRowCursor(input *table.Table, pred expr.Binary) (*table.Table, error) {
	names := expr.CollectColumns(pred)
	kinds := make(map[string]column.Kind, len(names))
	for _, n := range names {
		c, err := input.Column(n)
		if err != nil {
			return nil, err
		}
		kinds[n] = c.Type()
	}

	var kept []int
	for i := 0; i < input.RowCount(); i++ {
		match, err := evalComparisonAt(input, pred, i)
		if err != nil {
			return nil, err
		}
		if match {
			kept = append(kept, i)
		}
	}
	return gatherTable(input, kept)
}

func evalComparisonAt(t *table.Table, pred expr.Binary, row int) (bool, error) {
	leftCol, leftOk, err := evalOperandAt(t, pred.Left, row)
	if err != nil {
		return false, err
	}
	rightCol, rightOk, err := evalOperandAt(t, pred.Right, row)
	if err != nil {
		return false, err
	}
	if !leftOk || !rightOk {
		return false, nil
	}
	c, ok := compareAny(leftCol, rightCol)
	if !ok {
		return false, kerr.New(kerr.KindMismatch, "exec.evalComparisonAt", "incomparable operand types")
	}
	return applyCompare(pred.Compare, c), nil
}

func evalOperandAt(t *table.Table, e expr.Expr, row int) (any, bool, error) {
	switch v := e.(type) {
	case expr.Col:
		c, err := t.Column(v.Name)
		if err != nil {
			return nil, false, err
		}
		val, ok := c.GetBoxed(row)
		return val, ok, nil
	case expr.Lit:
		return v.Value, true, nil
	default:
		return nil, false, kerr.New(kerr.NotSupported, "exec.evalOperandAt", "unsupported predicate operand")
	}
}

func compareAny(a, b any) (int, bool) {
	switch av := a.(type) {
	case int32:
		bv, ok := b.(int32)
		if !ok {
			return 0, false
		}
		return cmp(av, bv), true
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0, false
		}
		return cmp(av, bv), true
	case column.Timestamp:
		bv, ok := b.(column.Timestamp)
		if !ok {
			return 0, false
		}
		return cmp(av, bv), true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return cmp(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av && bv {
			return -1, true
		}
		return 1, true
	default:
		return 0, false
	}
}

func cmp[T int32 | float64 | column.Timestamp | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func applyCompare(op expr.CompareOp, c int) bool {
	switch op {
	case expr.Eq:
		return c == 0
	case expr.Ne:
		return c != 0
	case expr.Lt:
		return c < 0
	case expr.Le:
		return c <= 0
	case expr.Gt:
		return c > 0
	case expr.Ge:
		return c >= 0
	default:
		return false
	}
}

// gatherTable rebuilds input restricted to indices, column by column.
func gatherTable(input *table.Table, indices []int) (*table.Table, error) {
	cols := input.Columns()
	out := make([]column.Column, len(cols))
	for i, c := range cols {
		g, err := c.Gather(indices)
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return table.New(out)
}

func runProjection(p plan.Projection, cfg Config) (*table.Table, error) {
	input, err := Run(p.Input, cfg)
	if err != nil {
		return nil, err
	}

	colKinds := make(map[string]column.Kind)
	for _, c := range input.Columns() {
		colKinds[c.Name()] = c.Type()
	}

	out := make([]column.Column, len(p.Exprs))
	for i, ne := range p.Exprs {
		c, err := evalProjectionExpr(input, ne, colKinds)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return table.New(out)
}

func evalProjectionExpr(input *table.Table, ne plan.NamedExpr, colKinds map[string]column.Kind) (column.Column, error) {
	if col, ok := ne.Expr.(expr.Col); ok && !needsRename(ne) {
		return input.Column(col.Name)
	}

	if expr.IsJITEligible(ne.Expr) {
		prog, err := kernel.Compile(ne.Expr, colKinds)
		if err == nil {
			return runJITProgram(input, prog, ne.Name)
		}
	}
	return nil, kerr.New(kerr.NotSupported, "exec.evalProjectionExpr", "projection expression is outside the supported set")
}

func needsRename(ne plan.NamedExpr) bool {
	col, ok := ne.Expr.(expr.Col)
	return !ok || col.Name != ne.Name
}

func runJITProgram(input *table.Table, prog *kernel.Program, outName string) (column.Column, error) {
	n := input.RowCount()
	if prog.IsI32 {
		inputs := make([][]int32, len(prog.ColNames))
		for i, name := range prog.ColNames {
			c, err := input.Column(name)
			if err != nil {
				return nil, err
			}
			v, ok := c.(column.Valuer32)
			if !ok {
				return nil, kerr.New(kerr.KindMismatch, "exec.runJITProgram", "column "+name+" is not a contiguous i32 buffer")
			}
			inputs[i] = v.ValuesI32()
		}
		out := make([]int32, n)
		prog.RunI32(n, out, inputs)
		return column.NewInt32ColumnFromSlice(outName, out, nil), nil
	}

	inputs := make([][]float64, len(prog.ColNames))
	for i, name := range prog.ColNames {
		c, err := input.Column(name)
		if err != nil {
			return nil, err
		}
		if v, ok := c.(column.Valuer64); ok && c.Type() == column.KindF64 {
			inputs[i] = v.ValuesF64()
		} else if v, ok := c.(column.Valuer32); ok && c.Type() == column.KindI32 {
			inputs[i] = kernel.WidenI32ToF64(v.ValuesI32())
		} else {
			return nil, kerr.New(kerr.KindMismatch, "exec.runJITProgram", "column "+name+" is not a numeric buffer")
		}
	}
	out := make([]float64, n)
	prog.RunF64(n, out, inputs)
	return column.NewFloat64ColumnFromSlice(outName, out, nil), nil
}

func runAggregate(a plan.Aggregate, cfg Config) (*table.Table, error) {
	input, err := Run(a.Input, cfg)
	if err != nil {
		return nil, err
	}
	gr, err := grouping.Group(input, a.GroupColumns, cfg.Grouping)
	if err != nil {
		return nil, err
	}
	defs := make([]agg.Def, len(a.AggExprs))
	for i, ae := range a.AggExprs {
		defs[i] = agg.Def{Op: ae.Op, Source: ae.Source, Target: ae.Target}
	}
	return agg.Aggregate(input, gr, defs)
}

func runJoin(j plan.Join, cfg Config) (*table.Table, error) {
	left, err := Run(j.Left, cfg)
	if err != nil {
		return nil, err
	}
	right, err := Run(j.Right, cfg)
	if err != nil {
		return nil, err
	}
	return join.Join(left, right, j.On, j.Kind, cfg.Grouping)
}

func runSort(s plan.Sort, cfg Config) (*table.Table, error) {
	input, err := Run(s.Input, cfg)
	if err != nil {
		return nil, err
	}
	perm, err := sortkit.ArgSort(input, s.Keys)
	if err != nil {
		return nil, err
	}
	return gatherTable(input, perm)
}
