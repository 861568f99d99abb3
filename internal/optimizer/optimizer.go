// Package optimizer rewrites logical plan trees (§4.N): predicate
// pushdown, projection pruning, constant folding, comparison
// canonicalization, and the group-count fast-path annotation. Each
// rule is idempotent and the rewriter applies the full rule set to a
// fixpoint.
package optimizer

import (
	"coltab/expr"
	"coltab/plan"
)

// Optimize applies every rewrite rule to n repeatedly until no rule
// changes the tree (or a safety iteration cap is hit, guarding against
// a rule pair that could otherwise cycle).
func Optimize(n plan.Node) plan.Node {
	for i := 0; i < 8; i++ {
		rewritten := rewriteOnce(n)
		if sameShape(rewritten, n) {
			return rewritten
		}
		n = rewritten
	}
	return n
}

func rewriteOnce(n plan.Node) plan.Node {
	n = canonicalizeComparisons(n)
	n = foldConstants(n)
	n = pushdownPredicates(n)
	n = pruneProjections(n)
	n = annotateGroupCountFastPath(n)
	return n
}

// sameShape is a cheap structural-equality check used only to detect
// a fixpoint; it compares the Key() identity of every expression the
// tree carries plus each node's shape, not pointer identity.
func sameShape(a, b plan.Node) bool {
	return describe(a) == describe(b)
}

func describe(n plan.Node) string {
	if n == nil {
		return ""
	}
	switch v := n.(type) {
	case plan.Scan:
		return "scan"
	case plan.Filter:
		return "filter(" + v.Predicate.Key() + "," + describe(v.Input) + ")"
	case plan.Projection:
		s := "proj("
		for _, e := range v.Exprs {
			s += e.Expr.Key() + ";"
		}
		return s + describe(v.Input) + ")"
	case plan.Aggregate:
		s := "agg("
		for _, g := range v.GroupColumns {
			s += g + ","
		}
		for _, a := range v.AggExprs {
			s += a.Op.String() + ":" + a.Source + ";"
		}
		if v.FastPathCount {
			s += "fast"
		}
		return s + describe(v.Input) + ")"
	case plan.Join:
		return "join(" + v.On + "," + describe(v.Left) + "," + describe(v.Right) + ")"
	case plan.Sort:
		s := "sort("
		for _, k := range v.Keys {
			s += k.Column + ";"
		}
		return s + describe(v.Input) + ")"
	default:
		return "?"
	}
}

// canonicalizeComparisons rewrites Binary(Lit,op,Col) into
// Binary(Col,swap(op),Lit) everywhere a comparison Binary appears,
// so the vectorized compare kernel's scalar-on-right invariant holds
// (§4.N rule 4).
func canonicalizeComparisons(n plan.Node) plan.Node {
	switch v := n.(type) {
	case plan.Filter:
		return plan.Filter{Input: canonicalizeComparisons(v.Input), Predicate: canonicalizeBinary(v.Predicate)}
	case plan.Projection:
		exprs := make([]plan.NamedExpr, len(v.Exprs))
		for i, ne := range v.Exprs {
			exprs[i] = plan.NamedExpr{Expr: canonicalizeExpr(ne.Expr), Name: ne.Name}
		}
		return plan.Projection{Input: canonicalizeComparisons(v.Input), Exprs: exprs}
	case plan.Aggregate:
		return plan.Aggregate{Input: canonicalizeComparisons(v.Input), GroupColumns: v.GroupColumns, AggExprs: v.AggExprs, FastPathCount: v.FastPathCount}
	case plan.Join:
		return plan.Join{Left: canonicalizeComparisons(v.Left), Right: canonicalizeComparisons(v.Right), On: v.On, Kind: v.Kind}
	case plan.Sort:
		return plan.Sort{Input: canonicalizeComparisons(v.Input), Keys: v.Keys}
	default:
		return n
	}
}

func canonicalizeBinary(b expr.Binary) expr.Binary {
	if b.Kind == expr.CompareKind {
		if _, litLeft := b.Left.(expr.Lit); litLeft {
			if _, colRight := b.Right.(expr.Col); colRight {
				return expr.BinaryCompare(b.Right, b.Compare.Swap(), b.Left)
			}
		}
	}
	return b
}

func canonicalizeExpr(e expr.Expr) expr.Expr {
	switch v := e.(type) {
	case expr.Binary:
		left := canonicalizeExpr(v.Left)
		right := canonicalizeExpr(v.Right)
		b := expr.Binary{Left: left, Right: right, Kind: v.Kind, Arith: v.Arith, Compare: v.Compare}
		return canonicalizeBinary(b)
	case expr.Alias:
		return expr.Alias{Child: canonicalizeExpr(v.Child), Name: v.Name}
	case expr.Agg:
		return expr.Agg{Op: v.Op, Child: canonicalizeExpr(v.Child)}
	default:
		return e
	}
}

// foldConstants evaluates Binary(Lit,op,Lit) to a single Lit and
// collapses the `col * 1`/`col + 0` identities (§4.N rule 3).
func foldConstants(n plan.Node) plan.Node {
	switch v := n.(type) {
	case plan.Projection:
		exprs := make([]plan.NamedExpr, len(v.Exprs))
		for i, ne := range v.Exprs {
			exprs[i] = plan.NamedExpr{Expr: foldExpr(ne.Expr), Name: ne.Name}
		}
		return plan.Projection{Input: foldConstants(v.Input), Exprs: exprs}
	case plan.Filter:
		return plan.Filter{Input: foldConstants(v.Input), Predicate: v.Predicate}
	case plan.Aggregate:
		return plan.Aggregate{Input: foldConstants(v.Input), GroupColumns: v.GroupColumns, AggExprs: v.AggExprs, FastPathCount: v.FastPathCount}
	case plan.Join:
		return plan.Join{Left: foldConstants(v.Left), Right: foldConstants(v.Right), On: v.On, Kind: v.Kind}
	case plan.Sort:
		return plan.Sort{Input: foldConstants(v.Input), Keys: v.Keys}
	default:
		return n
	}
}

func foldExpr(e expr.Expr) expr.Expr {
	b, ok := e.(expr.Binary)
	if !ok {
		if a, ok := e.(expr.Alias); ok {
			return expr.Alias{Child: foldExpr(a.Child), Name: a.Name}
		}
		return e
	}
	left := foldExpr(b.Left)
	right := foldExpr(b.Right)
	if b.Kind != expr.ArithKind {
		return expr.Binary{Left: left, Right: right, Kind: b.Kind, Compare: b.Compare}
	}

	if ll, ok := left.(expr.Lit); ok {
		if rl, ok := right.(expr.Lit); ok {
			if v, ok := evalArithLit(ll.Value, b.Arith, rl.Value); ok {
				return expr.Lit{Value: v}
			}
		}
	}
	if rl, ok := right.(expr.Lit); ok {
		if isIdentity(b.Arith, rl.Value) {
			return left
		}
	}
	return expr.BinaryArith(left, b.Arith, right)
}

func isIdentity(op expr.ArithOp, v any) bool {
	switch n := v.(type) {
	case int32:
		return (op == expr.Mul && n == 1) || (op == expr.Add && n == 0) || (op == expr.Sub && n == 0)
	case float64:
		return (op == expr.Mul && n == 1) || (op == expr.Add && n == 0) || (op == expr.Sub && n == 0)
	default:
		return false
	}
}

func evalArithLit(a any, op expr.ArithOp, b any) (any, bool) {
	switch av := a.(type) {
	case int32:
		bv, ok := b.(int32)
		if !ok {
			return nil, false
		}
		switch op {
		case expr.Add:
			return av + bv, true
		case expr.Sub:
			return av - bv, true
		case expr.Mul:
			return av * bv, true
		case expr.Div:
			if bv == 0 {
				return nil, false
			}
			return av / bv, true
		}
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return nil, false
		}
		switch op {
		case expr.Add:
			return av + bv, true
		case expr.Sub:
			return av - bv, true
		case expr.Mul:
			return av * bv, true
		case expr.Div:
			return av / bv, true
		}
	}
	return nil, false
}

// pushdownPredicates rewrites Filter(Projection(child, exprs)) into
// Projection(Filter(child, pred), exprs) whenever the predicate only
// references columns that pass through the projection unmodified
// (§4.N rule 1).
func pushdownPredicates(n plan.Node) plan.Node {
	switch v := n.(type) {
	case plan.Filter:
		input := pushdownPredicates(v.Input)
		if proj, ok := input.(plan.Projection); ok && predicateSurvives(v.Predicate, proj.Exprs) {
			return plan.Projection{
				Input: plan.Filter{Input: proj.Input, Predicate: v.Predicate},
				Exprs: proj.Exprs,
			}
		}
		return plan.Filter{Input: input, Predicate: v.Predicate}
	case plan.Projection:
		return plan.Projection{Input: pushdownPredicates(v.Input), Exprs: v.Exprs}
	case plan.Aggregate:
		return plan.Aggregate{Input: pushdownPredicates(v.Input), GroupColumns: v.GroupColumns, AggExprs: v.AggExprs, FastPathCount: v.FastPathCount}
	case plan.Join:
		return plan.Join{Left: pushdownPredicates(v.Left), Right: pushdownPredicates(v.Right), On: v.On, Kind: v.Kind}
	case plan.Sort:
		return plan.Sort{Input: pushdownPredicates(v.Input), Keys: v.Keys}
	default:
		return n
	}
}

// predicateSurvives reports whether every column pred references is a
// plain pass-through Col in exprs (not renamed, not computed).
func predicateSurvives(pred expr.Binary, exprs []plan.NamedExpr) bool {
	passthrough := map[string]bool{}
	for _, ne := range exprs {
		if c, ok := ne.Expr.(expr.Col); ok && c.Name == ne.Name {
			passthrough[c.Name] = true
		}
	}
	for _, name := range expr.CollectColumns(pred) {
		if !passthrough[name] {
			return false
		}
	}
	return true
}

// pruneProjections collapses a Projection directly over another
// Projection into one node, the common case where projection pruning
// leaves behind redundant adjacent projections after other rewrites
// (§4.N rule 2). Composition takes the outer projection's expressions
// verbatim since they already name final output columns; the inner
// projection must pass every column the outer one references through
// unchanged (a plain Col under its own name).
func pruneProjections(n plan.Node) plan.Node {
	switch v := n.(type) {
	case plan.Projection:
		input := pruneProjections(v.Input)
		if inner, ok := input.(plan.Projection); ok && projectionIsSubset(v.Exprs, inner.Exprs) {
			return plan.Projection{Input: inner.Input, Exprs: v.Exprs}
		}
		return plan.Projection{Input: input, Exprs: v.Exprs}
	case plan.Filter:
		return plan.Filter{Input: pruneProjections(v.Input), Predicate: v.Predicate}
	case plan.Aggregate:
		return plan.Aggregate{Input: pruneProjections(v.Input), GroupColumns: v.GroupColumns, AggExprs: v.AggExprs, FastPathCount: v.FastPathCount}
	case plan.Join:
		return plan.Join{Left: pruneProjections(v.Left), Right: pruneProjections(v.Right), On: v.On, Kind: v.Kind}
	case plan.Sort:
		return plan.Sort{Input: pruneProjections(v.Input), Keys: v.Keys}
	default:
		return n
	}
}

func projectionIsSubset(outer, inner []plan.NamedExpr) bool {
	produced := map[string]bool{}
	for _, ne := range inner {
		if c, ok := ne.Expr.(expr.Col); ok && c.Name == ne.Name {
			produced[ne.Name] = true
		}
	}
	for _, ne := range outer {
		for _, name := range expr.CollectColumns(ne.Expr) {
			if !produced[name] {
				return false
			}
		}
	}
	return true
}

// annotateGroupCountFastPath tags a single-key Aggregate whose only
// aggregate is Count() (§4.N rule 5). The physical planner does not
// read the tag; agg.Aggregate applies the same single-key count-only
// test, plus a check that the grouping result is Native, when it
// chooses its zero-materialization kernel.
func annotateGroupCountFastPath(n plan.Node) plan.Node {
	switch v := n.(type) {
	case plan.Aggregate:
		input := annotateGroupCountFastPath(v.Input)
		fast := len(v.GroupColumns) == 1 && len(v.AggExprs) == 1 && v.AggExprs[0].Op == expr.Count
		return plan.Aggregate{Input: input, GroupColumns: v.GroupColumns, AggExprs: v.AggExprs, FastPathCount: fast}
	case plan.Filter:
		return plan.Filter{Input: annotateGroupCountFastPath(v.Input), Predicate: v.Predicate}
	case plan.Projection:
		return plan.Projection{Input: annotateGroupCountFastPath(v.Input), Exprs: v.Exprs}
	case plan.Join:
		return plan.Join{Left: annotateGroupCountFastPath(v.Left), Right: annotateGroupCountFastPath(v.Right), On: v.On, Kind: v.Kind}
	case plan.Sort:
		return plan.Sort{Input: annotateGroupCountFastPath(v.Input), Keys: v.Keys}
	default:
		return n
	}
}
