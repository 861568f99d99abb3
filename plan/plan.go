// Package plan defines the engine's logical plan (§4.M): an immutable
// tree of algebraic nodes built over the shared expression algebra in
// package expr. The optimizer (internal/optimizer) rewrites these
// trees; the physical planner (internal/exec) lowers them to kernel
// calls.
package plan

import (
	"coltab/expr"
	"coltab/internal/join"
	"coltab/internal/sortkit"
	"coltab/table"
)

// Node is the closed logical-plan sum type: Scan, Filter, Projection,
// Aggregate, Join, Sort.
type Node interface {
	planNode()
}

// Scan is a leaf node wrapping a materialized source table.
type Scan struct {
	Table *table.Table
}

func (Scan) planNode() {}

// Filter keeps rows of Input matching Predicate, a comparison Binary
// expression. The physical planner recognizes the Col-op-Lit(scalar)
// shape directly (§4.G); anything richer falls through to a
// row-cursor scan (§4.O).
type Filter struct {
	Input     Node
	Predicate expr.Binary
}

func (Filter) planNode() {}

// Projection evaluates each of Exprs against Input and emits a new
// table with those columns, in order.
type Projection struct {
	Input Node
	Exprs []NamedExpr
}

func (Projection) planNode() {}

// Aggregate groups Input by GroupColumns and applies AggExprs.
// FastPathCount is an optimizer annotation (§4.N rule 5): true when
// this is a single-key, count-only aggregate eligible for the
// zero-materialization kernel.
type Aggregate struct {
	Input         Node
	GroupColumns  []string
	AggExprs      []AggExpr
	FastPathCount bool
}

func (Aggregate) planNode() {}

// AggExpr names one aggregate call's source column, operator, and
// result column name.
type AggExpr struct {
	Op     expr.AggOp
	Source string
	Target string
}

// Join combines Left and Right on a single equi-key column.
type Join struct {
	Left, Right Node
	On          string
	Kind        join.Kind
}

func (Join) planNode() {}

// Sort orders Input by Keys, a sequence of (column, ascending) pairs.
type Sort struct {
	Input Node
	Keys  []sortkit.Key
}

func (Sort) planNode() {}

// NamedExpr is a projected expression with its output column name
// already resolved (the optimizer/physical planner don't need to
// recompute expr.OutputName repeatedly).
type NamedExpr struct {
	Expr expr.Expr
	Name string
}
