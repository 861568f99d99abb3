// Package lazy implements the engine's lazy builder API (§6 "Lazy
// API"): a plan-builder whose methods mirror the eager table API but
// return a new builder instead of executing immediately. collect()
// runs the optimizer and the physical planner; collect_stream()
// returns a row iterator over the materialized result, and
// count_stream() iterates (key, count) pairs without materializing
// per-group output.
package lazy

import (
	"coltab/config"
	"coltab/expr"
	"coltab/internal/exec"
	"coltab/internal/join"
	"coltab/internal/optimizer"
	"coltab/internal/sortkit"
	"coltab/plan"
	"coltab/table"
)

// Builder wraps an immutable plan.Node; every method returns a new
// Builder, leaving the receiver untouched.
type Builder struct {
	node plan.Node
	cfg  config.Config
}

// From starts a lazy pipeline over an already-materialized table.
func From(t *table.Table) Builder {
	return Builder{node: plan.Scan{Table: t}, cfg: config.Default()}
}

// WithConfig overrides the grouping/join tuning the pipeline executes
// with; the default is config.Default().
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// Filter keeps rows matching predicate.
func (b Builder) Filter(predicate expr.Binary) Builder {
	b.node = plan.Filter{Input: b.node, Predicate: predicate}
	return b
}

// Select projects exprs, in order, naming each by its
// expr.OutputName.
func (b Builder) Select(exprs ...expr.Expr) Builder {
	named := make([]plan.NamedExpr, len(exprs))
	for i, e := range exprs {
		named[i] = plan.NamedExpr{Expr: e, Name: expr.OutputName(e)}
	}
	b.node = plan.Projection{Input: b.node, Exprs: named}
	return b
}

// SelectAs projects exprs under explicit output names, one per expr.
func (b Builder) SelectAs(names []string, exprs []expr.Expr) Builder {
	named := make([]plan.NamedExpr, len(exprs))
	for i, e := range exprs {
		named[i] = plan.NamedExpr{Expr: e, Name: names[i]}
	}
	b.node = plan.Projection{Input: b.node, Exprs: named}
	return b
}

// GroupBy groups by keyColumns and applies aggExprs.
func (b Builder) GroupBy(keyColumns []string, aggExprs ...plan.AggExpr) Builder {
	b.node = plan.Aggregate{Input: b.node, GroupColumns: keyColumns, AggExprs: aggExprs}
	return b
}

// Join combines the receiver with other on a single equi-key column.
func (b Builder) Join(other Builder, on string, kind join.Kind) Builder {
	b.node = plan.Join{Left: b.node, Right: other.node, On: on, Kind: kind}
	return b
}

// OrderBy sorts by keys, a sequence of (column, ascending) pairs.
func (b Builder) OrderBy(keys ...sortkit.Key) Builder {
	b.node = plan.Sort{Input: b.node, Keys: keys}
	return b
}

// Collect runs the optimizer then the physical planner, returning the
// materialized result table (§6 "collect() → table runs optimizer +
// physical planner").
func (b Builder) Collect() (*table.Table, error) {
	optimized := optimizer.Optimize(b.node)
	return exec.Run(optimized, exec.Config{Grouping: b.cfg.Grouping})
}

// CollectStream runs the optimizer then returns a row iterator rather
// than a materialized table (§6 "collect_stream() → row iterator").
// Every pipeline, a single-key count aggregate included, is
// materialized once via exec.Stream and iterated row by row;
// CollectCountStream is the variant that reads the CSR directly.
func (b Builder) CollectStream() (*exec.RowIterator, error) {
	optimized := optimizer.Optimize(b.node)
	return exec.Stream(optimized, exec.Config{Grouping: b.cfg.Grouping})
}

// CollectCountStream is the dedicated zero-materialization iterator
// for a single-key count aggregate (§6 "count_stream() → iterator of
// (key, count)"). Returns an error if the pipeline does not resolve
// to an Aggregate node.
func (b Builder) CollectCountStream() (func() (exec.GroupCount, bool, error), error) {
	optimized := optimizer.Optimize(b.node)
	return exec.CountStream(optimized, exec.Config{Grouping: b.cfg.Grouping})
}
