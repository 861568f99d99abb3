package exec

import (
	"coltab/internal/grouping"
	"coltab/kerr"
	"coltab/plan"
	"coltab/table"
)

// GroupCount pairs one group's key with its row count, the element
// type of the streaming aggregation iterator (§4.M/O "A streaming mode
// exposes results as a lazy row iterator for aggregations by walking
// the grouped-table CSR in order without materializing per-group
// output columns").
type GroupCount struct {
	Key   []any
	Count int
}

// CountStream runs n — which must be an Aggregate node — and returns a
// function that yields one GroupCount per call, walking gr.Offsets
// directly instead of building an output table. The returned function
// returns ok=false once every group (including any trailing null-key
// group) has been yielded.
func CountStream(n plan.Node, cfg Config) (func() (GroupCount, bool, error), error) {
	a, err := requireAggregate(n)
	if err != nil {
		return nil, err
	}
	input, err := Run(a.Input, cfg)
	if err != nil {
		return nil, err
	}
	gr, err := grouping.Group(input, a.GroupColumns, cfg.Grouping)
	if err != nil {
		return nil, err
	}
	return NewGroupCountIterator(gr), nil
}

// NewGroupCountIterator builds a GroupCount iterator directly from an
// already-computed grouping.Result, letting callers that already hold
// a Result (e.g. frame.GroupedTable) stream without rebuilding it.
func NewGroupCountIterator(gr *grouping.Result) func() (GroupCount, bool, error) {
	g := 0
	nullYielded := false
	return func() (GroupCount, bool, error) {
		if g < gr.GroupCount() {
			gc := GroupCount{Key: gr.Keys[g], Count: gr.Offsets[g+1] - gr.Offsets[g]}
			g++
			return gc, true, nil
		}
		if len(gr.NullGroupIndices) > 0 && !nullYielded {
			nullYielded = true
			return GroupCount{Key: nil, Count: len(gr.NullGroupIndices)}, true, nil
		}
		return GroupCount{}, false, nil
	}
}

// RowIterator walks a materialized table one row at a time, the
// primitive collect_stream() builds on for every plan.
type RowIterator struct {
	t   *table.Table
	pos int
}

// Stream materializes n eagerly (§9: true out-of-core streaming is a
// declared non-goal) and returns a RowIterator over the result. It
// does this for every plan, fast-path count aggregates included; the
// non-materializing iterator for those is CountStream.
func Stream(n plan.Node, cfg Config) (*RowIterator, error) {
	t, err := Run(n, cfg)
	if err != nil {
		return nil, err
	}
	return &RowIterator{t: t}, nil
}

// Next returns the next row cursor, or ok=false past the last row.
func (it *RowIterator) Next() (*table.Row, bool, error) {
	if it.pos >= it.t.RowCount() {
		return nil, false, nil
	}
	row, err := it.t.Row(it.pos)
	if err != nil {
		return nil, false, err
	}
	it.pos++
	return row, true, nil
}

func requireAggregate(n plan.Node) (plan.Aggregate, error) {
	a, ok := n.(plan.Aggregate)
	if !ok {
		return plan.Aggregate{}, kerr.New(kerr.NotSupported, "exec.requireAggregate", "count_stream requires an Aggregate plan node")
	}
	return a, nil
}
