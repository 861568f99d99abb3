// Package column implements the engine's typed, append-growable column
// layouts (§4.C) and the zero-copy window/gather views over them
// (§4.D). Columns are a closed set of concrete types dispatched through
// the Column interface and small capability interfaces (Valuer32,
// Aggregatable, ...) rather than through runtime type branching in
// callers.
package column

import "coltab/kerr"

// Kind tags a column's logical type, the closed sum type called for in
// the engine's design notes (§9 "Dynamic dispatch by cell type").
type Kind int

const (
	KindI32 Kind = iota
	KindF64
	KindBool
	KindString
	KindTimestamp
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindI32:
		return "i32"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is the read-only contract every column layout and view
// satisfies. Typed accessors live on the concrete type or on small
// capability interfaces below; Column itself only carries what every
// variant, including gather views, can answer in O(1).
type Column interface {
	Name() string
	Type() Kind
	Nullable() bool
	Len() int
	IsNull(i int) bool
	// GetBoxed returns the value at i and true, or (nil, false) if the
	// slot is null.
	GetBoxed(i int) (any, bool)
	// Gather builds a new OWNING column by deep-copying values (and
	// mask) at the given source indices.
	Gather(indices []int) (Column, error)
	// Dispose releases any pooled storage this column owns. A no-op
	// for views, which never own their source.
	Dispose()
}

// Valuer32 exposes a contiguous read-only view of an i32 column's
// values. Every FixedColumn and every WindowView carries all three
// Valuer methods whatever its kind, and a call panics unless Type()
// matches, so callers check Type() before using one. Gather views
// implement none of them (§4.D).
type Valuer32 interface {
	ValuesI32() []int32
}

// Valuer64 is Valuer32 for f64 columns.
type Valuer64 interface {
	ValuesF64() []float64
}

// ValuerTimestamp is Valuer32 for timestamp columns.
type ValuerTimestamp interface {
	ValuesTimestamp() []Timestamp
}

// Timestamp is nanoseconds since the Unix epoch.
type Timestamp int64

// Aggregatable is implemented by column variants the grouping/aggregate
// kernels (§4.J) can reduce directly. indices[start:end] is the CSR
// slice for one group. The returned bool is true iff the group's
// aggregate value is present (false = null result, e.g. an empty or
// all-null group). An error of kind NotSupported means the operation
// is not defined for this column's type.
type Aggregatable interface {
	Column
	ComputeSum(indices []int, start, end int) (any, bool, error)
	ComputeMean(indices []int, start, end int) (any, bool, error)
	ComputeMin(indices []int, start, end int) (any, bool, error)
	ComputeMax(indices []int, start, end int) (any, bool, error)
}

func errNotSupported(op string) error {
	return kerr.New(kerr.NotSupported, op, "operation not supported for this column layout")
}

func errOutOfRange(op string) error {
	return kerr.New(kerr.OutOfRange, op, "index out of bounds")
}

func errNotNullable(op string) error {
	return kerr.New(kerr.NotNullable, op, "null value not allowed in non-nullable column")
}
