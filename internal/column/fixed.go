package column

import (
	"math"

	"coltab/internal/bitmask"
	"coltab/internal/pool"
)

// Number is the set of Go types backing the engine's fixed-width
// numeric column layouts: i32, f64, and timestamp (nanoseconds as a
// distinct int64-backed type).
type Number interface {
	~int32 | ~float64 | ~int64
}

// FixedColumn is the shared implementation behind Int32Column,
// Float64Column and TimestampColumn (§4.C variant 1): a contiguous
// dense array plus an optional validity mask. A null slot stores the
// type's zero value (NaN for float64); the mask is the source of
// truth, never the stored value.
type FixedColumn[T Number] struct {
	name     string
	kind     Kind
	nullable bool
	values   []T
	mask     *bitmask.Mask
	pool     *pool.Pool[T]
	nullVal  T
}

func newFixed[T Number](name string, kind Kind, capacity int, nullable bool, p *pool.Pool[T], nullVal T) *FixedColumn[T] {
	c := &FixedColumn[T]{name: name, kind: kind, nullable: nullable, pool: p, nullVal: nullVal}
	if capacity > 0 {
		c.values = p.Acquire(capacity)
	}
	return c
}

func (c *FixedColumn[T]) Name() string   { return c.name }
func (c *FixedColumn[T]) Type() Kind     { return c.kind }
func (c *FixedColumn[T]) Nullable() bool { return c.nullable }
func (c *FixedColumn[T]) Len() int       { return len(c.values) }

func (c *FixedColumn[T]) IsNull(i int) bool {
	if c.mask == nil {
		return false
	}
	return c.mask.IsNull(i)
}

func (c *FixedColumn[T]) GetBoxed(i int) (any, bool) {
	if c.IsNull(i) {
		return nil, false
	}
	return c.values[i], true
}

// Get returns the raw value at i, ignoring nullability. Callers that
// care about null must check IsNull first.
func (c *FixedColumn[T]) Get(i int) T { return c.values[i] }

// GetChecked is Get with bounds checking.
func (c *FixedColumn[T]) GetChecked(i int) (T, error) {
	if i < 0 || i >= len(c.values) {
		var zero T
		return zero, errOutOfRange("FixedColumn.Get")
	}
	return c.values[i], nil
}

// Values returns a read-only contiguous view of the column's values.
// The view is invalidated by any subsequent call that can grow the
// column (Append, EnsureCapacity); callers must not retain it across
// such calls (§4.C).
func (c *FixedColumn[T]) Values() []T { return c.values }

func (c *FixedColumn[T]) ValuesI32() []int32 {
	if c.kind != KindI32 {
		panic("ValuesI32 called on non-i32 column")
	}
	return any(c.values).([]int32)
}

func (c *FixedColumn[T]) ValuesF64() []float64 {
	if c.kind != KindF64 {
		panic("ValuesF64 called on non-f64 column")
	}
	return any(c.values).([]float64)
}

func (c *FixedColumn[T]) ValuesTimestamp() []Timestamp {
	if c.kind != KindTimestamp {
		panic("ValuesTimestamp called on non-timestamp column")
	}
	return any(c.values).([]Timestamp)
}

func (c *FixedColumn[T]) ensureMask() {
	if c.mask == nil {
		c.mask = bitmask.New(len(c.values))
	}
}

// EnsureCapacity grows the backing buffer so at least n elements fit
// without reallocation, per the pool's max(2*old, requested) policy.
func (c *FixedColumn[T]) EnsureCapacity(n int) {
	if cap(c.values) >= n {
		return
	}
	newCap := pool.GrowCapacity(cap(c.values), n)
	newBuf := c.pool.Acquire(newCap)
	newBuf = newBuf[:len(c.values)]
	copy(newBuf, c.values)
	c.pool.Release(c.values)
	c.values = newBuf
}

// Append adds a non-null value.
func (c *FixedColumn[T]) Append(v T) {
	c.EnsureCapacity(len(c.values) + 1)
	c.values = append(c.values, v)
	if c.mask != nil {
		c.mask.Resize(len(c.values))
	}
}

// AppendOptional adds v if ok, else a null. Fails with NotNullable if
// !ok and the column is non-nullable.
func (c *FixedColumn[T]) AppendOptional(v T, ok bool) error {
	if !ok && !c.nullable {
		return errNotNullable("FixedColumn.AppendOptional")
	}
	c.EnsureCapacity(len(c.values) + 1)
	if ok {
		c.values = append(c.values, v)
	} else {
		c.values = append(c.values, c.nullVal)
	}
	if c.mask != nil || !ok {
		c.ensureMask()
		c.mask.Resize(len(c.values))
		if !ok {
			c.mask.SetNull(len(c.values) - 1)
		}
	}
	return nil
}

// Set overwrites the value at i, clearing any null flag.
func (c *FixedColumn[T]) Set(i int, v T) error {
	if i < 0 || i >= len(c.values) {
		return errOutOfRange("FixedColumn.Set")
	}
	c.values[i] = v
	if c.mask != nil {
		c.mask.SetNotNull(i)
	}
	return nil
}

// SetNull marks i as null, storing the type's default/NaN.
func (c *FixedColumn[T]) SetNull(i int) error {
	if !c.nullable {
		return errNotNullable("FixedColumn.SetNull")
	}
	if i < 0 || i >= len(c.values) {
		return errOutOfRange("FixedColumn.SetNull")
	}
	c.ensureMask()
	c.mask.SetNull(i)
	c.values[i] = c.nullVal
	return nil
}

// SetNotNull clears the null flag at i without changing its stored
// value.
func (c *FixedColumn[T]) SetNotNull(i int) error {
	if i < 0 || i >= len(c.values) {
		return errOutOfRange("FixedColumn.SetNotNull")
	}
	if c.mask != nil {
		c.mask.SetNotNull(i)
	}
	return nil
}

// Gather builds a new owning column by deep-copying values and mask at
// the given source indices.
func (c *FixedColumn[T]) Gather(indices []int) (Column, error) {
	out := newFixed[T](c.name, c.kind, len(indices), c.nullable, c.pool, c.nullVal)
	out.values = out.pool.Acquire(len(indices))[:len(indices)]
	for i, src := range indices {
		if src < 0 || src >= len(c.values) {
			return nil, errOutOfRange("FixedColumn.Gather")
		}
		out.values[i] = c.values[src]
	}
	if c.mask != nil {
		out.mask = c.mask.Gather(indices)
	}
	return out, nil
}

// Dispose returns the backing buffer to the pool.
func (c *FixedColumn[T]) Dispose() {
	if c.values != nil {
		c.pool.Release(c.values)
		c.values = nil
	}
}

// Mask exposes the validity mask directly (nil means "all present"),
// used by arithmetic kernels to combine operand masks (§4.C).
func (c *FixedColumn[T]) Mask() *bitmask.Mask { return c.mask }

// SetMask installs a freshly computed mask, used by arithmetic and
// comparison kernels building a result column.
func (c *FixedColumn[T]) SetMask(m *bitmask.Mask) { c.mask = m }

// --- concrete aliases -------------------------------------------------

// Int32Column is a non-nullable-or-nullable i32 column.
type Int32Column = FixedColumn[int32]

// Float64Column is a non-nullable-or-nullable f64 column.
type Float64Column = FixedColumn[float64]

// TimestampColumn is a non-nullable-or-nullable timestamp column.
type TimestampColumn = FixedColumn[Timestamp]

// NewInt32Column builds an owning i32 column.
func NewInt32Column(name string, capacity int, nullable bool) *Int32Column {
	return newFixed[int32](name, KindI32, capacity, nullable, pool.I32, 0)
}

// NewFloat64Column builds an owning f64 column; null slots store NaN
// per §4.C.
func NewFloat64Column(name string, capacity int, nullable bool) *Float64Column {
	return newFixed[float64](name, KindF64, capacity, nullable, pool.F64, math.NaN())
}

var tsPool = pool.New[Timestamp](16)

// NewTimestampColumn builds an owning timestamp column.
func NewTimestampColumn(name string, capacity int, nullable bool) *TimestampColumn {
	return newFixed[Timestamp](name, KindTimestamp, capacity, nullable, tsPool, 0)
}

// NewInt32ColumnFromSlice takes ownership of vals (the kernels that
// call it allocate vals with make, not from the pool) and wraps it as
// a column, used by arithmetic/comparison kernels materializing a result.
func NewInt32ColumnFromSlice(name string, vals []int32, mask *bitmask.Mask) *Int32Column {
	return &Int32Column{name: name, kind: KindI32, nullable: mask != nil, values: vals, mask: mask, pool: pool.I32}
}

// NewFloat64ColumnFromSlice is NewInt32ColumnFromSlice for f64.
func NewFloat64ColumnFromSlice(name string, vals []float64, mask *bitmask.Mask) *Float64Column {
	return &Float64Column{name: name, kind: KindF64, nullable: mask != nil, values: vals, mask: mask, pool: pool.F64, nullVal: math.NaN()}
}
