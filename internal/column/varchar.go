package column

import (
	"coltab/internal/bitmask"
	"coltab/internal/pool"
)

// VarcharColumn is the variable-length UTF-8 layout (§4.C variant 4): a
// contiguous byte buffer plus an (N+1) offset array, value i spanning
// [offsets[i], offsets[i+1]). Append grows the byte buffer and writes a
// new offset; random-access Set is unsupported because it would
// require shifting every later offset and the byte payload.
type VarcharColumn struct {
	name     string
	nullable bool
	data     []byte
	offsets  []int32
	mask     *bitmask.Mask
}

// NewVarcharColumn builds an owning variable-length UTF-8 column.
func NewVarcharColumn(name string, capacity int, nullable bool) *VarcharColumn {
	c := &VarcharColumn{name: name, nullable: nullable}
	c.offsets = make([]int32, 1, capacity+1)
	c.offsets[0] = 0
	if capacity > 0 {
		c.data = pool.Bytes.Acquire(capacity * 8)
	}
	return c
}

func (c *VarcharColumn) Name() string   { return c.name }
func (c *VarcharColumn) Type() Kind     { return KindString }
func (c *VarcharColumn) Nullable() bool { return c.nullable }
func (c *VarcharColumn) Len() int       { return len(c.offsets) - 1 }

func (c *VarcharColumn) IsNull(i int) bool {
	if c.mask == nil {
		return false
	}
	return c.mask.IsNull(i)
}

// Get returns the raw value at i, ignoring nullability.
func (c *VarcharColumn) Get(i int) string {
	return string(c.data[c.offsets[i]:c.offsets[i+1]])
}

func (c *VarcharColumn) GetBoxed(i int) (any, bool) {
	if c.IsNull(i) {
		return nil, false
	}
	return c.Get(i), true
}

func (c *VarcharColumn) ensureDataCapacity(n int) {
	if cap(c.data) >= n {
		return
	}
	newCap := pool.GrowCapacity(cap(c.data), n)
	newBuf := pool.Bytes.Acquire(newCap)
	newBuf = newBuf[:len(c.data)]
	copy(newBuf, c.data)
	pool.Bytes.Release(c.data)
	c.data = newBuf
}

// Append computes the UTF-8 byte length of v, grows the byte buffer,
// encodes v in place, then writes the new offset.
func (c *VarcharColumn) Append(v string) {
	c.ensureDataCapacity(len(c.data) + len(v))
	c.data = append(c.data, v...)
	c.offsets = append(c.offsets, int32(len(c.data)))
	if c.mask != nil {
		c.mask.Resize(c.Len())
	}
}

// AppendOptional appends v if ok, else an empty-string null.
func (c *VarcharColumn) AppendOptional(v string, ok bool) error {
	if !ok && !c.nullable {
		return errNotNullable("VarcharColumn.AppendOptional")
	}
	if ok {
		c.Append(v)
	} else {
		c.Append("")
	}
	if !ok {
		if c.mask == nil {
			c.mask = bitmask.New(c.Len())
		}
		c.mask.SetNull(c.Len() - 1)
	}
	return nil
}

// Set is unsupported: overwriting a variable-length slot in place
// would require shifting the byte buffer and every later offset.
// Callers must rebuild the column.
func (c *VarcharColumn) Set(i int, v string) error {
	return errNotSupported("VarcharColumn.Set")
}

// SetNull marks i as null without touching its stored bytes.
func (c *VarcharColumn) SetNull(i int) error {
	if !c.nullable {
		return errNotNullable("VarcharColumn.SetNull")
	}
	if i < 0 || i >= c.Len() {
		return errOutOfRange("VarcharColumn.SetNull")
	}
	if c.mask == nil {
		c.mask = bitmask.New(c.Len())
	}
	c.mask.SetNull(i)
	return nil
}

// Gather builds a new owning column by re-encoding values at the given
// source indices; this is the one way to compact after deletions,
// since Set on a slot is unsupported.
func (c *VarcharColumn) Gather(indices []int) (Column, error) {
	out := NewVarcharColumn(c.name, len(indices), c.nullable)
	for _, src := range indices {
		if src < 0 || src >= c.Len() {
			return nil, errOutOfRange("VarcharColumn.Gather")
		}
		if c.IsNull(src) {
			_ = out.AppendOptional("", false)
		} else {
			out.Append(c.Get(src))
		}
	}
	return out, nil
}

// Dispose returns the backing byte buffer to the pool.
func (c *VarcharColumn) Dispose() {
	if c.data != nil {
		pool.Bytes.Release(c.data)
		c.data = nil
	}
}
