package column

import (
	"coltab/internal/bitmask"
	"coltab/internal/pool"
)

// BoolColumn is the bit-packed boolean layout (§4.C variant 2): one bit
// per value plus an optional validity mask. There is no contiguous
// []bool view — AnyTrue/AllTrue are the only bulk operations, with a
// byte-scan fast path when the column is non-nullable.
type BoolColumn struct {
	name     string
	nullable bool
	bits     []byte
	length   int
	mask     *bitmask.Mask
}

// NewBoolColumn builds an owning bool column.
func NewBoolColumn(name string, capacity int, nullable bool) *BoolColumn {
	c := &BoolColumn{name: name, nullable: nullable}
	if capacity > 0 {
		c.bits = pool.Bytes.Acquire((capacity + 7) / 8)
	}
	return c
}

func (c *BoolColumn) Name() string   { return c.name }
func (c *BoolColumn) Type() Kind     { return KindBool }
func (c *BoolColumn) Nullable() bool { return c.nullable }
func (c *BoolColumn) Len() int       { return c.length }

func (c *BoolColumn) IsNull(i int) bool {
	if c.mask == nil {
		return false
	}
	return c.mask.IsNull(i)
}

func (c *BoolColumn) bitAt(i int) bool {
	return c.bits[i>>3]&(1<<uint(i&7)) != 0
}

func (c *BoolColumn) setBit(i int, v bool) {
	if v {
		c.bits[i>>3] |= 1 << uint(i&7)
	} else {
		c.bits[i>>3] &^= 1 << uint(i&7)
	}
}

func (c *BoolColumn) GetBoxed(i int) (any, bool) {
	if c.IsNull(i) {
		return nil, false
	}
	return c.bitAt(i), true
}

// Get returns the raw bit at i, ignoring nullability.
func (c *BoolColumn) Get(i int) bool { return c.bitAt(i) }

func (c *BoolColumn) ensureByteCapacity(nBytes int) {
	if cap(c.bits) >= nBytes {
		return
	}
	newCap := pool.GrowCapacity(cap(c.bits), nBytes)
	newBuf := pool.Bytes.Acquire(newCap)
	newBuf = newBuf[:len(c.bits)]
	copy(newBuf, c.bits)
	pool.Bytes.Release(c.bits)
	c.bits = newBuf
}

func (c *BoolColumn) growForIndex(i int) {
	need := i/8 + 1
	c.ensureByteCapacity(need)
	for len(c.bits) < need {
		c.bits = append(c.bits, 0)
	}
}

// Append adds a non-null boolean value.
func (c *BoolColumn) Append(v bool) {
	c.growForIndex(c.length)
	c.setBit(c.length, v)
	c.length++
	if c.mask != nil {
		c.mask.Resize(c.length)
	}
}

// AppendOptional adds v if ok, else a null.
func (c *BoolColumn) AppendOptional(v bool, ok bool) error {
	if !ok && !c.nullable {
		return errNotNullable("BoolColumn.AppendOptional")
	}
	c.growForIndex(c.length)
	c.setBit(c.length, ok && v)
	c.length++
	if c.mask != nil || !ok {
		if c.mask == nil {
			c.mask = bitmask.New(c.length)
		}
		c.mask.Resize(c.length)
		if !ok {
			c.mask.SetNull(c.length - 1)
		}
	}
	return nil
}

// Set overwrites the value at i, clearing any null flag.
func (c *BoolColumn) Set(i int, v bool) error {
	if i < 0 || i >= c.length {
		return errOutOfRange("BoolColumn.Set")
	}
	c.setBit(i, v)
	if c.mask != nil {
		c.mask.SetNotNull(i)
	}
	return nil
}

// SetNull marks i as null.
func (c *BoolColumn) SetNull(i int) error {
	if !c.nullable {
		return errNotNullable("BoolColumn.SetNull")
	}
	if i < 0 || i >= c.length {
		return errOutOfRange("BoolColumn.SetNull")
	}
	if c.mask == nil {
		c.mask = bitmask.New(c.length)
	}
	c.mask.SetNull(i)
	c.setBit(i, false)
	return nil
}

// AnyTrue reports whether any non-null value is true. Non-nullable
// columns take a byte-scan fast path (byte != 0).
func (c *BoolColumn) AnyTrue() bool {
	if c.mask == nil {
		fullBytes := c.length / 8
		for _, b := range c.bits[:fullBytes] {
			if b != 0 {
				return true
			}
		}
		for i := fullBytes * 8; i < c.length; i++ {
			if c.bitAt(i) {
				return true
			}
		}
		return false
	}
	for i := 0; i < c.length; i++ {
		if !c.mask.IsNull(i) && c.bitAt(i) {
			return true
		}
	}
	return false
}

// AllTrue reports whether every non-null value is true (vacuously true
// for an empty or all-null column). Non-nullable columns take a
// byte-scan fast path (byte == 0xFF for full bytes).
func (c *BoolColumn) AllTrue() bool {
	if c.mask == nil {
		fullBytes := c.length / 8
		for _, b := range c.bits[:fullBytes] {
			if b != 0xFF {
				return false
			}
		}
		for i := fullBytes * 8; i < c.length; i++ {
			if !c.bitAt(i) {
				return false
			}
		}
		return true
	}
	for i := 0; i < c.length; i++ {
		if !c.mask.IsNull(i) && !c.bitAt(i) {
			return false
		}
	}
	return true
}

// Gather builds a new owning column by copying bits and mask at the
// given source indices.
func (c *BoolColumn) Gather(indices []int) (Column, error) {
	out := NewBoolColumn(c.name, len(indices), c.nullable)
	for i, src := range indices {
		if src < 0 || src >= c.length {
			return nil, errOutOfRange("BoolColumn.Gather")
		}
		out.growForIndex(i)
		out.setBit(i, c.bitAt(src))
	}
	out.length = len(indices)
	if c.mask != nil {
		out.mask = c.mask.Gather(indices)
	}
	return out, nil
}

// Dispose returns the backing byte buffer to the pool.
func (c *BoolColumn) Dispose() {
	if c.bits != nil {
		pool.Bytes.Release(c.bits)
		c.bits = nil
	}
}
