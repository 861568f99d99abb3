package column

import "coltab/internal/bitmask"

// StringColumn is the owned-pointer string layout (§4.C variant 3): an
// array of string handles plus an optional validity mask. An optional
// intern table deduplicates identical handles so repeated values share
// one backing string header instead of each append allocating a fresh
// one.
type StringColumn struct {
	name     string
	nullable bool
	values   []string
	mask     *bitmask.Mask
	intern   map[string]string
}

// NewStringColumn builds an owning string column. interning controls
// whether identical values are deduplicated through an intern table.
func NewStringColumn(name string, capacity int, nullable bool, interning bool) *StringColumn {
	c := &StringColumn{name: name, nullable: nullable}
	if capacity > 0 {
		c.values = make([]string, 0, capacity)
	}
	if interning {
		c.intern = make(map[string]string)
	}
	return c
}

func (c *StringColumn) Name() string   { return c.name }
func (c *StringColumn) Type() Kind     { return KindString }
func (c *StringColumn) Nullable() bool { return c.nullable }
func (c *StringColumn) Len() int       { return len(c.values) }

func (c *StringColumn) IsNull(i int) bool {
	if c.mask == nil {
		return false
	}
	return c.mask.IsNull(i)
}

func (c *StringColumn) GetBoxed(i int) (any, bool) {
	if c.IsNull(i) {
		return nil, false
	}
	return c.values[i], true
}

// Get returns the raw value at i, ignoring nullability.
func (c *StringColumn) Get(i int) string { return c.values[i] }

func (c *StringColumn) dedup(v string) string {
	if c.intern == nil {
		return v
	}
	if existing, ok := c.intern[v]; ok {
		return existing
	}
	c.intern[v] = v
	return v
}

// Append adds a non-null value.
func (c *StringColumn) Append(v string) {
	c.values = append(c.values, c.dedup(v))
	if c.mask != nil {
		c.mask.Resize(len(c.values))
	}
}

// AppendOptional adds v if ok, else a null.
func (c *StringColumn) AppendOptional(v string, ok bool) error {
	if !ok && !c.nullable {
		return errNotNullable("StringColumn.AppendOptional")
	}
	if ok {
		c.values = append(c.values, c.dedup(v))
	} else {
		c.values = append(c.values, "")
	}
	if c.mask != nil || !ok {
		if c.mask == nil {
			c.mask = bitmask.New(len(c.values))
		}
		c.mask.Resize(len(c.values))
		if !ok {
			c.mask.SetNull(len(c.values) - 1)
		}
	}
	return nil
}

// Set overwrites the value at i, clearing any null flag.
func (c *StringColumn) Set(i int, v string) error {
	if i < 0 || i >= len(c.values) {
		return errOutOfRange("StringColumn.Set")
	}
	c.values[i] = c.dedup(v)
	if c.mask != nil {
		c.mask.SetNotNull(i)
	}
	return nil
}

// SetNull marks i as null.
func (c *StringColumn) SetNull(i int) error {
	if !c.nullable {
		return errNotNullable("StringColumn.SetNull")
	}
	if i < 0 || i >= len(c.values) {
		return errOutOfRange("StringColumn.SetNull")
	}
	if c.mask == nil {
		c.mask = bitmask.New(len(c.values))
	}
	c.mask.SetNull(i)
	c.values[i] = ""
	return nil
}

// Gather builds a new owning column by copying values and mask at the
// given source indices.
func (c *StringColumn) Gather(indices []int) (Column, error) {
	out := NewStringColumn(c.name, len(indices), c.nullable, c.intern != nil)
	for _, src := range indices {
		if src < 0 || src >= len(c.values) {
			return nil, errOutOfRange("StringColumn.Gather")
		}
		out.values = append(out.values, c.values[src])
	}
	if c.mask != nil {
		out.mask = c.mask.Gather(indices)
	}
	return out, nil
}

// Dispose is a no-op: string columns hold no pooled buffer.
func (c *StringColumn) Dispose() {}
