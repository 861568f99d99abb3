package column

// CategoricalColumn is the dictionary-encoded layout (§4.C variant 5):
// an i32 code column plus an ordered dictionary of distinct string
// values. Code 0 denotes null; codes 1.. index dict[code-1]. Random
// overwrite is unsupported for the same reason as VarcharColumn: the
// dictionary and code stream are append-only by design (§9 canonicalizes
// code 0 as the null bucket, never a normal group).
type CategoricalColumn struct {
	name      string
	nullable  bool
	codes     []int32
	dict      []string
	dictIndex map[string]int32
}

// NewCategoricalColumn builds an owning categorical column with an
// empty dictionary.
func NewCategoricalColumn(name string, capacity int, nullable bool) *CategoricalColumn {
	return &CategoricalColumn{
		name:      name,
		nullable:  nullable,
		codes:     make([]int32, 0, capacity),
		dictIndex: make(map[string]int32),
	}
}

func (c *CategoricalColumn) Name() string   { return c.name }
func (c *CategoricalColumn) Type() Kind     { return KindCategorical }
func (c *CategoricalColumn) Nullable() bool { return c.nullable }
func (c *CategoricalColumn) Len() int       { return len(c.codes) }

// IsNull reports whether the code at i is the null sentinel (0).
func (c *CategoricalColumn) IsNull(i int) bool { return c.codes[i] == 0 }

// Code returns the raw dictionary code at i (0 = null).
func (c *CategoricalColumn) Code(i int) int32 { return c.codes[i] }

// Dict returns the ordered dictionary; dict[code-1] is the string for
// a non-zero code.
func (c *CategoricalColumn) Dict() []string { return c.dict }

// Get resolves the code at i back to its dictionary string. Calling on
// a null slot returns "".
func (c *CategoricalColumn) Get(i int) string {
	code := c.codes[i]
	if code == 0 {
		return ""
	}
	return c.dict[code-1]
}

func (c *CategoricalColumn) GetBoxed(i int) (any, bool) {
	if c.IsNull(i) {
		return nil, false
	}
	return c.Get(i), true
}

// codeFor looks up v's code, appending a fresh dictionary entry if v
// has not been seen before.
func (c *CategoricalColumn) codeFor(v string) int32 {
	if code, ok := c.dictIndex[v]; ok {
		return code
	}
	c.dict = append(c.dict, v)
	code := int32(len(c.dict))
	c.dictIndex[v] = code
	return code
}

// Append adds a non-null value, reusing an existing code or minting a
// fresh one.
func (c *CategoricalColumn) Append(v string) {
	c.codes = append(c.codes, c.codeFor(v))
}

// AppendOptional appends v if ok, else the null code (0).
func (c *CategoricalColumn) AppendOptional(v string, ok bool) error {
	if !ok && !c.nullable {
		return errNotNullable("CategoricalColumn.AppendOptional")
	}
	if !ok {
		c.codes = append(c.codes, 0)
		return nil
	}
	c.Append(v)
	return nil
}

// AppendCode appends a raw code directly, used by the grouping engine's
// dictionary-aware path to build result columns without re-resolving
// strings.
func (c *CategoricalColumn) AppendCode(code int32) {
	c.codes = append(c.codes, code)
}

// Set is unsupported: overwriting a code in place is fine, but the
// column's append-only contract (mirroring VarcharColumn) keeps random
// writes out of the supported surface; use Gather to rebuild.
func (c *CategoricalColumn) Set(i int, v string) error {
	return errNotSupported("CategoricalColumn.Set")
}

// SetNull marks i as null (code 0). Disallowed for non-nullable
// columns.
func (c *CategoricalColumn) SetNull(i int) error {
	if !c.nullable {
		return errNotNullable("CategoricalColumn.SetNull")
	}
	if i < 0 || i >= len(c.codes) {
		return errOutOfRange("CategoricalColumn.SetNull")
	}
	c.codes[i] = 0
	return nil
}

// Gather builds a new owning column by re-appending the string values
// at the given source indices. Its dictionary is rebuilt in the order
// the gathered rows first present each value, so its codes need not
// match the source's.
func (c *CategoricalColumn) Gather(indices []int) (Column, error) {
	out := NewCategoricalColumn(c.name, len(indices), c.nullable)
	for _, src := range indices {
		if src < 0 || src >= len(c.codes) {
			return nil, errOutOfRange("CategoricalColumn.Gather")
		}
		if c.IsNull(src) {
			out.codes = append(out.codes, 0)
			continue
		}
		out.Append(c.Get(src))
	}
	return out, nil
}

// Dispose is a no-op: categorical columns hold no pooled buffer.
func (c *CategoricalColumn) Dispose() {}
