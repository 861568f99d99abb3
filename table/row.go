package table

import (
	"coltab/internal/column"
	"coltab/kerr"
)

// Row is a stack-only, non-owning view of one row across a table's
// columns (§4.F). It holds no storage of its own beyond a row index
// and a reference to its source table.
type Row struct {
	table *Table
	index int
}

// ColumnCount returns the number of columns visible to this row.
func (r *Row) ColumnCount() int { return r.table.ColumnCount() }

// IsNull reports whether the column at index i is null for this row.
func (r *Row) IsNull(colIdx int) (bool, error) {
	c, err := r.table.ColumnAt(colIdx)
	if err != nil {
		return false, err
	}
	return c.IsNull(r.index), nil
}

// IsNullByName is IsNull resolved by column name.
func (r *Row) IsNullByName(name string) (bool, error) {
	c, err := r.table.Column(name)
	if err != nil {
		return false, err
	}
	return c.IsNull(r.index), nil
}

// GetBoxed returns the untyped value at colIdx, or (nil, false) if
// null.
func (r *Row) GetBoxed(colIdx int) (any, bool, error) {
	c, err := r.table.ColumnAt(colIdx)
	if err != nil {
		return nil, false, err
	}
	v, ok := c.GetBoxed(r.index)
	return v, ok, nil
}

// GetI32 returns the i32 value at colIdx. Fails with KindMismatch if
// the column is not i32.
func (r *Row) GetI32(colIdx int) (int32, error) {
	c, err := r.table.ColumnAt(colIdx)
	if err != nil {
		return 0, err
	}
	fc, ok := c.(*column.Int32Column)
	if !ok {
		return 0, kerr.New(kerr.KindMismatch, "Row.GetI32", "column is not i32")
	}
	return fc.Get(r.index), nil
}

// GetF64 is GetI32 for f64 columns.
func (r *Row) GetF64(colIdx int) (float64, error) {
	c, err := r.table.ColumnAt(colIdx)
	if err != nil {
		return 0, err
	}
	fc, ok := c.(*column.Float64Column)
	if !ok {
		return 0, kerr.New(kerr.KindMismatch, "Row.GetF64", "column is not f64")
	}
	return fc.Get(r.index), nil
}

// GetBool is GetI32 for bool columns.
func (r *Row) GetBool(colIdx int) (bool, error) {
	c, err := r.table.ColumnAt(colIdx)
	if err != nil {
		return false, err
	}
	bc, ok := c.(*column.BoolColumn)
	if !ok {
		return false, kerr.New(kerr.KindMismatch, "Row.GetBool", "column is not bool")
	}
	return bc.Get(r.index), nil
}

// GetString resolves the string value at colIdx for varchar, string,
// or categorical columns.
func (r *Row) GetString(colIdx int) (string, error) {
	c, err := r.table.ColumnAt(colIdx)
	if err != nil {
		return "", err
	}
	switch cc := c.(type) {
	case *column.VarcharColumn:
		return cc.Get(r.index), nil
	case *column.StringColumn:
		return cc.Get(r.index), nil
	case *column.CategoricalColumn:
		return cc.Get(r.index), nil
	default:
		return "", kerr.New(kerr.KindMismatch, "Row.GetString", "column is not string-like")
	}
}

// GetTimestamp is GetI32 for timestamp columns.
func (r *Row) GetTimestamp(colIdx int) (column.Timestamp, error) {
	c, err := r.table.ColumnAt(colIdx)
	if err != nil {
		return 0, err
	}
	tc, ok := c.(*column.TimestampColumn)
	if !ok {
		return 0, kerr.New(kerr.KindMismatch, "Row.GetTimestamp", "column is not a timestamp")
	}
	return tc.Get(r.index), nil
}

// byName resolves a column name to its index via the table's schema.
func (r *Row) byName(name string) (int, error) {
	i, ok := r.table.Schema().IndexOf(name)
	if !ok {
		return 0, kerr.New(kerr.MissingColumn, "Row", "no column named "+name)
	}
	return i, nil
}

// GetI32ByName is GetI32 resolved by column name.
func (r *Row) GetI32ByName(name string) (int32, error) {
	i, err := r.byName(name)
	if err != nil {
		return 0, err
	}
	return r.GetI32(i)
}

// GetF64ByName is GetF64 resolved by column name.
func (r *Row) GetF64ByName(name string) (float64, error) {
	i, err := r.byName(name)
	if err != nil {
		return 0, err
	}
	return r.GetF64(i)
}

// GetStringByName is GetString resolved by column name.
func (r *Row) GetStringByName(name string) (string, error) {
	i, err := r.byName(name)
	if err != nil {
		return "", err
	}
	return r.GetString(i)
}
