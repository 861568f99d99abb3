// Package table implements the engine's Table (§4.E): an ordered,
// name-indexed collection of equal-length columns, plus the row
// cursor (§4.F) that addresses one row across every column.
package table

import (
	"coltab/internal/column"
	"coltab/kerr"
	"coltab/schema"
)

// Table owns an ordered set of columns of identical length and the
// schema describing them.
type Table struct {
	columns []column.Column
	schema  *schema.Schema
}

// New builds a Table from columns, deriving the schema from the
// columns themselves. Fails with ShapeMismatch on the first length
// mismatch, DuplicateName on a repeated column name.
func New(columns []column.Column) (*Table, error) {
	if len(columns) == 0 {
		fields := []schema.Field{}
		sch, _ := schema.New(fields)
		return &Table{schema: sch}, nil
	}
	n := columns[0].Len()
	fields := make([]schema.Field, len(columns))
	for i, c := range columns {
		if c.Len() != n {
			return nil, kerr.New(kerr.ShapeMismatch, "table.New", "column "+c.Name()+" has a different length than column "+columns[0].Name())
		}
		fields[i] = schema.Field{Name: c.Name(), Type: schema.NameOf(c.Type()), Nullable: c.Nullable()}
	}
	sch, err := schema.New(fields)
	if err != nil {
		return nil, err
	}
	return &Table{columns: columns, schema: sch}, nil
}

// Create builds an empty table with fresh typed columns for every
// field in sch, pre-sized to capacity (§4.E create_empty).
func Create(sch *schema.Schema, capacity int) (*Table, error) {
	columns := make([]column.Column, sch.Len())
	for i, f := range sch.Fields() {
		c, err := NewColumn(f, capacity)
		if err != nil {
			return nil, err
		}
		columns[i] = c
	}
	return &Table{columns: columns, schema: sch}, nil
}

// RowCount returns the number of rows (the length of every column).
func (t *Table) RowCount() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.columns) }

// Schema returns the table's schema.
func (t *Table) Schema() *schema.Schema { return t.schema }

// Columns returns the ordered column slice. Callers must not mutate
// the slice or the columns' schema-visible shape.
func (t *Table) Columns() []column.Column { return t.columns }

// Column returns the column named name.
func (t *Table) Column(name string) (column.Column, error) {
	i, ok := t.schema.IndexOf(name)
	if !ok {
		return nil, kerr.New(kerr.MissingColumn, "table.Column", "no column named "+name)
	}
	return t.columns[i], nil
}

// ColumnAt returns the column at position i.
func (t *Table) ColumnAt(i int) (column.Column, error) {
	if i < 0 || i >= len(t.columns) {
		return nil, kerr.New(kerr.OutOfRange, "table.ColumnAt", "column index out of bounds")
	}
	return t.columns[i], nil
}

// HasColumn reports whether name is a column of this table.
func (t *Table) HasColumn(name string) bool { return t.schema.Has(name) }

// Row builds a row cursor over row index i.
func (t *Table) Row(i int) (*Row, error) {
	if i < 0 || i >= t.RowCount() {
		return nil, kerr.New(kerr.OutOfRange, "table.Row", "row index out of bounds")
	}
	return &Row{table: t, index: i}, nil
}

// Dispose releases every column's pooled storage.
func (t *Table) Dispose() {
	for _, c := range t.columns {
		c.Dispose()
	}
}
