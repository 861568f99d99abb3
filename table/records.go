package table

import (
	"coltab/internal/column"
	"coltab/kerr"
	"coltab/schema"
)

// FieldAdapter binds one output column to an extraction function over
// a caller-supplied record value. Extract returns (value, true) for a
// present value or (nil, false) for a null; the engine never reflects
// over rec — callers supply one FieldAdapter per struct field they
// want materialized (§9 "Reflection-driven record loading").
type FieldAdapter struct {
	Name     string
	Type     schema.TypeName
	Nullable bool
	Extract  func(rec any) (any, bool)
}

// RecordAdapter is the ordered set of fields FromRecords materializes.
// An empty adapter fails with SchemaEmpty, mirroring from_records'
// "no supported fields" failure for a struct with nothing to extract.
type RecordAdapter []FieldAdapter

// FromRecords builds a table by running every record through adapter,
// pre-sizing each column to len(records) (§4.E from_records).
func FromRecords(records []any, adapter RecordAdapter) (*Table, error) {
	if len(adapter) == 0 {
		return nil, kerr.New(kerr.SchemaEmpty, "table.FromRecords", "record adapter has no fields")
	}
	fields := make([]schema.Field, len(adapter))
	for i, a := range adapter {
		fields[i] = schema.Field{Name: a.Name, Type: a.Type, Nullable: a.Nullable, SourceIndex: i}
	}
	sch, err := schema.New(fields)
	if err != nil {
		return nil, err
	}
	t, err := Create(sch, len(records))
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		for i, a := range adapter {
			val, ok := a.Extract(rec)
			if err := appendAny(t.columns[i], val, ok); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// appendAny dispatches an extracted (value, present) pair into c's
// concrete append method, the one place FromRecords needs to know
// about column variants directly.
func appendAny(c column.Column, val any, ok bool) error {
	switch cc := c.(type) {
	case *column.Int32Column:
		v, _ := val.(int32)
		return cc.AppendOptional(v, ok)
	case *column.Float64Column:
		v, _ := val.(float64)
		return cc.AppendOptional(v, ok)
	case *column.TimestampColumn:
		v, _ := val.(column.Timestamp)
		return cc.AppendOptional(v, ok)
	case *column.BoolColumn:
		v, _ := val.(bool)
		return cc.AppendOptional(v, ok)
	case *column.VarcharColumn:
		v, _ := val.(string)
		return cc.AppendOptional(v, ok)
	case *column.CategoricalColumn:
		v, _ := val.(string)
		return cc.AppendOptional(v, ok)
	default:
		return kerr.New(kerr.NotSupported, "table.FromRecords", "column variant does not support record append")
	}
}
