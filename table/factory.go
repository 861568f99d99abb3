package table

import (
	"coltab/internal/column"
	"coltab/kerr"
	"coltab/schema"
)

// NewColumn builds a fresh, empty, owning column matching field via
// the column factory (§4.E), ready to be appended into by a caller
// that knows the field's concrete Go type.
func NewColumn(field schema.Field, capacity int) (column.Column, error) {
	switch field.Type {
	case schema.TypeI32:
		return column.NewInt32Column(field.Name, capacity, field.Nullable), nil
	case schema.TypeF64:
		return column.NewFloat64Column(field.Name, capacity, field.Nullable), nil
	case schema.TypeTimestamp:
		return column.NewTimestampColumn(field.Name, capacity, field.Nullable), nil
	case schema.TypeBool:
		return column.NewBoolColumn(field.Name, capacity, field.Nullable), nil
	case schema.TypeString:
		return column.NewVarcharColumn(field.Name, capacity, field.Nullable), nil
	case schema.TypeCategorical:
		return column.NewCategoricalColumn(field.Name, capacity, field.Nullable), nil
	default:
		return nil, kerr.New(kerr.KindMismatch, "table.NewColumn", "unknown field type "+string(field.Type))
	}
}
