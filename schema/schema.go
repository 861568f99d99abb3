// Package schema defines the engine's logical type tokens and the
// ordered, name-indexed column schema that a table validates itself
// against (§3 Data model).
package schema

import (
	"coltab/internal/column"
	"coltab/kerr"
)

// TypeName is a stable string token identifying a logical type,
// exposed so an external JSON-persistence layer has a fixed contract
// to serialize column definitions against (§6).
type TypeName string

const (
	TypeI32         TypeName = "i32"
	TypeF64         TypeName = "f64"
	TypeBool        TypeName = "bool"
	TypeString      TypeName = "string"
	TypeTimestamp   TypeName = "timestamp"
	TypeCategorical TypeName = "categorical"
)

// KindOf maps a TypeName to its internal column.Kind.
func KindOf(t TypeName) (column.Kind, error) {
	switch t {
	case TypeI32:
		return column.KindI32, nil
	case TypeF64:
		return column.KindF64, nil
	case TypeBool:
		return column.KindBool, nil
	case TypeString:
		return column.KindString, nil
	case TypeTimestamp:
		return column.KindTimestamp, nil
	case TypeCategorical:
		return column.KindCategorical, nil
	default:
		return 0, kerr.New(kerr.KindMismatch, "schema.KindOf", "unknown type name "+string(t))
	}
}

// NameOf is KindOf's inverse, used when emitting a schema's type-name
// tokens for serialization.
func NameOf(k column.Kind) TypeName {
	switch k {
	case column.KindI32:
		return TypeI32
	case column.KindF64:
		return TypeF64
	case column.KindBool:
		return TypeBool
	case column.KindString:
		return TypeString
	case column.KindTimestamp:
		return TypeTimestamp
	case column.KindCategorical:
		return TypeCategorical
	default:
		return ""
	}
}

// Field is one column definition within a Schema: a name, logical
// type, nullability, and an optional source-record field index used
// by RecordAdapter-driven construction.
type Field struct {
	Name        string
	Type        TypeName
	Nullable    bool
	SourceIndex int
}

// Schema is an ordered sequence of Fields with unique names.
type Schema struct {
	fields []Field
	index  map[string]int
}

// New builds a Schema from fields, failing with DuplicateName on a
// repeated column name.
func New(fields []Field) (*Schema, error) {
	s := &Schema{fields: append([]Field(nil), fields...), index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			return nil, kerr.New(kerr.DuplicateName, "schema.New", "duplicate column name "+f.Name)
		}
		s.index[f.Name] = i
	}
	return s, nil
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the field at position i.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Fields returns the ordered field list.
func (s *Schema) Fields() []Field { return s.fields }

// IndexOf returns the position of name, or (-1, false) if absent.
func (s *Schema) IndexOf(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Has reports whether name is a field in this schema.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// ByName returns the field definition for name.
func (s *Schema) ByName(name string) (Field, error) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, kerr.New(kerr.MissingColumn, "schema.ByName", "no column named "+name)
	}
	return s.fields[i], nil
}
