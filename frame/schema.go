package frame

import (
	"fmt"
	"strings"
)

// Field represents a named typed column.
type Field struct {
	Name     string
	Type     DataType
	Nullable bool
}

// NewField creates a new field.
func NewField(name string, dtype DataType, nullable bool) Field {
	return Field{Name: name, Type: dtype, Nullable: nullable}
}

// Equal reports structural equality.
func (f Field) Equal(other Field) bool {
	return f.Name == other.Name && f.Nullable == other.Nullable && TypeEqual(f.Type, other.Type)
}

// Schema is an ordered collection of fields. Order is significant: it
// defines column positions in every chunk produced under the schema.
type Schema struct {
	fields []Field
}

// NewSchema creates a new schema.
func NewSchema(fields ...Field) *Schema {
	return &Schema{fields: fields}
}

// NumFields returns the number of fields.
func (s *Schema) NumFields() int { return len(s.fields) }

// Field returns the field at index i.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Fields returns all fields in order.
func (s *Schema) Fields() []Field { return s.fields }

// FieldByName returns the field with the given name and its index.
func (s *Schema) FieldByName(name string) (Field, int, bool) {
	for i, f := range s.fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return Field{}, -1, false
}

// AsStruct returns the schema viewed as a single struct type.
func (s *Schema) AsStruct() DataType {
	return StructOf(s.fields...)
}

// Equal checks whether two schemas have identical fields in the same order.
func (s *Schema) Equal(other *Schema) bool {
	if s.NumFields() != other.NumFields() {
		return false
	}
	for i := range s.fields {
		if !s.fields[i].Equal(other.fields[i]) {
			return false
		}
	}
	return true
}

// String returns a human-readable representation.
func (s *Schema) String() string {
	var sb strings.Builder
	sb.WriteString("Schema{\n")
	for i, f := range s.fields {
		nullable := ""
		if f.Nullable {
			nullable = ", nullable"
		}
		sb.WriteString(fmt.Sprintf("  %d: %s: %s%s\n", i, f.Name, f.Type.Name(), nullable))
	}
	sb.WriteString("}")
	return sb.String()
}
