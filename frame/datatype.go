package frame

import "fmt"

// TypeID is an enum of the logical types supported by the engine.
type TypeID int

const (
	BOOL TypeID = iota
	INT8
	INT16
	INT32
	INT64
	UINT8
	UINT16
	UINT32
	UINT64
	FLOAT32
	FLOAT64
	STRING
	BINARY
	DATE32
	TIMESTAMP
	DURATION
	LIST
	STRUCT
)

// TimeUnit is the resolution of a temporal type.
type TimeUnit int

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

func (u TimeUnit) String() string {
	switch u {
	case Second:
		return "s"
	case Millisecond:
		return "ms"
	case Microsecond:
		return "us"
	default:
		return "ns"
	}
}

// DataType represents the logical type of a column.
type DataType interface {
	ID() TypeID
	Name() string
	ByteWidth() int // -1 for variable length
}

// --- Primitive types ---

type BoolType struct{}

func (t *BoolType) ID() TypeID     { return BOOL }
func (t *BoolType) Name() string   { return "bool" }
func (t *BoolType) ByteWidth() int { return -1 } // bit-packed

type Int8Type struct{}

func (t *Int8Type) ID() TypeID     { return INT8 }
func (t *Int8Type) Name() string   { return "int8" }
func (t *Int8Type) ByteWidth() int { return 1 }

type Int16Type struct{}

func (t *Int16Type) ID() TypeID     { return INT16 }
func (t *Int16Type) Name() string   { return "int16" }
func (t *Int16Type) ByteWidth() int { return 2 }

type Int32Type struct{}

func (t *Int32Type) ID() TypeID     { return INT32 }
func (t *Int32Type) Name() string   { return "int32" }
func (t *Int32Type) ByteWidth() int { return 4 }

type Int64Type struct{}

func (t *Int64Type) ID() TypeID     { return INT64 }
func (t *Int64Type) Name() string   { return "int64" }
func (t *Int64Type) ByteWidth() int { return 8 }

type Uint8Type struct{}

func (t *Uint8Type) ID() TypeID     { return UINT8 }
func (t *Uint8Type) Name() string   { return "uint8" }
func (t *Uint8Type) ByteWidth() int { return 1 }

type Uint16Type struct{}

func (t *Uint16Type) ID() TypeID     { return UINT16 }
func (t *Uint16Type) Name() string   { return "uint16" }
func (t *Uint16Type) ByteWidth() int { return 2 }

type Uint32Type struct{}

func (t *Uint32Type) ID() TypeID     { return UINT32 }
func (t *Uint32Type) Name() string   { return "uint32" }
func (t *Uint32Type) ByteWidth() int { return 4 }

type Uint64Type struct{}

func (t *Uint64Type) ID() TypeID     { return UINT64 }
func (t *Uint64Type) Name() string   { return "uint64" }
func (t *Uint64Type) ByteWidth() int { return 8 }

type Float32Type struct{}

func (t *Float32Type) ID() TypeID     { return FLOAT32 }
func (t *Float32Type) Name() string   { return "float32" }
func (t *Float32Type) ByteWidth() int { return 4 }

type Float64Type struct{}

func (t *Float64Type) ID() TypeID     { return FLOAT64 }
func (t *Float64Type) Name() string   { return "float64" }
func (t *Float64Type) ByteWidth() int { return 8 }

// --- Variable-length types ---

// StringType is UTF-8 with 64-bit offsets. The engine carries exactly one
// string representation; small-offset strings are not part of the type
// system.
type StringType struct{}

func (t *StringType) ID() TypeID     { return STRING }
func (t *StringType) Name() string   { return "str" }
func (t *StringType) ByteWidth() int { return -1 }

// BinaryType is opaque bytes with 64-bit offsets.
type BinaryType struct{}

func (t *BinaryType) ID() TypeID     { return BINARY }
func (t *BinaryType) Name() string   { return "binary" }
func (t *BinaryType) ByteWidth() int { return -1 }

// --- Temporal types ---

// Date32Type is days since the UNIX epoch.
type Date32Type struct{}

func (t *Date32Type) ID() TypeID     { return DATE32 }
func (t *Date32Type) Name() string   { return "date32" }
func (t *Date32Type) ByteWidth() int { return 4 }

// TimestampType is an instant at the given resolution, optionally zoned.
type TimestampType struct {
	Unit TimeUnit
	Zone string // empty means zone-less
}

func (t *TimestampType) ID() TypeID { return TIMESTAMP }
func (t *TimestampType) Name() string {
	if t.Zone == "" {
		return fmt.Sprintf("timestamp[%s]", t.Unit)
	}
	return fmt.Sprintf("timestamp[%s, %s]", t.Unit, t.Zone)
}
func (t *TimestampType) ByteWidth() int { return 8 }

// DurationType is an elapsed time at the given resolution.
type DurationType struct {
	Unit TimeUnit
}

func (t *DurationType) ID() TypeID     { return DURATION }
func (t *DurationType) Name() string   { return fmt.Sprintf("duration[%s]", t.Unit) }
func (t *DurationType) ByteWidth() int { return 8 }

// --- Nested types ---

// ListType is a variable-length list with 64-bit offsets.
type ListType struct {
	elem DataType
}

func (t *ListType) ID() TypeID     { return LIST }
func (t *ListType) Name() string   { return fmt.Sprintf("list<%s>", t.elem.Name()) }
func (t *ListType) ByteWidth() int { return -1 }
func (t *ListType) Elem() DataType { return t.elem }

// StructType is a struct with named child fields.
type StructType struct {
	fields []Field
}

func (t *StructType) ID() TypeID { return STRUCT }
func (t *StructType) Name() string {
	s := "struct<"
	for i, f := range t.fields {
		if i > 0 {
			s += ", "
		}
		s += f.Name + ": " + f.Type.Name()
	}
	return s + ">"
}
func (t *StructType) ByteWidth() int  { return -1 }
func (t *StructType) Fields() []Field { return t.fields }
func (t *StructType) NumFields() int  { return len(t.fields) }

// --- Type constructors ---

func Bool() DataType    { return &BoolType{} }
func Int8() DataType    { return &Int8Type{} }
func Int16() DataType   { return &Int16Type{} }
func Int32() DataType   { return &Int32Type{} }
func Int64() DataType   { return &Int64Type{} }
func Uint8() DataType   { return &Uint8Type{} }
func Uint16() DataType  { return &Uint16Type{} }
func Uint32() DataType  { return &Uint32Type{} }
func Uint64() DataType  { return &Uint64Type{} }
func Float32() DataType { return &Float32Type{} }
func Float64() DataType { return &Float64Type{} }
func String() DataType  { return &StringType{} }
func Binary() DataType  { return &BinaryType{} }
func Date32() DataType  { return &Date32Type{} }

func Timestamp(unit TimeUnit, zone string) DataType {
	return &TimestampType{Unit: unit, Zone: zone}
}

func Duration(unit TimeUnit) DataType {
	return &DurationType{Unit: unit}
}

func ListOf(elem DataType) DataType {
	return &ListType{elem: elem}
}

func StructOf(fields ...Field) DataType {
	return &StructType{fields: fields}
}

// TypeEqual reports whether two types are structurally identical,
// including nested parameters.
func TypeEqual(a, b DataType) bool {
	if a.ID() != b.ID() {
		return false
	}
	switch at := a.(type) {
	case *TimestampType:
		bt := b.(*TimestampType)
		return at.Unit == bt.Unit && at.Zone == bt.Zone
	case *DurationType:
		return at.Unit == b.(*DurationType).Unit
	case *ListType:
		return TypeEqual(at.elem, b.(*ListType).elem)
	case *StructType:
		bt := b.(*StructType)
		if len(at.fields) != len(bt.fields) {
			return false
		}
		for i := range at.fields {
			if at.fields[i].Name != bt.fields[i].Name ||
				at.fields[i].Nullable != bt.fields[i].Nullable ||
				!TypeEqual(at.fields[i].Type, bt.fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
