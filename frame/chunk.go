package frame

import "fmt"

// Chunk holds one contiguous run of column values: data buffers, an
// optional validity bitmap, and child chunks for nested types.
//
// Buffer layout per type (matching the Arrow columnar format, minus the
// validity bitmap which is kept separately):
//
//	bool                  buffers[0] bit-packed values
//	fixed-width           buffers[0] values
//	str/binary            buffers[0] int64 offsets (len+1), buffers[1] bytes
//	list                  buffers[0] int64 offsets (len+1), children[0] values
//	struct                children, one per field
//
// A chunk imported over the C interface carries a release obligation; it
// must be released exactly once through Release. Go-built chunks have no
// obligation and Release is then only a double-release guard.
type Chunk struct {
	dtype    DataType
	length   int
	nulls    int
	validity *Bitmap   // nil means no nulls
	buffers  []*Buffer // layout depends on dtype
	children []*Chunk

	release  func() // foreign release hook, nil for Go-owned memory
	released bool
}

// NewChunk assembles a chunk from its parts. The validity bitmap may be
// nil. Intended for the FFI importer and for builders below; it does not
// validate the buffer layout.
func NewChunk(dtype DataType, length int, buffers []*Buffer, validity *Bitmap, children []*Chunk) *Chunk {
	nulls := 0
	if validity != nil {
		nulls = length - validity.CountSet()
	}
	return &Chunk{
		dtype:    dtype,
		length:   length,
		nulls:    nulls,
		validity: validity,
		buffers:  buffers,
		children: children,
	}
}

// DataType returns the chunk's logical type.
func (c *Chunk) DataType() DataType { return c.dtype }

// Len returns the number of elements.
func (c *Chunk) Len() int { return c.length }

// NullCount returns the number of null elements.
func (c *Chunk) NullCount() int { return c.nulls }

// Validity returns the validity bitmap, nil if the chunk has no nulls.
func (c *Chunk) Validity() *Bitmap { return c.validity }

// Buffers returns the data buffers.
func (c *Chunk) Buffers() []*Buffer { return c.buffers }

// Children returns child chunks for nested types.
func (c *Chunk) Children() []*Chunk { return c.children }

// IsNull returns true if element i is null.
func (c *Chunk) IsNull(i int) bool {
	if c.validity == nil {
		return false
	}
	return !c.validity.IsSet(i)
}

// SetRelease installs the foreign release obligation. Used by the FFI
// importer only.
func (c *Chunk) SetRelease(fn func()) { c.release = fn }

// Release runs the foreign release hook, exactly once. Releasing a chunk
// twice indicates an ownership bookkeeping defect and panics rather than
// risking a double free.
func (c *Chunk) Release() {
	if c.released {
		panic("frame: chunk released twice")
	}
	c.released = true
	if c.release != nil {
		c.release()
		c.release = nil
	}
}

// --- Builders ---

func validityFor(valid []bool) *Bitmap {
	if valid == nil {
		return nil
	}
	return NewBitmapFromBools(valid)
}

// NewBoolChunk builds a bool chunk. valid may be nil for no nulls.
func NewBoolChunk(values []bool, valid []bool) *Chunk {
	bm := NewBitmapFromBools(values)
	buf := NewBufferBytes(bm.Bytes())
	return NewChunk(Bool(), len(values), []*Buffer{buf}, validityFor(valid), nil)
}

func NewInt8Chunk(values []int8, valid []bool) *Chunk {
	return NewChunk(Int8(), len(values), []*Buffer{NewInt8Buffer(values)}, validityFor(valid), nil)
}

func NewInt16Chunk(values []int16, valid []bool) *Chunk {
	return NewChunk(Int16(), len(values), []*Buffer{NewInt16Buffer(values)}, validityFor(valid), nil)
}

func NewInt32Chunk(values []int32, valid []bool) *Chunk {
	return NewChunk(Int32(), len(values), []*Buffer{NewInt32Buffer(values)}, validityFor(valid), nil)
}

func NewInt64Chunk(values []int64, valid []bool) *Chunk {
	return NewChunk(Int64(), len(values), []*Buffer{NewInt64Buffer(values)}, validityFor(valid), nil)
}

func NewUint8Chunk(values []uint8, valid []bool) *Chunk {
	return NewChunk(Uint8(), len(values), []*Buffer{NewUint8Buffer(values)}, validityFor(valid), nil)
}

func NewUint16Chunk(values []uint16, valid []bool) *Chunk {
	return NewChunk(Uint16(), len(values), []*Buffer{NewUint16Buffer(values)}, validityFor(valid), nil)
}

func NewUint32Chunk(values []uint32, valid []bool) *Chunk {
	return NewChunk(Uint32(), len(values), []*Buffer{NewUint32Buffer(values)}, validityFor(valid), nil)
}

func NewUint64Chunk(values []uint64, valid []bool) *Chunk {
	return NewChunk(Uint64(), len(values), []*Buffer{NewUint64Buffer(values)}, validityFor(valid), nil)
}

func NewFloat32Chunk(values []float32, valid []bool) *Chunk {
	return NewChunk(Float32(), len(values), []*Buffer{NewFloat32Buffer(values)}, validityFor(valid), nil)
}

func NewFloat64Chunk(values []float64, valid []bool) *Chunk {
	return NewChunk(Float64(), len(values), []*Buffer{NewFloat64Buffer(values)}, validityFor(valid), nil)
}

func NewDate32Chunk(days []int32, valid []bool) *Chunk {
	return NewChunk(Date32(), len(days), []*Buffer{NewInt32Buffer(days)}, validityFor(valid), nil)
}

func NewTimestampChunk(dtype DataType, values []int64, valid []bool) *Chunk {
	if dtype.ID() != TIMESTAMP {
		panic("frame: not a timestamp type")
	}
	return NewChunk(dtype, len(values), []*Buffer{NewInt64Buffer(values)}, validityFor(valid), nil)
}

func NewDurationChunk(dtype DataType, values []int64, valid []bool) *Chunk {
	if dtype.ID() != DURATION {
		panic("frame: not a duration type")
	}
	return NewChunk(dtype, len(values), []*Buffer{NewInt64Buffer(values)}, validityFor(valid), nil)
}

func newVarChunk(dtype DataType, values [][]byte, valid []bool) *Chunk {
	offsets := make([]int64, len(values)+1)
	var data []byte
	for i, v := range values {
		data = append(data, v...)
		offsets[i+1] = int64(len(data))
	}
	bufs := []*Buffer{NewInt64Buffer(offsets), NewBufferBytes(data)}
	return NewChunk(dtype, len(values), bufs, validityFor(valid), nil)
}

// NewStringChunk builds a str chunk with 64-bit offsets.
func NewStringChunk(values []string, valid []bool) *Chunk {
	raw := make([][]byte, len(values))
	for i, s := range values {
		raw[i] = []byte(s)
	}
	return newVarChunk(String(), raw, valid)
}

// NewBinaryChunk builds a binary chunk with 64-bit offsets.
func NewBinaryChunk(values [][]byte, valid []bool) *Chunk {
	return newVarChunk(Binary(), values, valid)
}

// NewListChunk builds a list chunk from offsets and a values chunk. The
// offsets slice must have length+1 entries and end at values.Len().
func NewListChunk(elem DataType, offsets []int64, values *Chunk, valid []bool) *Chunk {
	if len(offsets) == 0 || offsets[len(offsets)-1] != int64(values.Len()) {
		panic("frame: list offsets do not cover values")
	}
	if !TypeEqual(elem, values.DataType()) {
		panic("frame: list element type mismatch")
	}
	bufs := []*Buffer{NewInt64Buffer(offsets)}
	return NewChunk(ListOf(elem), len(offsets)-1, bufs, validityFor(valid), []*Chunk{values})
}

// NewStructChunk builds a struct chunk from named children. Every child
// must have the given length.
func NewStructChunk(fields []Field, length int, children []*Chunk, valid []bool) *Chunk {
	if len(fields) != len(children) {
		panic("frame: struct field/child count mismatch")
	}
	for i, ch := range children {
		if ch.Len() != length {
			panic(fmt.Sprintf("frame: struct child %d has length %d, want %d", i, ch.Len(), length))
		}
		if !TypeEqual(fields[i].Type, ch.DataType()) {
			panic(fmt.Sprintf("frame: struct child %d type mismatch", i))
		}
	}
	return NewChunk(StructOf(fields...), length, nil, validityFor(valid), children)
}

// --- Typed accessors ---

// Bools materializes a bool chunk's values.
func (c *Chunk) Bools() []bool {
	bm := NewBitmapFromBytes(c.buffers[0].Bytes(), c.length)
	out := make([]bool, c.length)
	for i := range out {
		out[i] = bm.IsSet(i)
	}
	return out
}

func (c *Chunk) Int8s() []int8       { return c.buffers[0].Int8()[:c.length] }
func (c *Chunk) Int16s() []int16     { return c.buffers[0].Int16()[:c.length] }
func (c *Chunk) Int32s() []int32     { return c.buffers[0].Int32()[:c.length] }
func (c *Chunk) Int64s() []int64     { return c.buffers[0].Int64()[:c.length] }
func (c *Chunk) Uint8s() []uint8     { return c.buffers[0].Uint8()[:c.length] }
func (c *Chunk) Uint16s() []uint16   { return c.buffers[0].Uint16()[:c.length] }
func (c *Chunk) Uint32s() []uint32   { return c.buffers[0].Uint32()[:c.length] }
func (c *Chunk) Uint64s() []uint64   { return c.buffers[0].Uint64()[:c.length] }
func (c *Chunk) Float32s() []float32 { return c.buffers[0].Float32()[:c.length] }
func (c *Chunk) Float64s() []float64 { return c.buffers[0].Float64()[:c.length] }

// Offsets returns the int64 offsets of a str, binary or list chunk.
func (c *Chunk) Offsets() []int64 { return c.buffers[0].Int64()[:c.length+1] }

// StringAt returns the string value at index i.
func (c *Chunk) StringAt(i int) string {
	off := c.Offsets()
	return string(c.buffers[1].Bytes()[off[i]:off[i+1]])
}

// BinaryAt returns the bytes value at index i.
func (c *Chunk) BinaryAt(i int) []byte {
	off := c.Offsets()
	return c.buffers[1].Bytes()[off[i]:off[i+1]]
}

// Child returns the i-th child chunk.
func (c *Chunk) Child(i int) *Chunk { return c.children[i] }
