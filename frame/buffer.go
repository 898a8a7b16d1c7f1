package frame

import (
	"fmt"
	"unsafe"
)

// Buffer is a contiguous memory region. Typed accessors are zero-copy
// views over the bytes; callers must not hold them past the lifetime of
// the owning chunk.
type Buffer struct {
	buf []byte
}

// NewBufferBytes wraps existing bytes without copying.
func NewBufferBytes(data []byte) *Buffer {
	return &Buffer{buf: data}
}

// Bytes returns the underlying byte slice.
func (b *Buffer) Bytes() []byte { return b.buf }

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int { return len(b.buf) }

func view[T any](b *Buffer, width int, name string) []T {
	if len(b.buf) == 0 {
		return nil
	}
	if len(b.buf)%width != 0 {
		panic(fmt.Sprintf("buffer size %d not aligned to %s", len(b.buf), name))
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b.buf[0])), len(b.buf)/width)
}

// Int8 returns an int8 view of the buffer.
func (b *Buffer) Int8() []int8 { return view[int8](b, 1, "int8") }

// Int16 returns an int16 view of the buffer.
func (b *Buffer) Int16() []int16 { return view[int16](b, 2, "int16") }

// Int32 returns an int32 view of the buffer.
func (b *Buffer) Int32() []int32 { return view[int32](b, 4, "int32") }

// Int64 returns an int64 view of the buffer.
func (b *Buffer) Int64() []int64 { return view[int64](b, 8, "int64") }

// Uint8 returns a uint8 view of the buffer.
func (b *Buffer) Uint8() []uint8 { return b.buf }

// Uint16 returns a uint16 view of the buffer.
func (b *Buffer) Uint16() []uint16 { return view[uint16](b, 2, "uint16") }

// Uint32 returns a uint32 view of the buffer.
func (b *Buffer) Uint32() []uint32 { return view[uint32](b, 4, "uint32") }

// Uint64 returns a uint64 view of the buffer.
func (b *Buffer) Uint64() []uint64 { return view[uint64](b, 8, "uint64") }

// Float32 returns a float32 view of the buffer.
func (b *Buffer) Float32() []float32 { return view[float32](b, 4, "float32") }

// Float64 returns a float64 view of the buffer.
func (b *Buffer) Float64() []float64 { return view[float64](b, 8, "float64") }

// --- Factory functions ---

func bufferOf[T any](data []T, width int) *Buffer {
	if len(data) == 0 {
		return &Buffer{}
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*width)
	buf := make([]byte, len(src))
	copy(buf, src)
	return &Buffer{buf: buf}
}

func NewInt8Buffer(data []int8) *Buffer       { return bufferOf(data, 1) }
func NewInt16Buffer(data []int16) *Buffer     { return bufferOf(data, 2) }
func NewInt32Buffer(data []int32) *Buffer     { return bufferOf(data, 4) }
func NewInt64Buffer(data []int64) *Buffer     { return bufferOf(data, 8) }
func NewUint8Buffer(data []uint8) *Buffer     { return bufferOf(data, 1) }
func NewUint16Buffer(data []uint16) *Buffer   { return bufferOf(data, 2) }
func NewUint32Buffer(data []uint32) *Buffer   { return bufferOf(data, 4) }
func NewUint64Buffer(data []uint64) *Buffer   { return bufferOf(data, 8) }
func NewFloat32Buffer(data []float32) *Buffer { return bufferOf(data, 4) }
func NewFloat64Buffer(data []float64) *Buffer { return bufferOf(data, 8) }
