// Package cabi exports and imports arrow-go schemas and arrays through
// the Arrow C Data Interface descriptor structs.
//
// https://arrow.apache.org/docs/format/CDataInterface.html
//
// ArrowSchema and ArrowArray are defined here in full rather than shared
// with any peer package. The interface contract is the struct layout, so
// a descriptor produced by another implementation is adopted by pointer
// reinterpretation.
package cabi

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

const (
	// FlagNullable marks a field that may contain nulls.
	FlagNullable int64 = 2
)

// ArrowSchema is struct ArrowSchema of the C Data Interface. Format and
// Name are NUL-terminated C strings owned by the producer.
type ArrowSchema struct {
	Format      *byte
	Name        *byte
	Metadata    *byte
	Flags       int64
	NChildren   int64
	Children    **ArrowSchema
	Dictionary  *ArrowSchema
	Release     uintptr
	PrivateData unsafe.Pointer
}

// ArrowArray is struct ArrowArray of the C Data Interface.
type ArrowArray struct {
	Length      int64
	NullCount   int64
	Offset      int64
	NBuffers    int64
	NChildren   int64
	Buffers     *unsafe.Pointer
	Children    **ArrowArray
	Dictionary  *ArrowArray
	Release     uintptr
	PrivateData unsafe.Pointer
}

// SchemaIsReleased reports whether the producer already tore the
// descriptor down.
func SchemaIsReleased(s *ArrowSchema) bool { return s.Release == 0 }

// ArrayIsReleased reports whether the producer already tore the
// descriptor down.
func ArrayIsReleased(a *ArrowArray) bool { return a.Release == 0 }

// ReleaseSchema calls the producer's release callback through its C
// function pointer. Safe on an already-released descriptor.
func ReleaseSchema(s *ArrowSchema) {
	if s.Release != 0 {
		purego.SyscallN(s.Release, uintptr(unsafe.Pointer(s)))
	}
}

// ReleaseArray calls the producer's release callback through its C
// function pointer. Safe on an already-released descriptor.
func ReleaseArray(a *ArrowArray) {
	if a.Release != 0 {
		purego.SyscallN(a.Release, uintptr(unsafe.Pointer(a)))
	}
}

// MoveSchema implements the interface's move operation: dst takes over
// the descriptor and src is marked released.
func MoveSchema(src, dst *ArrowSchema) {
	*dst = *src
	src.Release = 0
	src.PrivateData = nil
}

// MoveArray implements the interface's move operation: dst takes over
// the descriptor and src is marked released.
func MoveArray(src, dst *ArrowArray) {
	*dst = *src
	src.Release = 0
	src.PrivateData = nil
}

func childSchemas(s *ArrowSchema) []*ArrowSchema {
	if s.NChildren == 0 || s.Children == nil {
		return nil
	}
	return unsafe.Slice(s.Children, s.NChildren)
}

func childArrays(a *ArrowArray) []*ArrowArray {
	if a.NChildren == 0 || a.Children == nil {
		return nil
	}
	return unsafe.Slice(a.Children, a.NChildren)
}

func bufferPtrs(a *ArrowArray) []unsafe.Pointer {
	if a.NBuffers == 0 || a.Buffers == nil {
		return nil
	}
	return unsafe.Slice(a.Buffers, a.NBuffers)
}

// nulTerminated copies s into a NUL-terminated byte slice. The slice
// must stay pinned while the returned pointer is visible to a consumer.
func nulTerminated(s string) (*byte, []byte) {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &buf[0], buf
}

// fromCString reads a NUL-terminated C string into a Go string.
func fromCString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
