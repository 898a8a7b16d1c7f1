// Package ffi is the frame engine's implementation of the Arrow C Data
// Interface: export of frame chunks and fields into the standardized
// descriptor structs, and import of such descriptors produced by any
// other implementation of the same contract.
//
// https://arrow.apache.org/docs/format/CDataInterface.html
//
// The struct definitions here are deliberately this package's own. A
// peer implementation carries its own identical definitions, and the two
// are reconciled by pointer reinterpretation, never by field copying.
package ffi

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// Flags defined by the C Data Interface.
const (
	FlagDictionaryOrdered int64 = 1
	FlagNullable          int64 = 2
	FlagMapKeysSorted     int64 = 4
)

// CSchema mirrors struct ArrowSchema. Release is a C function pointer;
// PrivateData is producer-owned.
type CSchema struct {
	Format      *byte
	Name        *byte
	Metadata    *byte
	Flags       int64
	NChildren   int64
	Children    **CSchema
	Dictionary  *CSchema
	Release     uintptr
	PrivateData unsafe.Pointer
}

// CArray mirrors struct ArrowArray.
type CArray struct {
	Length      int64
	NullCount   int64
	Offset      int64
	NBuffers    int64
	NChildren   int64
	Buffers     *unsafe.Pointer
	Children    **CArray
	Dictionary  *CArray
	Release     uintptr
	PrivateData unsafe.Pointer
}

// SchemaIsReleased reports whether the descriptor was already released.
func SchemaIsReleased(s *CSchema) bool { return s.Release == 0 }

// ArrayIsReleased reports whether the descriptor was already released.
func ArrayIsReleased(a *CArray) bool { return a.Release == 0 }

// ReleaseSchema invokes the producer's release callback, if any.
func ReleaseSchema(s *CSchema) {
	if s.Release != 0 {
		purego.SyscallN(s.Release, uintptr(unsafe.Pointer(s)))
	}
}

// ReleaseArray invokes the producer's release callback, if any.
func ReleaseArray(a *CArray) {
	if a.Release != 0 {
		purego.SyscallN(a.Release, uintptr(unsafe.Pointer(a)))
	}
}

// MoveArray transfers the descriptor from src to dst and marks src
// released, per the interface's move semantics. The release obligation
// travels with the contents.
func MoveArray(src, dst *CArray) {
	*dst = *src
	src.Release = 0
	src.PrivateData = nil
}

// MoveSchema transfers the descriptor from src to dst and marks src
// released.
func MoveSchema(src, dst *CSchema) {
	*dst = *src
	src.Release = 0
	src.PrivateData = nil
}

// schemaChildren returns the child descriptors as a slice view.
func schemaChildren(s *CSchema) []*CSchema {
	if s.NChildren == 0 || s.Children == nil {
		return nil
	}
	return unsafe.Slice(s.Children, s.NChildren)
}

// arrayChildren returns the child descriptors as a slice view.
func arrayChildren(a *CArray) []*CArray {
	if a.NChildren == 0 || a.Children == nil {
		return nil
	}
	return unsafe.Slice(a.Children, a.NChildren)
}

// arrayBuffers returns the buffer pointers as a slice view.
func arrayBuffers(a *CArray) []unsafe.Pointer {
	if a.NBuffers == 0 || a.Buffers == nil {
		return nil
	}
	return unsafe.Slice(a.Buffers, a.NBuffers)
}

// cString allocates a NUL-terminated copy of s and returns a pointer to
// its first byte along with the backing slice, which the caller must pin
// for as long as the pointer is exposed.
func cString(s string) (*byte, []byte) {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &buf[0], buf
}

// goString reads a NUL-terminated C string.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
