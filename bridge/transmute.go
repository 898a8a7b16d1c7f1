package bridge

import (
	"unsafe"

	"github.com/isesword/arrow-frame-bridge/cabi"
	"github.com/isesword/arrow-frame-bridge/frame/ffi"
)

// Each side compiles its own definition of the C Data Interface structs.
// The layouts match field for field, the same way two C libraries agree
// through a shared header, so a descriptor produced by one side is
// handed to the other by reinterpreting the pointer. No field is copied
// and the release callback stays callable from either side.

func asFrameSchema(s *cabi.ArrowSchema) *ffi.CSchema {
	return (*ffi.CSchema)(unsafe.Pointer(s))
}

func asFrameArray(a *cabi.ArrowArray) *ffi.CArray {
	return (*ffi.CArray)(unsafe.Pointer(a))
}

func asArrowSchema(s *ffi.CSchema) *cabi.ArrowSchema {
	return (*cabi.ArrowSchema)(unsafe.Pointer(s))
}

func asArrowArray(a *ffi.CArray) *cabi.ArrowArray {
	return (*cabi.ArrowArray)(unsafe.Pointer(a))
}
