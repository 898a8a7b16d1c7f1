package bridge

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/isesword/arrow-frame-bridge/cabi"
	"github.com/isesword/arrow-frame-bridge/frame/ffi"
)

// The reinterpretation in transmute.go is only sound while both sides
// compile the C Data Interface structs to the same layout. Pin every
// field offset, not just the total size.

func TestSchemaLayoutsMatch(t *testing.T) {
	var a cabi.ArrowSchema
	var b ffi.CSchema

	require.Equal(t, unsafe.Sizeof(a), unsafe.Sizeof(b))
	require.Equal(t, unsafe.Offsetof(a.Format), unsafe.Offsetof(b.Format))
	require.Equal(t, unsafe.Offsetof(a.Name), unsafe.Offsetof(b.Name))
	require.Equal(t, unsafe.Offsetof(a.Metadata), unsafe.Offsetof(b.Metadata))
	require.Equal(t, unsafe.Offsetof(a.Flags), unsafe.Offsetof(b.Flags))
	require.Equal(t, unsafe.Offsetof(a.NChildren), unsafe.Offsetof(b.NChildren))
	require.Equal(t, unsafe.Offsetof(a.Children), unsafe.Offsetof(b.Children))
	require.Equal(t, unsafe.Offsetof(a.Dictionary), unsafe.Offsetof(b.Dictionary))
	require.Equal(t, unsafe.Offsetof(a.Release), unsafe.Offsetof(b.Release))
	require.Equal(t, unsafe.Offsetof(a.PrivateData), unsafe.Offsetof(b.PrivateData))
}

func TestArrayLayoutsMatch(t *testing.T) {
	var a cabi.ArrowArray
	var b ffi.CArray

	require.Equal(t, unsafe.Sizeof(a), unsafe.Sizeof(b))
	require.Equal(t, unsafe.Offsetof(a.Length), unsafe.Offsetof(b.Length))
	require.Equal(t, unsafe.Offsetof(a.NullCount), unsafe.Offsetof(b.NullCount))
	require.Equal(t, unsafe.Offsetof(a.Offset), unsafe.Offsetof(b.Offset))
	require.Equal(t, unsafe.Offsetof(a.NBuffers), unsafe.Offsetof(b.NBuffers))
	require.Equal(t, unsafe.Offsetof(a.NChildren), unsafe.Offsetof(b.NChildren))
	require.Equal(t, unsafe.Offsetof(a.Buffers), unsafe.Offsetof(b.Buffers))
	require.Equal(t, unsafe.Offsetof(a.Children), unsafe.Offsetof(b.Children))
	require.Equal(t, unsafe.Offsetof(a.Dictionary), unsafe.Offsetof(b.Dictionary))
	require.Equal(t, unsafe.Offsetof(a.Release), unsafe.Offsetof(b.Release))
	require.Equal(t, unsafe.Offsetof(a.PrivateData), unsafe.Offsetof(b.PrivateData))
}
