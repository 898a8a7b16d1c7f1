package bridge

import (
	"errors"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/isesword/arrow-frame-bridge/cabi"
	"github.com/isesword/arrow-frame-bridge/frame"
	"github.com/isesword/arrow-frame-bridge/frame/ffi"
)

func arrayCode(err error) ErrorCode {
	if errors.Is(err, ffi.ErrUnsupported) {
		return ErrUnsupportedType
	}
	return ErrArrayConversion
}

// ArrowToFrame moves an arrow array into a frame chunk of the given
// type without copying buffers. The chunk retains the array's backing
// data; releasing the chunk drops that retention. The target type must
// be the frame rendering of the array's type, normally obtained through
// ToFrameType.
//
// On failure nothing is retained and the array is untouched.
func ArrowToFrame(arr arrow.Array, dtype frame.DataType) (*frame.Chunk, error) {
	ca := cabi.ExportArray(arr)
	chunk, err := ffi.ImportChunk(asFrameArray(ca), dtype)
	if err != nil {
		cabi.ReleaseArray(ca)
		return nil, convErr(arrayCode(err), "arrow to frame", err)
	}
	return chunk, nil
}

// FrameToArrow moves a frame chunk into an arrow array of the given
// type without copying buffers. The chunk is consumed: its release
// obligation travels with the returned array and is discharged when the
// array's backing data is garbage collected. The chunk must not be
// released again by the caller, on failure included.
func FrameToArrow(c *frame.Chunk, dtype arrow.DataType) (arrow.Array, error) {
	ca := ffi.ExportChunk(c)
	arr, err := cabi.ImportArray(asArrowArray(ca), dtype)
	if err != nil {
		// Releasing the descriptor releases the chunk with it.
		ffi.ReleaseArray(ca)
		return nil, convErr(arrayCode(err), "frame to arrow", err)
	}
	return arr, nil
}
