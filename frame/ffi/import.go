package ffi

import (
	"unsafe"

	"golang.org/x/xerrors"

	"github.com/isesword/arrow-frame-bridge/frame"
)

// ImportField parses a schema descriptor into a frame field and releases
// the descriptor, whether or not parsing succeeds. The caller hands over
// ownership by calling this.
func ImportField(s *CSchema) (frame.Field, error) {
	defer ReleaseSchema(s)
	return importFieldNode(s)
}

func importFieldNode(s *CSchema) (frame.Field, error) {
	if SchemaIsReleased(s) {
		return frame.Field{}, xerrors.New("schema descriptor already released")
	}
	if s.Dictionary != nil {
		return frame.Field{}, xerrors.Errorf("dictionary encoding: %w", ErrUnsupported)
	}

	children := make([]frame.Field, 0, s.NChildren)
	for _, c := range schemaChildren(s) {
		cf, err := importFieldNode(c)
		if err != nil {
			return frame.Field{}, err
		}
		children = append(children, cf)
	}

	dt, err := decodeFormat(goString(s.Format), children)
	if err != nil {
		return frame.Field{}, err
	}
	return frame.NewField(goString(s.Name), dt, s.Flags&FlagNullable != 0), nil
}

// ImportChunk builds a frame chunk over the buffers of an array
// descriptor, zero-copy, for the given already-parsed type. On success
// the chunk owns the descriptor's release obligation and discharges it
// through Chunk.Release exactly once. On failure the descriptor is left
// untouched and the obligation stays with the caller.
func ImportChunk(src *CArray, dtype frame.DataType) (*frame.Chunk, error) {
	if ArrayIsReleased(src) {
		return nil, xerrors.New("array descriptor already released")
	}
	if err := validateArray(src, dtype); err != nil {
		return nil, err
	}

	moved := new(CArray)
	MoveArray(src, moved)

	c := buildChunk(moved, dtype)
	c.SetRelease(func() { ReleaseArray(moved) })
	return c, nil
}

// expectedBuffers returns the buffer count the C interface defines for
// the type's layout, validity included.
func expectedBuffers(dtype frame.DataType) int64 {
	switch dtype.ID() {
	case frame.STRUCT:
		return 1
	case frame.LIST:
		return 2
	case frame.STRING, frame.BINARY:
		return 3
	default:
		return 2
	}
}

func validateArray(a *CArray, dtype frame.DataType) error {
	if a.Dictionary != nil {
		return xerrors.Errorf("dictionary encoding: %w", ErrUnsupported)
	}
	if a.Offset != 0 {
		return xerrors.Errorf("type %s: non-zero offset %d not supported", dtype.Name(), a.Offset)
	}
	if want := expectedBuffers(dtype); a.NBuffers != want {
		return xerrors.Errorf("type %s: got %d buffers, want %d", dtype.Name(), a.NBuffers, want)
	}
	bufs := arrayBuffers(a)
	if a.NullCount > 0 && bufs[0] == nil {
		return xerrors.Errorf("type %s: null count %d but no validity buffer", dtype.Name(), a.NullCount)
	}

	switch t := dtype.(type) {
	case *frame.ListType:
		if a.NChildren != 1 {
			return xerrors.Errorf("list: got %d children, want 1", a.NChildren)
		}
		child := arrayChildren(a)[0]
		if a.Length > 0 && bufs[1] == nil {
			return xerrors.Errorf("list: missing offsets buffer")
		}
		if a.Length > 0 {
			offsets := unsafe.Slice((*int64)(bufs[1]), a.Length+1)
			if end := offsets[a.Length]; child.Length < end {
				return xerrors.Errorf("list: values length %d shorter than final offset %d", child.Length, end)
			}
		}
		return validateArray(child, t.Elem())

	case *frame.StructType:
		if int(a.NChildren) != t.NumFields() {
			return xerrors.Errorf("struct: got %d children, want %d", a.NChildren, t.NumFields())
		}
		for i, child := range arrayChildren(a) {
			if child.Length != a.Length {
				return xerrors.Errorf("struct child %d: length %d, want %d", i, child.Length, a.Length)
			}
			if err := validateArray(child, t.Fields()[i].Type); err != nil {
				return err
			}
		}
		return nil

	default:
		if a.NChildren != 0 {
			return xerrors.Errorf("type %s: got %d children, want 0", dtype.Name(), a.NChildren)
		}
		if dtype.ID() == frame.STRING || dtype.ID() == frame.BINARY {
			if a.Length > 0 && bufs[1] == nil {
				return xerrors.Errorf("type %s: missing offsets buffer", dtype.Name())
			}
		} else if a.Length > 0 && bufs[1] == nil {
			return xerrors.Errorf("type %s: missing values buffer", dtype.Name())
		}
		return nil
	}
}

func byteView(p unsafe.Pointer, n int) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// offsetsView reads the 64-bit offsets buffer, substituting the single
// zero offset a producer may elide for a zero-length array.
func offsetsView(p unsafe.Pointer, length int64) []int64 {
	if p == nil {
		return []int64{0}
	}
	return unsafe.Slice((*int64)(p), length+1)
}

// buildChunk views the descriptor's buffers as a chunk. The descriptor
// tree has been validated against the type.
func buildChunk(a *CArray, dtype frame.DataType) *frame.Chunk {
	length := int(a.Length)
	bufs := arrayBuffers(a)

	var validity *frame.Bitmap
	if bufs[0] != nil {
		validity = frame.NewBitmapFromBytes(byteView(bufs[0], (length+7)/8), length)
	}

	switch t := dtype.(type) {
	case *frame.StructType:
		children := make([]*frame.Chunk, a.NChildren)
		for i, child := range arrayChildren(a) {
			children[i] = buildChunk(child, t.Fields()[i].Type)
		}
		return frame.NewChunk(dtype, length, nil, validity, children)

	case *frame.ListType:
		offsets := offsetsView(bufs[1], a.Length)
		values := buildChunk(arrayChildren(a)[0], t.Elem())
		buffers := []*frame.Buffer{frame.NewBufferBytes(int64Bytes(offsets))}
		return frame.NewChunk(dtype, length, buffers, validity, []*frame.Chunk{values})

	case *frame.StringType, *frame.BinaryType:
		offsets := offsetsView(bufs[1], a.Length)
		data := byteView(bufs[2], int(offsets[length]))
		buffers := []*frame.Buffer{frame.NewBufferBytes(int64Bytes(offsets)), frame.NewBufferBytes(data)}
		return frame.NewChunk(dtype, length, buffers, validity, nil)

	case *frame.BoolType:
		values := byteView(bufs[1], (length+7)/8)
		return frame.NewChunk(dtype, length, []*frame.Buffer{frame.NewBufferBytes(values)}, validity, nil)

	default:
		values := byteView(bufs[1], length*dtype.ByteWidth())
		return frame.NewChunk(dtype, length, []*frame.Buffer{frame.NewBufferBytes(values)}, validity, nil)
	}
}

func int64Bytes(v []int64) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*8)
}
