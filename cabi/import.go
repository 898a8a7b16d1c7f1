package cabi

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ImportField parses a schema descriptor into an arrow field. The
// descriptor is consumed: it is released before returning, on success
// and on failure alike.
func ImportField(s *ArrowSchema) (arrow.Field, error) {
	defer ReleaseSchema(s)
	return importSchemaNode(s)
}

func importSchemaNode(s *ArrowSchema) (arrow.Field, error) {
	if SchemaIsReleased(s) {
		return arrow.Field{}, fmt.Errorf("schema descriptor already released")
	}
	if s.Dictionary != nil {
		return arrow.Field{}, fmt.Errorf("dictionary-encoded schemas not supported")
	}

	children := make([]arrow.Field, 0, s.NChildren)
	for _, c := range childSchemas(s) {
		cf, err := importSchemaNode(c)
		if err != nil {
			return arrow.Field{}, err
		}
		children = append(children, cf)
	}

	dt, err := typeFor(fromCString(s.Format), children)
	if err != nil {
		return arrow.Field{}, err
	}
	return arrow.Field{
		Name:     fromCString(s.Name),
		Type:     dt,
		Nullable: s.Flags&FlagNullable != 0,
	}, nil
}

// ImportArray adopts an array descriptor as an arrow array of the given
// type, zero-copy. On success the descriptor's release obligation is
// carried by the returned array's backing data and discharged when it
// becomes unreachable. On failure the descriptor is untouched and still
// owned by the caller.
func ImportArray(src *ArrowArray, dtype arrow.DataType) (arrow.Array, error) {
	if ArrayIsReleased(src) {
		return nil, fmt.Errorf("array descriptor already released")
	}
	if err := checkArray(src, dtype); err != nil {
		return nil, err
	}

	moved := new(ArrowArray)
	MoveArray(src, moved)

	data := adoptData(moved, dtype)
	runtime.SetFinalizer(data, func(arrow.ArrayData) {
		ReleaseArray(moved)
	})

	arr := array.MakeFromData(data)
	data.Release()
	return arr, nil
}

func bufferCountFor(dtype arrow.DataType) int64 {
	switch dtype.ID() {
	case arrow.STRUCT:
		return 1
	case arrow.LIST, arrow.LARGE_LIST:
		return 2
	case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY, arrow.LARGE_BINARY:
		return 3
	default:
		return 2
	}
}

func offsetWidthFor(dtype arrow.DataType) int64 {
	switch dtype.ID() {
	case arrow.STRING, arrow.BINARY, arrow.LIST:
		return 4
	default:
		return 8
	}
}

// lastOffset reads offsets[length], the total size of the variable
// region, in the offset width of the type.
func lastOffset(p unsafe.Pointer, width, length int64) int64 {
	if p == nil {
		return 0
	}
	if width == 4 {
		return int64(unsafe.Slice((*int32)(p), length+1)[length])
	}
	return unsafe.Slice((*int64)(p), length+1)[length]
}

func checkArray(a *ArrowArray, dtype arrow.DataType) error {
	if a.Dictionary != nil {
		return fmt.Errorf("dictionary-encoded arrays not supported")
	}
	if a.Offset != 0 {
		return fmt.Errorf("type %s: non-zero offset %d not supported", dtype, a.Offset)
	}
	if want := bufferCountFor(dtype); a.NBuffers != want {
		return fmt.Errorf("type %s: descriptor has %d buffers, want %d", dtype, a.NBuffers, want)
	}
	bufs := bufferPtrs(a)
	if a.NullCount > 0 && bufs[0] == nil {
		return fmt.Errorf("type %s: null count %d without a validity buffer", dtype, a.NullCount)
	}

	switch dt := dtype.(type) {
	case *arrow.StructType:
		if int(a.NChildren) != dt.NumFields() {
			return fmt.Errorf("struct: descriptor has %d children, want %d", a.NChildren, dt.NumFields())
		}
		for i, child := range childArrays(a) {
			if child.Length != a.Length {
				return fmt.Errorf("struct child %d: length %d, want %d", i, child.Length, a.Length)
			}
			if err := checkArray(child, dt.Field(i).Type); err != nil {
				return err
			}
		}
		return nil

	case *arrow.ListType:
		return checkListArray(a, dt.Elem(), 4)
	case *arrow.LargeListType:
		return checkListArray(a, dt.Elem(), 8)

	default:
		if a.NChildren != 0 {
			return fmt.Errorf("type %s: descriptor has %d children, want 0", dtype, a.NChildren)
		}
		return nil
	}
}

func checkListArray(a *ArrowArray, elem arrow.DataType, offsetWidth int64) error {
	if a.NChildren != 1 {
		return fmt.Errorf("list: descriptor has %d children, want 1", a.NChildren)
	}
	child := childArrays(a)[0]
	if a.Length > 0 {
		if bufferPtrs(a)[1] == nil {
			return fmt.Errorf("list: missing offsets buffer")
		}
		if end := lastOffset(bufferPtrs(a)[1], offsetWidth, a.Length); child.Length < end {
			return fmt.Errorf("list: values length %d shorter than final offset %d", child.Length, end)
		}
	}
	return checkArray(child, elem)
}

func viewBuffer(p unsafe.Pointer, size int64) *memory.Buffer {
	if p == nil || size == 0 {
		return memory.NewBufferBytes([]byte{})
	}
	return memory.NewBufferBytes(unsafe.Slice((*byte)(p), size))
}

func viewValidity(p unsafe.Pointer, length int64) *memory.Buffer {
	if p == nil {
		return nil
	}
	return memory.NewBufferBytes(unsafe.Slice((*byte)(p), bitutil.BytesForBits(length)))
}

// adoptData views the descriptor's buffers as arrow array data. The
// descriptor has already been validated against the type.
func adoptData(a *ArrowArray, dtype arrow.DataType) *array.Data {
	length := int(a.Length)
	nulls := int(a.NullCount)
	bufs := bufferPtrs(a)
	validity := viewValidity(bufs[0], a.Length)

	switch dt := dtype.(type) {
	case *arrow.StructType:
		children := make([]arrow.ArrayData, a.NChildren)
		for i, child := range childArrays(a) {
			children[i] = adoptData(child, dt.Field(i).Type)
		}
		data := array.NewData(dtype, length, []*memory.Buffer{validity}, children, nulls, 0)
		for _, c := range children {
			c.Release()
		}
		return data

	case *arrow.ListType:
		return adoptListData(a, dtype, dt.Elem(), validity, 4)
	case *arrow.LargeListType:
		return adoptListData(a, dtype, dt.Elem(), validity, 8)

	case *arrow.BooleanType:
		values := viewBuffer(bufs[1], bitutil.BytesForBits(a.Length))
		return array.NewData(dtype, length, []*memory.Buffer{validity, values}, nil, nulls, 0)

	default:
		if w := offsetWidthFor(dtype); dtype.ID() == arrow.STRING || dtype.ID() == arrow.LARGE_STRING ||
			dtype.ID() == arrow.BINARY || dtype.ID() == arrow.LARGE_BINARY {
			offsets := viewBuffer(bufs[1], w*(a.Length+1))
			values := viewBuffer(bufs[2], lastOffset(bufs[1], w, a.Length))
			return array.NewData(dtype, length, []*memory.Buffer{validity, offsets, values}, nil, nulls, 0)
		}
		fw := dtype.(arrow.FixedWidthDataType)
		values := viewBuffer(bufs[1], int64(fw.BitWidth()/8)*a.Length)
		return array.NewData(dtype, length, []*memory.Buffer{validity, values}, nil, nulls, 0)
	}
}

func adoptListData(a *ArrowArray, dtype, elem arrow.DataType, validity *memory.Buffer, offsetWidth int64) *array.Data {
	bufs := bufferPtrs(a)
	offsets := viewBuffer(bufs[1], offsetWidth*(a.Length+1))
	child := adoptData(childArrays(a)[0], elem)
	data := array.NewData(dtype, int(a.Length), []*memory.Buffer{validity, offsets},
		[]arrow.ArrayData{child}, int(a.NullCount), 0)
	child.Release()
	return data
}
