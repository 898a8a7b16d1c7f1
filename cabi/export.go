package cabi

import (
	"runtime/cgo"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/ebitengine/purego"
)

// producerState holds everything the garbage collector must keep alive
// while a consumer still references an exported descriptor, plus the
// action to run when the consumer releases it.
type producerState struct {
	keep      []any
	onRelease func()
}

var (
	schemaRelease = purego.NewCallback(func(s *ArrowSchema) uintptr {
		if s.Release == 0 {
			return 0
		}
		for _, c := range childSchemas(s) {
			ReleaseSchema(c)
		}
		releaseState(s.PrivateData)
		s.Release = 0
		s.PrivateData = nil
		return 0
	})

	arrayRelease = purego.NewCallback(func(a *ArrowArray) uintptr {
		if a.Release == 0 {
			return 0
		}
		for _, c := range childArrays(a) {
			ReleaseArray(c)
		}
		releaseState(a.PrivateData)
		a.Release = 0
		a.PrivateData = nil
		return 0
	})
)

func releaseState(p unsafe.Pointer) {
	if p == nil {
		return
	}
	h := *(*cgo.Handle)(p)
	st := h.Value().(*producerState)
	h.Delete()
	if st.onRelease != nil {
		st.onRelease()
	}
}

func registerState(st *producerState, private *unsafe.Pointer) {
	h := cgo.NewHandle(st)
	hp := new(cgo.Handle)
	*hp = h
	st.keep = append(st.keep, hp)
	*private = unsafe.Pointer(hp)
}

// ExportField writes an arrow field out as a schema descriptor owned by
// the consumer, who must release it exactly once.
func ExportField(f arrow.Field) (*ArrowSchema, error) {
	st := &producerState{}
	s, err := exportSchemaNode(f, st)
	if err != nil {
		return nil, err
	}
	registerState(st, &s.PrivateData)
	return s, nil
}

func exportSchemaNode(f arrow.Field, st *producerState) (*ArrowSchema, error) {
	format, err := formatFor(f.Type)
	if err != nil {
		return nil, err
	}
	fmtPtr, fmtBuf := nulTerminated(format)
	namePtr, nameBuf := nulTerminated(f.Name)
	st.keep = append(st.keep, fmtBuf, nameBuf)

	var flags int64
	if f.Nullable {
		flags = FlagNullable
	}
	s := &ArrowSchema{
		Format:  fmtPtr,
		Name:    namePtr,
		Flags:   flags,
		Release: schemaRelease,
	}

	var childFields []arrow.Field
	switch dt := f.Type.(type) {
	case *arrow.ListType:
		childFields = []arrow.Field{dt.ElemField()}
	case *arrow.LargeListType:
		childFields = []arrow.Field{dt.ElemField()}
	case *arrow.StructType:
		childFields = dt.Fields()
	}
	if n := len(childFields); n > 0 {
		kids := make([]*ArrowSchema, n)
		for i, cf := range childFields {
			kid, err := exportSchemaNode(cf, st)
			if err != nil {
				return nil, err
			}
			kids[i] = kid
		}
		st.keep = append(st.keep, kids)
		s.Children = &kids[0]
		s.NChildren = int64(n)
	}
	st.keep = append(st.keep, s)
	return s, nil
}

// ExportArray writes an array out as an array descriptor. The array's
// backing data is retained for as long as the consumer holds the
// descriptor; the consumer's release drops that retention.
func ExportArray(arr arrow.Array) *ArrowArray {
	data := arr.Data()
	data.Retain()
	st := &producerState{onRelease: data.Release}
	a := exportArrayNode(data, st)
	registerState(st, &a.PrivateData)
	return a
}

func exportArrayNode(data arrow.ArrayData, st *producerState) *ArrowArray {
	bufs := make([]unsafe.Pointer, len(data.Buffers()))
	for i, b := range data.Buffers() {
		if b != nil && b.Len() > 0 {
			bufs[i] = unsafe.Pointer(&b.Bytes()[0])
		}
	}

	a := &ArrowArray{
		Length:    int64(data.Len()),
		NullCount: int64(data.NullN()),
		Offset:    int64(data.Offset()),
		NBuffers:  int64(len(bufs)),
		Release:   arrayRelease,
	}
	if len(bufs) > 0 {
		st.keep = append(st.keep, bufs)
		a.Buffers = &bufs[0]
	}

	if n := len(data.Children()); n > 0 {
		kids := make([]*ArrowArray, n)
		for i, child := range data.Children() {
			kids[i] = exportArrayNode(child, st)
		}
		st.keep = append(st.keep, kids)
		a.Children = &kids[0]
		a.NChildren = int64(n)
	}
	st.keep = append(st.keep, a)
	return a
}
