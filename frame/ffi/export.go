package ffi

import (
	"runtime/cgo"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/isesword/arrow-frame-bridge/frame"
)

// exportEntry pins the Go memory backing an exported descriptor tree and
// carries the obligation to run when the consumer releases it.
type exportEntry struct {
	pins      []any
	onRelease func()
}

// One static C-callable release callback per descriptor kind. The
// callback looks up the export entry through PrivateData.
var (
	schemaReleaseFn = purego.NewCallback(releaseExportedSchema)
	arrayReleaseFn  = purego.NewCallback(releaseExportedArray)
)

func entryFromPrivate(p unsafe.Pointer) *exportEntry {
	if p == nil {
		return nil
	}
	h := *(*cgo.Handle)(p)
	return h.Value().(*exportEntry)
}

func dropHandle(p unsafe.Pointer) {
	h := *(*cgo.Handle)(p)
	h.Delete()
}

func releaseExportedSchema(s *CSchema) uintptr {
	if s.Release == 0 {
		return 0
	}
	for _, c := range schemaChildren(s) {
		ReleaseSchema(c)
	}
	if s.PrivateData != nil {
		dropHandle(s.PrivateData)
	}
	s.Release = 0
	s.PrivateData = nil
	return 0
}

func releaseExportedArray(a *CArray) uintptr {
	if a.Release == 0 {
		return 0
	}
	for _, c := range arrayChildren(a) {
		ReleaseArray(c)
	}
	if a.PrivateData != nil {
		entry := entryFromPrivate(a.PrivateData)
		dropHandle(a.PrivateData)
		if entry.onRelease != nil {
			entry.onRelease()
		}
	}
	a.Release = 0
	a.PrivateData = nil
	return 0
}

// attach registers the entry and stores its handle in PrivateData. The
// handle pointer itself is pinned through the entry so the garbage
// collector keeps it while the descriptor is live.
func attach(entry *exportEntry, private *unsafe.Pointer) {
	h := cgo.NewHandle(entry)
	hp := new(cgo.Handle)
	*hp = h
	entry.pins = append(entry.pins, hp)
	*private = unsafe.Pointer(hp)
}

// ExportField exports a frame field as a schema descriptor. The consumer
// owns the descriptor and must release it exactly once.
func ExportField(f frame.Field) (*CSchema, error) {
	entry := &exportEntry{}
	s, err := exportFieldNode(f, entry)
	if err != nil {
		return nil, err
	}
	attach(entry, &s.PrivateData)
	return s, nil
}

func exportFieldNode(f frame.Field, entry *exportEntry) (*CSchema, error) {
	format, err := encodeFormat(f.Type)
	if err != nil {
		return nil, err
	}
	fmtPtr, fmtBuf := cString(format)
	namePtr, nameBuf := cString(f.Name)
	entry.pins = append(entry.pins, fmtBuf, nameBuf)

	var flags int64
	if f.Nullable {
		flags = FlagNullable
	}
	s := &CSchema{
		Format:  fmtPtr,
		Name:    namePtr,
		Flags:   flags,
		Release: schemaReleaseFn,
	}

	var childFields []frame.Field
	switch t := f.Type.(type) {
	case *frame.ListType:
		childFields = []frame.Field{frame.NewField("item", t.Elem(), true)}
	case *frame.StructType:
		childFields = t.Fields()
	}
	if n := len(childFields); n > 0 {
		kids := make([]*CSchema, n)
		for i, cf := range childFields {
			kid, err := exportFieldNode(cf, entry)
			if err != nil {
				return nil, err
			}
			kids[i] = kid
		}
		entry.pins = append(entry.pins, kids)
		s.Children = &kids[0]
		s.NChildren = int64(n)
	}
	entry.pins = append(entry.pins, s)
	return s, nil
}

// ExportChunk exports a chunk as an array descriptor. The descriptor
// borrows the chunk's buffers zero-copy; the chunk's release obligation
// moves into the descriptor, so the consumer's single release both
// unpins the Go memory and runs any foreign release the chunk itself was
// carrying. After a successful export the caller must not release the
// chunk again.
func ExportChunk(c *frame.Chunk) *CArray {
	entry := &exportEntry{}
	a := exportChunkNode(c, entry)
	entry.onRelease = c.Release
	attach(entry, &a.PrivateData)
	return a
}

func bufPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func exportChunkNode(c *frame.Chunk, entry *exportEntry) *CArray {
	validity := unsafe.Pointer(nil)
	if v := c.Validity(); v != nil {
		validity = bufPtr(v.Bytes())
	}

	var bufs []unsafe.Pointer
	var children []*frame.Chunk
	dt := c.DataType()
	switch dt.ID() {
	case frame.STRUCT:
		bufs = []unsafe.Pointer{validity}
		children = c.Children()
	case frame.LIST:
		bufs = []unsafe.Pointer{validity, bufPtr(c.Buffers()[0].Bytes())}
		children = c.Children()
	case frame.STRING, frame.BINARY:
		bufs = []unsafe.Pointer{validity, bufPtr(c.Buffers()[0].Bytes()), bufPtr(c.Buffers()[1].Bytes())}
	default:
		bufs = []unsafe.Pointer{validity, bufPtr(c.Buffers()[0].Bytes())}
	}

	a := &CArray{
		Length:    int64(c.Len()),
		NullCount: int64(c.NullCount()),
		NBuffers:  int64(len(bufs)),
		Release:   arrayReleaseFn,
	}
	entry.pins = append(entry.pins, bufs, c)
	a.Buffers = &bufs[0]

	if n := len(children); n > 0 {
		kids := make([]*CArray, n)
		for i, child := range children {
			kids[i] = exportChunkNode(child, entry)
		}
		entry.pins = append(entry.pins, kids)
		a.Children = &kids[0]
		a.NChildren = int64(n)
	}
	entry.pins = append(entry.pins, a)
	return a
}
