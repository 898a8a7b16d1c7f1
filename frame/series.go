package frame

import "fmt"

// Series is a named, typed column stored as one or more chunks. Chunks
// are contiguous runs of rows; their boundaries are preserved by vertical
// stacking and only collapsed by Rechunk.
type Series struct {
	name   string
	dtype  DataType
	chunks []*Chunk
}

// NewSeries creates a series from existing chunks. All chunks must share
// the series type.
func NewSeries(name string, dtype DataType, chunks ...*Chunk) (*Series, error) {
	s := &Series{name: name, dtype: dtype}
	for _, c := range chunks {
		if err := s.AppendChunk(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// DataType returns the series type.
func (s *Series) DataType() DataType { return s.dtype }

// Len returns the total number of rows across chunks.
func (s *Series) Len() int {
	n := 0
	for _, c := range s.chunks {
		n += c.Len()
	}
	return n
}

// NChunks returns the number of chunks.
func (s *Series) NChunks() int { return len(s.chunks) }

// Chunk returns the i-th chunk.
func (s *Series) Chunk(i int) *Chunk { return s.chunks[i] }

// AppendChunk appends a chunk, keeping row order. The chunk type must
// match the series type exactly.
func (s *Series) AppendChunk(c *Chunk) error {
	if !TypeEqual(s.dtype, c.DataType()) {
		return fmt.Errorf("series %q: cannot append chunk of type %s to %s",
			s.name, c.DataType().Name(), s.dtype.Name())
	}
	s.chunks = append(s.chunks, c)
	return nil
}

// IsNull returns true if the row at the series-global index is null.
func (s *Series) IsNull(i int) bool {
	for _, c := range s.chunks {
		if i < c.Len() {
			return c.IsNull(i)
		}
		i -= c.Len()
	}
	panic("series index out of range")
}

// NullCount returns the total null count across chunks.
func (s *Series) NullCount() int {
	n := 0
	for _, c := range s.chunks {
		n += c.NullCount()
	}
	return n
}

// Rechunk collapses the series into a single contiguous chunk, copying
// buffers. A series with zero or one chunk is returned unchanged.
func (s *Series) Rechunk() error {
	if len(s.chunks) <= 1 {
		return nil
	}
	merged, err := concatChunks(s.dtype, s.chunks)
	if err != nil {
		return fmt.Errorf("series %q: %w", s.name, err)
	}
	for _, c := range s.chunks {
		c.Release()
	}
	s.chunks = []*Chunk{merged}
	return nil
}

// Release releases all chunks.
func (s *Series) Release() {
	for _, c := range s.chunks {
		c.Release()
	}
	s.chunks = nil
}

// concatChunks copies a run of same-typed chunks into one.
func concatChunks(dtype DataType, chunks []*Chunk) (*Chunk, error) {
	parts := make([]chunkRange, len(chunks))
	for i, c := range chunks {
		parts[i] = chunkRange{c: c, from: 0, to: c.Len()}
	}
	return concatRanges(dtype, parts)
}

// chunkRange is a row window into a chunk. A list's values child may
// carry rows outside every offset window; merging must copy only the
// windowed rows.
type chunkRange struct {
	c        *Chunk
	from, to int
}

func (p chunkRange) len() int { return p.to - p.from }

func sliceBits(b *Bitmap, from, to int) *Bitmap {
	if b == nil {
		return nil
	}
	out := NewBitmap(to - from)
	for i := from; i < to; i++ {
		if b.IsSet(i) {
			out.Set(i - from)
		}
	}
	return out
}

func concatRanges(dtype DataType, parts []chunkRange) (*Chunk, error) {
	total := 0
	for _, p := range parts {
		total += p.len()
	}

	var validity *Bitmap
	appended := 0
	for _, p := range parts {
		validity = AppendBitmaps(validity, appended, sliceBits(p.c.validity, p.from, p.to), p.len())
		appended += p.len()
	}

	switch dtype.ID() {
	case BOOL:
		values := NewBitmap(total)
		pos := 0
		for _, p := range parts {
			vals := NewBitmapFromBytes(p.c.buffers[0].Bytes(), p.c.Len())
			for i := p.from; i < p.to; i++ {
				if vals.IsSet(i) {
					values.Set(pos)
				}
				pos++
			}
		}
		return NewChunk(dtype, total, []*Buffer{NewBufferBytes(values.Bytes())}, validity, nil), nil

	case INT8, INT16, INT32, INT64, UINT8, UINT16, UINT32, UINT64,
		FLOAT32, FLOAT64, DATE32, TIMESTAMP, DURATION:
		width := dtype.ByteWidth()
		data := make([]byte, 0, total*width)
		for _, p := range parts {
			data = append(data, p.c.buffers[0].Bytes()[p.from*width:p.to*width]...)
		}
		return NewChunk(dtype, total, []*Buffer{NewBufferBytes(data)}, validity, nil), nil

	case STRING, BINARY:
		offsets := make([]int64, 1, total+1)
		var data []byte
		for _, p := range parts {
			co := p.c.Offsets()
			base := int64(len(data))
			data = append(data, p.c.buffers[1].Bytes()[co[p.from]:co[p.to]]...)
			for i := p.from + 1; i <= p.to; i++ {
				offsets = append(offsets, base+co[i]-co[p.from])
			}
		}
		bufs := []*Buffer{NewInt64Buffer(offsets), NewBufferBytes(data)}
		return NewChunk(dtype, total, bufs, validity, nil), nil

	case LIST:
		elem := dtype.(*ListType).Elem()
		offsets := make([]int64, 1, total+1)
		values := make([]chunkRange, 0, len(parts))
		var valueLen int64
		for _, p := range parts {
			co := p.c.Offsets()
			values = append(values, chunkRange{c: p.c.Child(0), from: int(co[p.from]), to: int(co[p.to])})
			for i := p.from + 1; i <= p.to; i++ {
				offsets = append(offsets, valueLen+co[i]-co[p.from])
			}
			valueLen += co[p.to] - co[p.from]
		}
		mergedValues, err := concatRanges(elem, values)
		if err != nil {
			return nil, err
		}
		bufs := []*Buffer{NewInt64Buffer(offsets)}
		return NewChunk(dtype, total, bufs, validity, []*Chunk{mergedValues}), nil

	case STRUCT:
		st := dtype.(*StructType)
		children := make([]*Chunk, st.NumFields())
		for f := range st.Fields() {
			sub := make([]chunkRange, len(parts))
			for i, p := range parts {
				sub[i] = chunkRange{c: p.c.Child(f), from: p.from, to: p.to}
			}
			merged, err := concatRanges(st.Fields()[f].Type, sub)
			if err != nil {
				return nil, err
			}
			children[f] = merged
		}
		return NewChunk(dtype, total, nil, validity, children), nil

	default:
		return nil, fmt.Errorf("cannot rechunk type %s", dtype.Name())
	}
}
