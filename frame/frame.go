package frame

import (
	"fmt"
	"strings"
)

// DataFrame is an ordered collection of equal-height series. Each series
// is chunked internally; chunk boundaries may differ per series until
// AlignChunks is called.
type DataFrame struct {
	schema *Schema
	series []*Series
}

// NewDataFrame creates a frame from series. Field order follows the
// series order; all series must have equal height.
func NewDataFrame(series ...*Series) (*DataFrame, error) {
	fields := make([]Field, len(series))
	height := -1
	for i, s := range series {
		if height == -1 {
			height = s.Len()
		} else if s.Len() != height {
			return nil, fmt.Errorf("series %q has height %d, want %d", s.Name(), s.Len(), height)
		}
		fields[i] = NewField(s.Name(), s.DataType(), true)
	}
	return &DataFrame{schema: NewSchema(fields...), series: series}, nil
}

// EmptyDataFrame creates a zero-height frame with the given schema.
func EmptyDataFrame(schema *Schema) *DataFrame {
	series := make([]*Series, schema.NumFields())
	for i, f := range schema.Fields() {
		series[i] = &Series{name: f.Name, dtype: f.Type}
	}
	return &DataFrame{schema: schema, series: series}
}

// DataFrameFromChunks creates a one-chunk-per-column frame under an
// existing schema. Chunk types must match the schema positionally.
func DataFrameFromChunks(schema *Schema, chunks []*Chunk) (*DataFrame, error) {
	if len(chunks) != schema.NumFields() {
		return nil, fmt.Errorf("have %d chunks for %d fields", len(chunks), schema.NumFields())
	}
	series := make([]*Series, len(chunks))
	height := -1
	for i, c := range chunks {
		f := schema.Field(i)
		if !TypeEqual(f.Type, c.DataType()) {
			return nil, fmt.Errorf("column %q: chunk type %s does not match field type %s",
				f.Name, c.DataType().Name(), f.Type.Name())
		}
		if height == -1 {
			height = c.Len()
		} else if c.Len() != height {
			return nil, fmt.Errorf("column %q: chunk height %d, want %d", f.Name, c.Len(), height)
		}
		s, err := NewSeries(f.Name, f.Type, c)
		if err != nil {
			return nil, err
		}
		series[i] = s
	}
	return &DataFrame{schema: schema, series: series}, nil
}

// Schema returns the frame's schema.
func (df *DataFrame) Schema() *Schema { return df.schema }

// Height returns the number of rows.
func (df *DataFrame) Height() int {
	if len(df.series) == 0 {
		return 0
	}
	return df.series[0].Len()
}

// Width returns the number of columns.
func (df *DataFrame) Width() int { return len(df.series) }

// NChunks returns the number of chunks of the first series; after
// AlignChunks (or exclusively chunk-wise stacking) every series agrees.
func (df *DataFrame) NChunks() int {
	if len(df.series) == 0 {
		return 0
	}
	return df.series[0].NChunks()
}

// SeriesAt returns the i-th series.
func (df *DataFrame) SeriesAt(i int) *Series { return df.series[i] }

// Column returns the series with the given name.
func (df *DataFrame) Column(name string) (*Series, bool) {
	if _, i, ok := df.schema.FieldByName(name); ok {
		return df.series[i], true
	}
	return nil, false
}

// VStack appends other's rows below df's, series by series, preserving
// chunk boundaries. Chunk ownership moves into df; the caller must not
// release other afterwards. Schemas must match exactly.
func (df *DataFrame) VStack(other *DataFrame) error {
	if !df.schema.Equal(other.schema) {
		return fmt.Errorf("vstack: schema mismatch")
	}
	for i, s := range df.series {
		for _, c := range other.series[i].chunks {
			if err := s.AppendChunk(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// ChunksAligned reports whether every series has identical chunk
// boundaries.
func (df *DataFrame) ChunksAligned() bool {
	if len(df.series) == 0 {
		return true
	}
	first := df.series[0]
	for _, s := range df.series[1:] {
		if s.NChunks() != first.NChunks() {
			return false
		}
		for k := 0; k < first.NChunks(); k++ {
			if s.Chunk(k).Len() != first.Chunk(k).Len() {
				return false
			}
		}
	}
	return true
}

// AlignChunks makes chunk boundaries identical across series. If they
// already agree this is a no-op; otherwise each series is collapsed into
// a single contiguous chunk, which reallocates.
func (df *DataFrame) AlignChunks() error {
	if df.ChunksAligned() {
		return nil
	}
	for _, s := range df.series {
		if err := s.Rechunk(); err != nil {
			return err
		}
	}
	return nil
}

// StructChunkAt views chunk k of every series as one struct-typed chunk.
// Chunks must be aligned first.
func (df *DataFrame) StructChunkAt(k int) (*Chunk, error) {
	if !df.ChunksAligned() {
		return nil, fmt.Errorf("chunks are not aligned; call AlignChunks first")
	}
	children := make([]*Chunk, len(df.series))
	length := 0
	for i, s := range df.series {
		children[i] = s.Chunk(k)
		length = children[i].Len()
	}
	return NewChunk(df.schema.AsStruct(), length, nil, nil, children), nil
}

// Release releases every series.
func (df *DataFrame) Release() {
	for _, s := range df.series {
		s.Release()
	}
	df.series = nil
}

// String renders a short description, not the data.
func (df *DataFrame) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DataFrame[%dx%d]{", df.Height(), df.Width())
	for i, s := range df.series {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", s.Name(), s.DataType().Name())
	}
	sb.WriteString("}")
	return sb.String()
}
