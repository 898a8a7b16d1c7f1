package bridge

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/isesword/arrow-frame-bridge/frame"
)

// BatchReader streams record batches. It follows the iteration shape of
// arrow-go's ipc.Reader: Next advances and reports whether a batch is
// available, Batch returns the current one, Err reports a terminal
// failure after Next returns false.
//
// The current batch is only valid until the following Next or Release
// call; callers that keep it longer must retain it.
type BatchReader interface {
	Schema() *arrow.Schema
	Next() bool
	Batch() arrow.RecordBatch
	Err() error
	Release()
}

// --- static reader ---

type sliceReader struct {
	schema  *arrow.Schema
	batches []arrow.RecordBatch
	pos     int
	cur     arrow.RecordBatch
}

// NewBatchReader streams an in-memory batch slice. The batches are
// retained by the reader and released as it advances past them.
func NewBatchReader(schema *arrow.Schema, batches []arrow.RecordBatch) BatchReader {
	for _, b := range batches {
		b.Retain()
	}
	return &sliceReader{schema: schema, batches: batches}
}

func (r *sliceReader) Schema() *arrow.Schema { return r.schema }

func (r *sliceReader) Next() bool {
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
	if r.pos >= len(r.batches) {
		return false
	}
	r.cur = r.batches[r.pos]
	r.pos++
	return true
}

func (r *sliceReader) Batch() arrow.RecordBatch { return r.cur }
func (r *sliceReader) Err() error               { return nil }

func (r *sliceReader) Release() {
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
	for _, b := range r.batches[r.pos:] {
		b.Release()
	}
	r.batches = nil
}

// --- frame reader ---

type dataFrameReader struct {
	df     *frame.DataFrame
	schema *arrow.Schema
	next   int
	cur    arrow.RecordBatch
	err    error
}

// NewDataFrameReader streams a frame as record batches, one batch per
// chunk, preserving chunk boundaries. Chunk boundaries are aligned
// across series first, which may rechunk.
//
// The reader takes ownership of the frame and releases it on Release.
// Batches borrow the frame's buffers, so Release only after the last
// batch is done with.
func NewDataFrameReader(df *frame.DataFrame) (BatchReader, error) {
	if err := df.AlignChunks(); err != nil {
		return nil, convErr(ErrArrayConversion, "frame reader", err)
	}
	schema, err := SchemaToArrow(df.Schema())
	if err != nil {
		return nil, err
	}
	return &dataFrameReader{df: df, schema: schema}, nil
}

func (r *dataFrameReader) Schema() *arrow.Schema { return r.schema }

func (r *dataFrameReader) Next() bool {
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
	if r.err != nil || r.df == nil || r.next >= r.df.NChunks() {
		return false
	}
	rec, err := DataFrameToRecord(r.df, r.next, r.schema)
	if err != nil {
		r.err = err
		return false
	}
	r.next++
	r.cur = rec
	return true
}

func (r *dataFrameReader) Batch() arrow.RecordBatch { return r.cur }
func (r *dataFrameReader) Err() error               { return r.err }

func (r *dataFrameReader) Release() {
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
	if r.df != nil {
		r.df.Release()
		r.df = nil
	}
}

// --- channel reader ---

type channelReader struct {
	ctx    context.Context
	schema *arrow.Schema
	ch     <-chan arrow.RecordBatch
	cur    arrow.RecordBatch
	err    error
}

// NewChannelReader streams batches from a channel until it is closed or
// the context is cancelled. Cancellation surfaces through Err after
// Next returns false. Batches received from the channel are owned by
// the reader.
func NewChannelReader(ctx context.Context, schema *arrow.Schema, ch <-chan arrow.RecordBatch) BatchReader {
	return &channelReader{ctx: ctx, schema: schema, ch: ch}
}

func (r *channelReader) Schema() *arrow.Schema { return r.schema }

func (r *channelReader) Next() bool {
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
	if r.err != nil {
		return false
	}
	select {
	case <-r.ctx.Done():
		r.err = r.ctx.Err()
		return false
	case rec, ok := <-r.ch:
		if !ok {
			return false
		}
		r.cur = rec
		return true
	}
}

func (r *channelReader) Batch() arrow.RecordBatch { return r.cur }
func (r *channelReader) Err() error               { return r.err }

func (r *channelReader) Release() {
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
}
