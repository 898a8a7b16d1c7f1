package bridge

import (
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/isesword/arrow-frame-bridge/frame"
)

// A whole record batch crosses the interface as a single struct-typed
// array whose children are the columns, so the transfer is one
// export/import transaction instead of one per column.

// RecordToDataFrame converts one record batch into a one-chunk frame
// under the given target schema. The column count is checked against
// the schema before any data is converted; on mismatch no column
// crosses the interface.
//
// The record's buffers are retained by the resulting frame and stay
// alive until it is released.
func RecordToDataFrame(rec arrow.RecordBatch, target *frame.Schema) (*frame.DataFrame, error) {
	const op = "record to frame"
	if int(rec.NumCols()) != target.NumFields() {
		return nil, convErrf(ErrSchemaConversion, op,
			"record has %d columns, schema has %d fields", rec.NumCols(), target.NumFields())
	}
	got, err := SchemaToFrame(rec.Schema())
	if err != nil {
		return nil, err
	}
	if !got.Equal(target) {
		return nil, convErrf(ErrSchemaConversion, op,
			"record schema %s does not convert to target %s", rec.Schema(), target)
	}

	sa := array.RecordToStructArray(rec)
	defer sa.Release()

	sc, err := ArrowToFrame(sa, target.AsStruct())
	if err != nil {
		return nil, err
	}

	df, err := frame.DataFrameFromChunks(target, sc.Children())
	if err != nil {
		sc.Release()
		return nil, convErr(ErrSchemaConversion, op, err)
	}
	shareStructRelease(sc)
	return df, nil
}

// shareStructRelease hands the struct chunk's release obligation to its
// children: the parent is released once, when the last child goes.
func shareStructRelease(sc *frame.Chunk) {
	children := sc.Children()
	if len(children) == 0 {
		sc.Release()
		return
	}
	var remaining atomic.Int32
	remaining.Store(int32(len(children)))
	for _, ch := range children {
		ch.SetRelease(func() {
			if remaining.Add(-1) == 0 {
				sc.Release()
			}
		})
	}
}

// DataFrameToRecord converts chunk k of the frame into a record batch
// under the given arrow schema. Chunks must be aligned across series.
//
// The record borrows the frame's buffers zero-copy; the frame must
// outlive the record.
func DataFrameToRecord(df *frame.DataFrame, k int, target *arrow.Schema) (arrow.RecordBatch, error) {
	const op = "frame to record"
	if df.Width() != target.NumFields() {
		return nil, convErrf(ErrSchemaConversion, op,
			"frame has %d columns, schema has %d fields", df.Width(), target.NumFields())
	}
	got, err := SchemaToArrow(df.Schema())
	if err != nil {
		return nil, err
	}
	if !got.Equal(target) {
		return nil, convErrf(ErrSchemaConversion, op,
			"frame schema %s does not convert to target %s", df.Schema(), target)
	}

	sc, err := df.StructChunkAt(k)
	if err != nil {
		return nil, convErr(ErrSchemaConversion, op, err)
	}

	arr, err := FrameToArrow(sc, arrow.StructOf(target.Fields()...))
	if err != nil {
		return nil, err
	}
	sa := arr.(*array.Struct)
	defer sa.Release()
	return array.RecordFromStructArray(sa, target), nil
}
