package bridge

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/isesword/arrow-frame-bridge/frame"
)

// Accumulator builds a frame by converting and vertically stacking
// record batches. Each pushed batch becomes one chunk per column; chunk
// boundaries are preserved, so a frame built from n batches reports n
// chunks until it is rechunked.
type Accumulator struct {
	schema *frame.Schema
	df     *frame.DataFrame
}

// NewAccumulator returns an empty accumulator. The first pushed batch
// fixes the schema.
func NewAccumulator() *Accumulator { return &Accumulator{} }

// Push converts rec and appends its rows below the accumulated ones.
// Batches after the first must convert to the same schema.
func (a *Accumulator) Push(rec arrow.RecordBatch) error {
	if a.schema == nil {
		fs, err := SchemaToFrame(rec.Schema())
		if err != nil {
			return err
		}
		a.schema = fs
		a.df = frame.EmptyDataFrame(fs)
	}

	part, err := RecordToDataFrame(rec, a.schema)
	if err != nil {
		return err
	}
	if err := a.df.VStack(part); err != nil {
		part.Release()
		return convErr(ErrSchemaConversion, "accumulate", err)
	}
	return nil
}

// Finish hands the accumulated frame to the caller and resets the
// accumulator. Finishing before any batch was pushed fails; use
// frame.EmptyDataFrame when an empty result with a known schema is
// wanted.
func (a *Accumulator) Finish() (*frame.DataFrame, error) {
	if a.df == nil {
		return nil, convErrf(ErrSchemaConversion, "finish", "no batches accumulated")
	}
	df := a.df
	a.df = nil
	a.schema = nil
	return df, nil
}

// Release drops whatever has accumulated. Safe after Finish.
func (a *Accumulator) Release() {
	if a.df != nil {
		a.df.Release()
		a.df = nil
	}
	a.schema = nil
}

// CollectDataFrame drains a batch reader into a frame. Cancellation is
// checked between batches, never inside a conversion. An empty stream
// yields an empty frame with the reader's schema.
//
// The reader is not released; that stays with the caller.
func CollectDataFrame(ctx context.Context, r BatchReader) (*frame.DataFrame, error) {
	acc := NewAccumulator()
	defer acc.Release()

	for r.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := acc.Push(r.Batch()); err != nil {
			return nil, err
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	if acc.df == nil {
		fs, err := SchemaToFrame(r.Schema())
		if err != nil {
			return nil, err
		}
		return frame.EmptyDataFrame(fs), nil
	}
	return acc.Finish()
}
