package bridge

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isesword/arrow-frame-bridge/frame"
)

var int64Schema = arrow.NewSchema([]arrow.Field{
	{Name: "v", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
}, nil)

func int64Batch(t *testing.T, vals ...int64) arrow.RecordBatch {
	t.Helper()
	b := array.NewRecordBuilder(memory.NewGoAllocator(), int64Schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues(vals, nil)
	return b.NewRecordBatch()
}

func TestAccumulatorPreservesRowOrderAndChunks(t *testing.T) {
	acc := NewAccumulator()
	defer acc.Release()

	for _, v := range []int64{1, 2, 3} {
		rec := int64Batch(t, v)
		require.NoError(t, acc.Push(rec))
		rec.Release()
	}

	df, err := acc.Finish()
	require.NoError(t, err)
	defer df.Release()

	require.Equal(t, 3, df.Height())
	require.Equal(t, 3, df.NChunks(), "one chunk per pushed batch")

	s := df.SeriesAt(0)
	var got []int64
	for k := 0; k < s.NChunks(); k++ {
		got = append(got, s.Chunk(k).Int64s()...)
	}
	assert.Equal(t, []int64{1, 2, 3}, got, "row order must follow push order")
}

func TestAccumulatorSchemaMismatch(t *testing.T) {
	acc := NewAccumulator()
	defer acc.Release()

	rec := int64Batch(t, 1)
	require.NoError(t, acc.Push(rec))
	rec.Release()

	other := arrow.NewSchema([]arrow.Field{
		{Name: "w", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(memory.NewGoAllocator(), other)
	b.Field(0).(*array.Int64Builder).Append(9)
	bad := b.NewRecordBatch()
	b.Release()
	defer bad.Release()

	err := acc.Push(bad)
	require.Error(t, err)
	assert.Equal(t, ErrSchemaConversion, CodeOf(err))
}

func TestFinishWithoutBatches(t *testing.T) {
	acc := NewAccumulator()
	_, err := acc.Finish()
	require.Error(t, err)
}

func TestCollectDataFrame(t *testing.T) {
	batches := []arrow.RecordBatch{
		int64Batch(t, 1, 2),
		int64Batch(t, 3),
	}
	rdr := NewBatchReader(int64Schema, batches)
	for _, b := range batches {
		b.Release()
	}
	defer rdr.Release()

	df, err := CollectDataFrame(context.Background(), rdr)
	require.NoError(t, err)
	defer df.Release()

	assert.Equal(t, 3, df.Height())
	assert.Equal(t, 2, df.NChunks())
}

func TestCollectDataFrameEmptyStream(t *testing.T) {
	rdr := NewBatchReader(int64Schema, nil)
	defer rdr.Release()

	df, err := CollectDataFrame(context.Background(), rdr)
	require.NoError(t, err)
	defer df.Release()

	assert.Equal(t, 0, df.Height())
	assert.Equal(t, 1, df.Width())
	assert.True(t, frame.TypeEqual(df.SeriesAt(0).DataType(), frame.Int64()))
}

func TestCollectDataFrameCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan arrow.RecordBatch)
	rdr := NewChannelReader(ctx, int64Schema, ch)
	defer rdr.Release()

	_, err := CollectDataFrame(ctx, rdr)
	require.ErrorIs(t, err, context.Canceled)
}

func TestChannelReader(t *testing.T) {
	ch := make(chan arrow.RecordBatch, 2)
	ch <- int64Batch(t, 10)
	ch <- int64Batch(t, 20)
	close(ch)

	rdr := NewChannelReader(context.Background(), int64Schema, ch)
	defer rdr.Release()

	df, err := CollectDataFrame(context.Background(), rdr)
	require.NoError(t, err)
	defer df.Release()

	require.Equal(t, 2, df.Height())
	assert.Equal(t, int64(10), df.SeriesAt(0).Chunk(0).Int64s()[0])
	assert.Equal(t, int64(20), df.SeriesAt(0).Chunk(1).Int64s()[0])
}
