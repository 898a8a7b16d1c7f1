package bridge

import (
	"bytes"
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/isesword/arrow-frame-bridge/frame"
)

// IPC serialization as the copying fallback for peers that cannot share
// an address space. Chunk boundaries survive the stream: one batch per
// chunk out, one chunk per batch back in.

// DataFrameToIPC serializes the frame as an Arrow IPC stream. The frame
// is consumed.
func DataFrameToIPC(df *frame.DataFrame) ([]byte, error) {
	rdr, err := NewDataFrameReader(df)
	if err != nil {
		return nil, err
	}
	defer rdr.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(rdr.Schema()))
	for rdr.Next() {
		if err := w.Write(rdr.Batch()); err != nil {
			w.Close()
			return nil, convErr(ErrArrayConversion, "frame to ipc", err)
		}
	}
	if err := rdr.Err(); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, convErr(ErrArrayConversion, "frame to ipc", err)
	}
	return buf.Bytes(), nil
}

type ipcBatchReader struct {
	r *ipc.Reader
}

func (r ipcBatchReader) Schema() *arrow.Schema    { return r.r.Schema() }
func (r ipcBatchReader) Next() bool               { return r.r.Next() }
func (r ipcBatchReader) Batch() arrow.RecordBatch { return r.r.RecordBatch() }
func (r ipcBatchReader) Err() error               { return r.r.Err() }
func (r ipcBatchReader) Release()                 { r.r.Release() }

// DataFrameFromIPC deserializes an Arrow IPC stream into a frame.
func DataFrameFromIPC(data []byte) (*frame.DataFrame, error) {
	r, err := ipc.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, convErr(ErrSchemaConversion, "ipc to frame", err)
	}
	defer r.Release()
	return CollectDataFrame(context.Background(), ipcBatchReader{r})
}
