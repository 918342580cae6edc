package tablefunc

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Execute runs one complete bind, init, scan and free cycle and returns the
// produced rows as Arrow records.
// Caller MUST call reader.Release().
func Execute(ctx context.Context, h *Handler, args ...any) (array.RecordReader, error) {
	bind, err := h.Bind(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer h.FreeBind(bind)

	init, err := h.Init(ctx, bind)
	if err != nil {
		return nil, err
	}
	defer h.FreeInit(init)

	chunk := NewRecordChunk(h.Allocator(), h.Schema(), 1)
	defer chunk.Release()

	var records []arrow.RecordBatch
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()

	for {
		if err := h.Scan(ctx, bind, init, chunk); err != nil {
			return nil, err
		}
		if chunk.Size() == 0 {
			break
		}
		rec, err := chunk.NewRecordBatch()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return array.NewRecordReader(h.Schema(), records)
}
