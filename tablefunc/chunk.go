package tablefunc

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Chunk is the output batch a scan writes into.
// *duckdb.DataChunk satisfies it.
type Chunk interface {
	SetValue(colIdx, rowIdx int, val any) error
	SetSize(size int) error
}

// RecordChunk is a Chunk that accumulates into Arrow records.
// Only utf8 columns are supported.
type RecordChunk struct {
	schema  *arrow.Schema
	builder *array.RecordBuilder
	cells   [][]any
	size    int
}

// NewRecordChunk creates a chunk holding up to capacity rows of schema.
// Caller MUST call Release.
func NewRecordChunk(mem memory.Allocator, schema *arrow.Schema, capacity int) *RecordChunk {
	cells := make([][]any, schema.NumFields())
	for i := range cells {
		cells[i] = make([]any, capacity)
	}
	return &RecordChunk{
		schema:  schema,
		builder: array.NewRecordBuilder(mem, schema),
		cells:   cells,
	}
}

// SetValue sets one cell of the pending batch.
func (c *RecordChunk) SetValue(colIdx, rowIdx int, val any) error {
	if colIdx < 0 || colIdx >= len(c.cells) {
		return fmt.Errorf("column index %d out of range", colIdx)
	}
	if rowIdx < 0 || rowIdx >= len(c.cells[colIdx]) {
		return fmt.Errorf("row index %d out of range", rowIdx)
	}
	switch val.(type) {
	case nil, string:
	default:
		return fmt.Errorf("column %q: unsupported value type %T", c.schema.Field(colIdx).Name, val)
	}
	c.cells[colIdx][rowIdx] = val
	return nil
}

// SetSize sets the number of rows in the pending batch.
func (c *RecordChunk) SetSize(size int) error {
	if size < 0 || (len(c.cells) > 0 && size > len(c.cells[0])) {
		return fmt.Errorf("chunk size %d out of range", size)
	}
	c.size = size
	return nil
}

// Size returns the number of rows in the pending batch.
func (c *RecordChunk) Size() int {
	return c.size
}

// NewRecordBatch moves the pending batch into a record and resets the chunk.
// Unset cells become nulls; in a non-nullable column they are an error and
// the pending batch is discarded.
// Caller MUST release the record.
func (c *RecordChunk) NewRecordBatch() (arrow.RecordBatch, error) {
	defer c.reset()

	for col, cells := range c.cells {
		f := c.schema.Field(col)
		if f.Nullable {
			continue
		}
		for row := 0; row < c.size; row++ {
			if cells[row] == nil {
				return nil, fmt.Errorf("column %q: row %d not set in non-nullable column", f.Name, row)
			}
		}
	}

	for col, cells := range c.cells {
		b := c.builder.Field(col).(*array.StringBuilder)
		for row := 0; row < c.size; row++ {
			if s, ok := cells[row].(string); ok {
				b.Append(s)
			} else {
				b.AppendNull()
			}
		}
	}
	return c.builder.NewRecordBatch(), nil
}

func (c *RecordChunk) reset() {
	for _, cells := range c.cells {
		clear(cells)
	}
	c.size = 0
}

// Release releases the underlying builder.
func (c *RecordChunk) Release() {
	c.builder.Release()
}
