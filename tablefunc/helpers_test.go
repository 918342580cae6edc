package tablefunc

import (
	"context"
	"io"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/quack/bridge"
	"github.com/hugr-lab/quack/interp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// versionRuntime is an interp.Runtime whose sys.version is fixed.
type versionRuntime struct {
	version any
	err     error
}

func (r versionRuntime) Lock(context.Context) (interp.Session, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r, nil
}

func (r versionRuntime) Import(_ context.Context, name string) (interp.Module, error) {
	return r, nil
}

func (r versionRuntime) Unlock() {}

func (r versionRuntime) Name() string { return interp.SysModule }

func (r versionRuntime) Attr(context.Context, string) (any, error) {
	return r.version, nil
}

func newTestHandler(mem memory.Allocator, rt interp.Runtime) *Handler {
	logger := discardLogger()
	return NewHandler(
		bridge.New(rt, bridge.WithLogger(logger)),
		WithAllocator(mem),
		WithLogger(logger),
	)
}

// sliceChunk records what a scan wrote.
type sliceChunk struct {
	values map[[2]int]any
	size   int
	sets   int
}

func newSliceChunk() *sliceChunk {
	return &sliceChunk{values: make(map[[2]int]any), size: -1}
}

func (c *sliceChunk) SetValue(col, row int, val any) error {
	c.values[[2]int{col, row}] = val
	return nil
}

func (c *sliceChunk) SetSize(size int) error {
	c.size = size
	c.sets++
	return nil
}

func (c *sliceChunk) value() string {
	s, _ := c.values[[2]int{0, 0}].(string)
	return s
}
