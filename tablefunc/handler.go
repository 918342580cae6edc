package tablefunc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"

	"github.com/hugr-lab/quack/bridge"
)

// ValueColumn is the name of the single output column.
const ValueColumn = "value"

var (
	// ErrInvalidParameters indicates the call site arguments are invalid.
	ErrInvalidParameters = errors.New("invalid function parameters")

	// ErrAllocation indicates the parameter could not be stored.
	ErrAllocation = errors.New("failed to allocate parameter")

	// ErrEncoding indicates the parameter text is not valid UTF-8.
	ErrEncoding = errors.New("invalid parameter encoding")

	// ErrFreed indicates bind data was used after FreeBind.
	ErrFreed = errors.New("bind data already freed")

	// ErrNotBound indicates Init or Scan was called without BindData.
	ErrNotBound = errors.New("table function not bound")

	// ErrNotInitialized indicates Scan was called without InitData.
	ErrNotInitialized = errors.New("scan called before init")
)

// Signature describes the declared parameter types.
type Signature struct {
	// Parameters is list of parameter types (in order).
	Parameters []arrow.DataType
}

// Message formats the output row.
func Message(name, version string) string {
	return fmt.Sprintf("Hello %s! Interpreter Version: %s", name, version)
}

// Handler implements the table function lifecycle.
// Handler is goroutine-safe; the per-execution InitData is not.
type Handler struct {
	bridge *bridge.Bridge
	mem    memory.Allocator
	logger *slog.Logger
	schema *arrow.Schema
}

// Option configures a Handler.
type Option func(*Handler)

// WithAllocator sets the allocator for parameter buffers and records.
// Defaults to memory.DefaultAllocator.
func WithAllocator(mem memory.Allocator) Option {
	return func(h *Handler) {
		h.mem = mem
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates a Handler that reads the version through b.
func NewHandler(b *bridge.Bridge, opts ...Option) *Handler {
	h := &Handler{
		bridge: b,
		mem:    memory.DefaultAllocator,
		logger: slog.Default(),
		schema: arrow.NewSchema([]arrow.Field{
			{Name: ValueColumn, Type: arrow.BinaryTypes.String, Nullable: false},
		}, nil),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Signature returns the declared parameters: one required string.
func (h *Handler) Signature() Signature {
	return Signature{Parameters: []arrow.DataType{arrow.BinaryTypes.String}}
}

// Schema returns the output schema: one utf8 column named "value".
func (h *Handler) Schema() *arrow.Schema {
	return h.schema
}

// Allocator returns the handler's allocator.
func (h *Handler) Allocator() memory.Allocator {
	return h.mem
}

// Bind validates the call site arguments and stores the parameter.
// Exactly one non-NULL string argument is accepted.
func (h *Handler) Bind(_ context.Context, args ...any) (*BindData, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: expected 1 argument, got %d", ErrInvalidParameters, len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: expected a string argument, got %T", ErrInvalidParameters, args[0])
	}

	p, err := NewParam(h.mem, s)
	if err != nil {
		return nil, err
	}

	bind := &BindData{ID: uuid.NewString(), param: p}
	h.logger.Debug("Table function bound", "bind_id", bind.ID, "param_len", p.Len())
	return bind, nil
}

// Init starts an execution over bind.
func (h *Handler) Init(_ context.Context, bind *BindData) (*InitData, error) {
	switch bind.State() {
	case StateBound:
	case StateFreed:
		return nil, ErrFreed
	default:
		return nil, ErrNotBound
	}
	h.logger.Debug("Table function initialized", "bind_id", bind.ID)
	return &InitData{}, nil
}

// Scan writes the next batch into out: one row on the first call of an
// execution and an empty batch on every later call.
func (h *Handler) Scan(ctx context.Context, bind *BindData, init *InitData, out Chunk) error {
	if bind == nil {
		return ErrNotBound
	}
	if init == nil {
		return ErrNotInitialized
	}
	if !init.cursor.Next() {
		return out.SetSize(0)
	}

	p, err := bind.borrow()
	if err != nil {
		return err
	}
	defer p.Release()

	name, err := p.Text()
	if err != nil {
		return err
	}

	version := h.bridge.Version(ctx)
	if err := out.SetValue(0, 0, Message(name, version.Text())); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	h.logger.Debug("Table function scanned",
		"bind_id", bind.ID,
		"degraded", version.Degraded(),
	)
	return out.SetSize(1)
}

// FreeBind releases the bind data's parameter. Later calls are no-ops.
func (h *Handler) FreeBind(bind *BindData) {
	if bind == nil {
		return
	}
	if bind.Free() {
		h.logger.Debug("Bind data freed", "bind_id", bind.ID)
	}
}

// FreeInit releases init data. It owns nothing, so there is nothing to do
// beyond dropping the reference.
func (h *Handler) FreeInit(*InitData) {}
