package quack

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/hugr-lab/quack/internal/recovery"
	"github.com/hugr-lab/quack/tablefunc"
)

// newTableFunction maps the handler onto duckdb-go's chunk table function.
// Only utf8 columns and parameters are declared, so every Arrow type in the
// handler's signature and schema becomes VARCHAR.
func newTableFunction(h *tablefunc.Handler, logger *slog.Logger) (duckdb.ChunkTableFunction, error) {
	varchar, err := duckdb.NewTypeInfo(duckdb.TYPE_VARCHAR)
	if err != nil {
		return duckdb.ChunkTableFunction{}, fmt.Errorf("failed to create VARCHAR type: %w", err)
	}

	args := make([]duckdb.TypeInfo, len(h.Signature().Parameters))
	for i := range args {
		args[i] = varchar
	}

	fields := h.Schema().Fields()
	columns := make([]duckdb.ColumnInfo, len(fields))
	for i, f := range fields {
		columns[i] = duckdb.ColumnInfo{Name: f.Name, T: varchar}
	}

	return duckdb.ChunkTableFunction{
		Config: duckdb.TableFunctionConfig{
			Arguments: args,
		},
		BindArguments: func(_ map[string]any, args ...any) (duckdb.ChunkTableSource, error) {
			src, err := bindSource(h, columns, logger, args...)
			if err != nil {
				return nil, err
			}
			return src, nil
		},
	}, nil
}

// chunkSource is the bind data duckdb-go keeps for one call site.
// DuckDB calls Init once per execution and FillChunk until an empty chunk.
type chunkSource struct {
	ctx     context.Context
	handler *tablefunc.Handler
	logger  *slog.Logger
	columns []duckdb.ColumnInfo
	bind    *tablefunc.BindData

	init    *tablefunc.InitData
	initErr error
}

func bindSource(h *tablefunc.Handler, columns []duckdb.ColumnInfo, logger *slog.Logger, args ...any) (*chunkSource, error) {
	ctx := context.Background()
	bind, err := recovery.RecoverToValue(logger, "Bind", func() (*tablefunc.BindData, error) {
		return h.Bind(ctx, args...)
	})
	if err != nil {
		return nil, err
	}

	s := &chunkSource{
		ctx:     ctx,
		handler: h,
		logger:  logger,
		columns: columns,
		bind:    bind,
	}
	// duckdb-go drops its handle to s when DuckDB destroys the bind data;
	// the parameter is released once s is collected.
	runtime.AddCleanup(s, releaseBind(logger, h.FreeBind), bind)
	return s, nil
}

// releaseBind wraps free for the cleanup goroutine, where a panic would
// otherwise take the host process down.
func releaseBind(logger *slog.Logger, free func(*tablefunc.BindData)) func(*tablefunc.BindData) {
	return func(bind *tablefunc.BindData) {
		recovery.Recover(logger, "FreeBind", func() {
			free(bind)
		})
	}
}

func (s *chunkSource) ColumnInfos() []duckdb.ColumnInfo {
	return s.columns
}

func (s *chunkSource) Cardinality() *duckdb.CardinalityInfo {
	return &duckdb.CardinalityInfo{Cardinality: 1, Exact: true}
}

func (s *chunkSource) Init() {
	if s.init != nil {
		s.handler.FreeInit(s.init)
	}
	s.init, s.initErr = s.handler.Init(s.ctx, s.bind)
	if s.initErr != nil {
		s.logger.Error("Table function init failed", "bind_id", s.bind.ID, "error", s.initErr)
	}
}

func (s *chunkSource) FillChunk(chunk duckdb.DataChunk) error {
	if s.initErr != nil {
		return s.initErr
	}
	return recovery.RecoverToError(s.logger, "Scan", func() error {
		return s.handler.Scan(s.ctx, s.bind, s.init, &chunk)
	})
}
