package quack

import (
	"database/sql"
	"fmt"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/hugr-lab/quack/bridge"
	"github.com/hugr-lab/quack/tablefunc"
)

// Register registers the table function on a DuckDB connection.
// Call it once when loading; a failure leaves nothing registered and is not retried.
//
// duckdb-go offers no hook for DuckDB destroying bind data, so a bound
// parameter returns to Config.Allocator only after the garbage collector
// reclaims its call site.
//
//	conn, err := db.Conn(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := quack.Register(conn, quack.Config{}); err != nil {
//	    log.Fatal(err)
//	}
//	// SELECT value FROM quack('world')
func Register(conn *sql.Conn, config Config) error {
	config = config.withDefaults()
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	logger := config.Logger

	handler := tablefunc.NewHandler(
		bridge.New(config.Runtime,
			bridge.WithLogger(logger),
			bridge.WithTimeout(config.CallTimeout),
		),
		tablefunc.WithAllocator(config.Allocator),
		tablefunc.WithLogger(logger),
	)

	fn, err := newTableFunction(handler, logger)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistration, err)
	}
	if err := duckdb.RegisterTableUDF(conn, config.FunctionName, fn); err != nil {
		return fmt.Errorf("%w: %v", ErrRegistration, err)
	}

	logger.Info("Table function registered",
		"name", config.FunctionName,
		"parameters", len(handler.Signature().Parameters),
	)
	return nil
}
