// Package quack provides a DuckDB table function that greets its argument
// and reports the version of an embedded WebAssembly runtime.
//
//	SELECT value FROM quack('world');
//	-- Hello world! Interpreter Version: wazero v1.11.0 (go1.25.0 linux/amd64)
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "database/sql"
//	    "log"
//
//	    _ "github.com/duckdb/duckdb-go/v2"
//
//	    "github.com/hugr-lab/quack"
//	    "github.com/hugr-lab/quack/interp"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    if err := interp.Init(ctx); err != nil {
//	        log.Fatal(err)
//	    }
//	    defer interp.Shutdown(ctx)
//
//	    db, _ := sql.Open("duckdb", "")
//	    conn, _ := db.Conn(ctx)
//	    if err := quack.Register(conn, quack.Config{}); err != nil {
//	        log.Fatal(err)
//	    }
//	    msg, _ := quack.Call(ctx, conn, quack.DefaultFunctionName, "world")
//	    log.Println(msg)
//	}
//
// # Architecture
//
//   - tablefunc: the bind / init / scan / free lifecycle, host independent
//   - bridge: version lookup with failures downgraded to a fallback text
//   - interp: the embedded runtime (wazero) behind a lock-holding capability
//   - this package: registration with DuckDB through duckdb-go
//
// # Lifecycle
//
// DuckDB binds the call site once per query compile, initializes once per
// execution and scans until it receives an empty chunk. The bound parameter
// is released when DuckDB destroys its bind data and the Go side collects
// the source that wrapped it.
//
// # Failures
//
// Invalid arguments fail the query at bind time. A runtime that is missing,
// closed or unable to report its version never fails the query: the row
// carries "Error getting Version: <reason>" instead.
//
// # Logging
//
// Config.Logger receives all internal logging. Bind, init, scan and free are
// logged at debug level with the call-site id.
package quack
