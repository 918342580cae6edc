// Command quack registers the quack table function on a DuckDB database and
// prints the row it produces for a name.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jessevdk/go-flags"

	"github.com/hugr-lab/quack"
	"github.com/hugr-lab/quack/interp"
)

type options struct {
	Name     string            `short:"n" long:"name" env:"QUACK_NAME" default:"world" description:"name to greet"`
	Function string            `short:"f" long:"function" env:"QUACK_FUNCTION" default:"quack" description:"table function name"`
	DB       string            `long:"db" env:"QUACK_DB" default:"" description:"DuckDB database path, in-memory if empty"`
	Modules  map[string]string `short:"m" long:"module" env:"QUACK_MODULES" env-delim:"," description:"guest module as name:path (.wasm or .wasm.zst)"`
	Timeout  time.Duration     `long:"timeout" env:"QUACK_TIMEOUT" default:"5s" description:"version lookup timeout"`
	Dbg      bool              `long:"dbg" env:"QUACK_DEBUG" description:"debug mode"`
}

var revision = "latest"

var exitFunc = os.Exit

func main() {
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		exitFunc(1) // can be redefined in tests
	}

	logger := setupLog(opts.Dbg)
	logger.Debug("quack started", "revision", revision)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, logger, os.Stdout); err != nil {
		logger.Error("quack failed", "error", err)
		exitFunc(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger, out io.Writer) error {
	rtOpts := []interp.Option{interp.WithLogger(logger)}
	for name, path := range opts.Modules {
		rtOpts = append(rtOpts, interp.WithModuleFile(name, path))
	}
	if err := interp.Init(ctx, rtOpts...); err != nil {
		return fmt.Errorf("can't start runtime: %w", err)
	}
	defer func() {
		if err := interp.Shutdown(context.Background()); err != nil {
			logger.Warn("runtime shutdown failed", "error", err)
		}
	}()

	db, err := sql.Open("duckdb", opts.DB)
	if err != nil {
		return fmt.Errorf("can't open database: %w", err)
	}
	defer db.Close()

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("can't open connection: %w", err)
	}
	defer conn.Close()

	if err := quack.Register(conn, quack.Config{
		FunctionName: opts.Function,
		CallTimeout:  opts.Timeout,
		Logger:       logger,
	}); err != nil {
		return err
	}

	value, err := quack.Call(ctx, conn, opts.Function, opts.Name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, value)
	return err
}

func setupLog(dbg bool) *slog.Logger {
	level := slog.LevelInfo
	if dbg {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
