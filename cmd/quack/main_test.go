package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
)

func TestOptions(t *testing.T) {
	var opts options
	p := flags.NewParser(&opts, flags.PassDoubleDash)
	if _, err := p.ParseArgs([]string{"-n", "duck", "--module", "sys:/tmp/sys.wasm", "--timeout", "250ms", "--dbg"}); err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}

	if opts.Name != "duck" {
		t.Errorf("Name = %q, want duck", opts.Name)
	}
	if opts.Function != "quack" {
		t.Errorf("Function = %q, want default quack", opts.Function)
	}
	if opts.Modules["sys"] != "/tmp/sys.wasm" {
		t.Errorf("Modules = %v", opts.Modules)
	}
	if opts.Timeout != 250*time.Millisecond {
		t.Errorf("Timeout = %v, want 250ms", opts.Timeout)
	}
	if !opts.Dbg {
		t.Error("Dbg not set")
	}
}

func TestRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var out bytes.Buffer

	opts := options{Name: "world", Function: "quack"}
	if err := run(context.Background(), opts, logger, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Hello world! Interpreter Version: wazero ") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunMissingModule(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := options{
		Name:     "world",
		Function: "quack",
		Modules:  map[string]string{"sys": "/nonexistent/sys.wasm"},
	}
	if err := run(context.Background(), opts, logger, io.Discard); err == nil {
		t.Error("expected error for missing module file")
	}
}
