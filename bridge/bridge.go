// Package bridge fetches the embedded interpreter's version for the table
// function. Lookup failures never escape: they are downgraded to a Result
// that carries a diagnostic in place of the version.
package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/hugr-lab/quack/internal/recovery"
	"github.com/hugr-lab/quack/interp"
)

// FallbackPrefix starts the text of a degraded Result.
const FallbackPrefix = "Error getting Version: "

// Result is the outcome of a version lookup.
type Result struct {
	// Value is the version string. Empty when Err is set.
	Value string

	// Err is the reason the lookup failed. Nil for a successful lookup.
	Err error
}

// Degraded reports whether the lookup failed.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// Text returns the version, or the fallback diagnostic for a degraded result.
func (r Result) Text() string {
	if r.Err != nil {
		return FallbackPrefix + r.Err.Error()
	}
	return r.Value
}

// Bridge reads a string attribute from a module of the embedded runtime.
type Bridge struct {
	runtime interp.Runtime
	logger  *slog.Logger
	module  string
	attr    string
	timeout time.Duration
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithAttribute changes the module and attribute the version is read from.
// Defaults to sys.version.
func WithAttribute(module, attr string) Option {
	return func(b *Bridge) {
		b.module = module
		b.attr = attr
	}
}

// WithTimeout bounds each lookup, lock acquisition included.
// Zero leaves lookups bounded only by the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		b.timeout = d
	}
}

// New creates a Bridge over rt. A nil rt yields degraded results.
func New(rt interp.Runtime, opts ...Option) *Bridge {
	b := &Bridge{
		runtime: rt,
		logger:  slog.Default(),
		module:  interp.SysModule,
		attr:    "version",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Version looks the version up. It always returns; check Degraded for the outcome.
func (b *Bridge) Version(ctx context.Context) Result {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	v, err := recovery.RecoverToValue(b.logger, "Version", func() (string, error) {
		return b.lookup(ctx)
	})
	if err != nil {
		b.logger.Warn("Interpreter version unavailable",
			"module", b.module,
			"attr", b.attr,
			"error", err,
		)
		return Result{Err: err}
	}
	return Result{Value: v}
}

// lookup holds the runtime lock only across import and extract.
func (b *Bridge) lookup(ctx context.Context) (string, error) {
	if b.runtime == nil {
		return "", interp.ErrNotInitialized
	}

	s, err := b.runtime.Lock(ctx)
	if err != nil {
		return "", err
	}
	defer s.Unlock()

	m, err := s.Import(ctx, b.module)
	if err != nil {
		return "", err
	}
	v, err := m.Attr(ctx, b.attr)
	if err != nil {
		return "", err
	}
	return interp.Extract[string](v)
}
