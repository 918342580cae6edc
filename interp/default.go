package interp

import (
	"context"
	"sync"
)

var (
	defaultMu      sync.Mutex
	defaultRuntime *WasmRuntime
)

// Init starts the process-wide runtime. Calls after the first successful
// one are no-ops until Shutdown.
func Init(ctx context.Context, opts ...Option) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRuntime != nil {
		return nil
	}
	rt, err := NewWasmRuntime(ctx, opts...)
	if err != nil {
		return err
	}
	defaultRuntime = rt
	return nil
}

// Default returns the process-wide runtime started by Init.
func Default() (Runtime, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRuntime == nil {
		return nil, ErrNotInitialized
	}
	return defaultRuntime, nil
}

// Shutdown closes the process-wide runtime. Safe to call without Init.
func Shutdown(ctx context.Context) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRuntime == nil {
		return nil
	}
	err := defaultRuntime.Close(ctx)
	defaultRuntime = nil
	return err
}

// Process returns a Runtime that resolves the process-wide runtime on every
// Lock, so a caller may hold it before Init or across Shutdown.
func Process() Runtime {
	return processRuntime{}
}

type processRuntime struct{}

func (processRuntime) Lock(ctx context.Context) (Session, error) {
	rt, err := Default()
	if err != nil {
		return nil, err
	}
	return rt.Lock(ctx)
}
