package interp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"golang.org/x/sync/semaphore"

	"github.com/hugr-lab/quack/internal/modfile"
	"github.com/hugr-lab/quack/internal/msgpack"
)

// SysModule is the name of the built-in runtime information module.
const SysModule = "sys"

type options struct {
	logger   *slog.Logger
	modules  map[string][]byte
	files    map[string]string
	builtins bool
}

// Option configures a WasmRuntime.
type Option func(*options)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithModule registers a guest module binary under name.
// The binary may be raw or ZStandard-compressed.
func WithModule(name string, wasm []byte) Option {
	return func(o *options) {
		o.modules[name] = wasm
	}
}

// WithModuleFile registers the guest module stored at path under name.
func WithModuleFile(name, path string) Option {
	return func(o *options) {
		o.files[name] = path
	}
}

// WithoutBuiltins disables the built-in sys module.
func WithoutBuiltins() Option {
	return func(o *options) {
		o.builtins = false
	}
}

// WasmRuntime is a Runtime backed by a wazero runtime.
type WasmRuntime struct {
	runtime  wazero.Runtime
	lock     *semaphore.Weighted
	logger   *slog.Logger
	builtins bool

	// guarded by lock
	closed   bool
	compiled map[string]wazero.CompiledModule
	imported map[string]Module
}

// NewWasmRuntime creates a runtime and compiles all registered guest modules.
// Guest calls honor their context: when it ends the call fails and the
// guest instance is discarded.
// Caller MUST call Close to release it.
func NewWasmRuntime(ctx context.Context, opts ...Option) (*WasmRuntime, error) {
	o := options{
		logger:   slog.Default(),
		modules:  make(map[string][]byte),
		files:    make(map[string]string),
		builtins: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	for name, path := range o.files {
		data, err := modfile.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load module %q: %w", name, err)
		}
		o.modules[name] = data
	}

	// A call whose context ends is aborted and its guest instance closed.
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	r := &WasmRuntime{
		runtime:  rt,
		lock:     semaphore.NewWeighted(1),
		logger:   o.logger,
		builtins: o.builtins,
		compiled: make(map[string]wazero.CompiledModule, len(o.modules)),
		imported: make(map[string]Module),
	}

	for name, data := range o.modules {
		bin, err := modfile.Decode(data)
		if err != nil {
			rt.Close(ctx)
			return nil, fmt.Errorf("module %q: %w", name, err)
		}
		compiled, err := rt.CompileModule(ctx, bin)
		if err != nil {
			rt.Close(ctx)
			return nil, fmt.Errorf("failed to compile module %q: %w", name, err)
		}
		r.compiled[name] = compiled
	}

	r.logger.Debug("Wasm runtime started",
		"modules", len(r.compiled),
		"builtins", r.builtins,
	)
	return r, nil
}

// Lock acquires the runtime lock.
func (r *WasmRuntime) Lock(ctx context.Context) (Session, error) {
	if err := r.lock.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire interpreter lock: %w", err)
	}
	if r.closed {
		r.lock.Release(1)
		return nil, ErrNotInitialized
	}
	return &wasmSession{r: r}, nil
}

// Close waits for the current session to end and tears the runtime down.
// Later Lock calls return ErrNotInitialized.
func (r *WasmRuntime) Close(ctx context.Context) error {
	if err := r.lock.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to acquire interpreter lock: %w", err)
	}
	defer r.lock.Release(1)

	if r.closed {
		return nil
	}
	r.closed = true
	r.imported = nil
	r.compiled = nil

	r.logger.Debug("Wasm runtime closed")
	return r.runtime.Close(ctx)
}

type wasmSession struct {
	r    *WasmRuntime
	once sync.Once
	done bool
}

func (s *wasmSession) Import(ctx context.Context, name string) (Module, error) {
	if s.done {
		return nil, ErrSessionClosed
	}
	r := s.r

	if m, ok := r.imported[name]; ok {
		if g, ok := m.(*guestModule); !ok || !g.module.IsClosed() {
			return m, nil
		}
		// aborted by a cancelled call; instantiate afresh
		delete(r.imported, name)
	}

	var m Module
	if compiled, ok := r.compiled[name]; ok {
		cfg := wazero.NewModuleConfig().
			WithName(name).
			WithStartFunctions("_initialize")
		mod, err := r.runtime.InstantiateModule(ctx, compiled, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to instantiate module %q: %w", name, err)
		}
		m = &guestModule{name: name, module: mod}
	} else if name == SysModule && r.builtins {
		m = sysModule{}
	} else {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}

	r.imported[name] = m
	return m, nil
}

func (s *wasmSession) Unlock() {
	s.once.Do(func() {
		s.done = true
		s.r.lock.Release(1)
	})
}

// guestModule exposes the nullary exports of an instantiated guest as attributes.
type guestModule struct {
	name   string
	module api.Module
}

func (m *guestModule) Name() string { return m.name }

func (m *guestModule) Attr(ctx context.Context, name string) (any, error) {
	f := m.module.ExportedFunction(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrAttrNotFound, m.name, name)
	}

	results, err := f.Call(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", m.name, name, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%s.%s returned no value", m.name, name)
	}

	ptr := uint32(results[0] >> 32)
	length := uint32(results[0])
	if ptr == 0 || length == 0 {
		return nil, fmt.Errorf("%s.%s returned a null value", m.name, name)
	}

	mem := m.module.Memory()
	if mem == nil {
		return nil, fmt.Errorf("module %q exports no memory", m.name)
	}
	data, ok := mem.Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("%s.%s: value out of memory range", m.name, name)
	}

	v, err := msgpack.DecodeValue(data)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", m.name, name, err)
	}
	return v, nil
}
