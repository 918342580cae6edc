package interp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotInitialized indicates the runtime was never started or was closed.
	ErrNotInitialized = errors.New("interpreter not initialized")

	// ErrModuleNotFound indicates Import was called with an unknown module name.
	ErrModuleNotFound = errors.New("module not found")

	// ErrAttrNotFound indicates a module has no attribute with the given name.
	ErrAttrNotFound = errors.New("attribute not found")

	// ErrTypeMismatch indicates an attribute value could not be coerced to the requested type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrSessionClosed indicates a Session was used after Unlock.
	ErrSessionClosed = errors.New("session already unlocked")
)

// Runtime is the capability to call into the embedded interpreter.
// Implementations MUST be goroutine-safe.
type Runtime interface {
	// Lock acquires the interpreter's global lock.
	// Blocks until the lock is free or ctx is done.
	// Returns ErrNotInitialized if the runtime is not running.
	Lock(ctx context.Context) (Session, error)
}

// Session is a held interpreter lock.
// Modules and values obtained through a Session MUST NOT be used after Unlock.
type Session interface {
	// Import returns the module registered under name.
	Import(ctx context.Context, name string) (Module, error)

	// Unlock releases the interpreter lock. Safe to call more than once.
	Unlock()
}

// Module is an imported interpreter module.
type Module interface {
	// Name returns the name the module was imported under.
	Name() string

	// Attr reads an attribute of the module.
	// Returns an error wrapping ErrAttrNotFound if the attribute does not exist.
	Attr(ctx context.Context, name string) (any, error)
}

// Extract coerces an attribute value to T.
// Byte slices coerce to string and every integer kind widens to int64;
// any other mismatch returns an error wrapping ErrTypeMismatch.
func Extract[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}

	var out T
	switch p := any(&out).(type) {
	case *string:
		if b, ok := v.([]byte); ok {
			*p = string(b)
			return out, nil
		}
	case *int64:
		if n, ok := toInt64(v); ok {
			*p = n
			return out, nil
		}
	}

	return out, fmt.Errorf("%w: got %T, want %T", ErrTypeMismatch, v, out)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	}
	return 0, false
}
