package tablefunc

import (
	"sync"
)

// State is a lifecycle state of the table function.
type State int

const (
	StateUnbound State = iota
	StateBound
	StateInitialized
	StateExhausted
	StateFreed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateInitialized:
		return "initialized"
	case StateExhausted:
		return "exhausted"
	case StateFreed:
		return "freed"
	}
	return "unknown"
}

// BindData is the per-call-site state created by Bind.
// It owns the bound parameter until Free.
type BindData struct {
	// ID identifies the call site in logs.
	ID string

	mu    sync.RWMutex
	param *Param // nil once freed
}

// State returns StateBound or StateFreed.
func (b *BindData) State() State {
	if b == nil {
		return StateUnbound
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.param == nil {
		return StateFreed
	}
	return StateBound
}

// borrow returns the parameter with an extra reference.
// Caller MUST call Release on it.
func (b *BindData) borrow() (*Param, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.param == nil {
		return nil, ErrFreed
	}
	b.param.Retain()
	return b.param, nil
}

// Free drops the bind data's reference to the parameter.
// Returns false if it was already freed.
func (b *BindData) Free() bool {
	b.mu.Lock()
	p := b.param
	b.param = nil
	b.mu.Unlock()

	if p == nil {
		return false
	}
	p.Release()
	return true
}

// InitData is the per-execution state created by Init.
type InitData struct {
	cursor Cursor
}

// State returns StateInitialized or StateExhausted.
func (d *InitData) State() State {
	if d.cursor.Exhausted() {
		return StateExhausted
	}
	return StateInitialized
}
