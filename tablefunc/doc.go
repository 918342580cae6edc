// Package tablefunc implements the quack table function lifecycle
// independently of any host engine.
//
// A host drives a Handler through four phases:
//
//	bind, err := h.Bind(ctx, "world")      // once per call site
//	init, err := h.Init(ctx, bind)         // once per execution
//	for {
//	    err := h.Scan(ctx, bind, init, out) // until out has size 0
//	}
//	h.FreeInit(init)
//	h.FreeBind(bind)                       // at most once matters; later calls are no-ops
//
// The single output row is "Hello {name}! Interpreter Version: {version}".
//
// BindData may serve several executions, each with its own InitData.
// One InitData MUST NOT be scanned from two goroutines at once.
package tablefunc
