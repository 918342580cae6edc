// Package interp embeds a general-purpose language runtime, WebAssembly via
// wazero, behind a small capability interface.
//
// The runtime is process-wide state with an explicit lifecycle: Init
// creates it once, Shutdown tears it down. Every call into it happens
// inside a Session obtained from Runtime.Lock, which holds the runtime's
// global lock until Unlock. The lock is not reentrant.
//
// # Modules
//
// Modules are imported by name. Guest modules are WebAssembly binaries
// registered with WithModule or WithModuleFile; an attribute of a guest
// module is a nullary export returning a packed (ptr<<32 | len) location of
// a MessagePack-encoded value in the guest's exported memory. When no guest
// named "sys" is registered, a built-in "sys" module describes the runtime
// itself (attributes "version", "platform" and "implementation").
//
//	rt, err := interp.NewWasmRuntime(ctx)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close(ctx)
//
//	s, err := rt.Lock(ctx)
//	if err != nil {
//	    return err
//	}
//	defer s.Unlock()
//	sys, err := s.Import(ctx, "sys")
//	...
//	v, err := sys.Attr(ctx, "version")
//	version, err := interp.Extract[string](v)
package interp
