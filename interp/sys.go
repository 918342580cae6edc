package interp

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
)

const wazeroPath = "github.com/tetratelabs/wazero"

// sysModule is the built-in module describing the runtime itself.
type sysModule struct{}

func (sysModule) Name() string { return SysModule }

func (sysModule) Attr(_ context.Context, name string) (any, error) {
	switch name {
	case "version":
		return fmt.Sprintf("%s %s (%s)", implementation, wazeroVersion(), platform()), nil
	case "implementation":
		return implementation, nil
	case "platform":
		return platform(), nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrAttrNotFound, SysModule, name)
}

const implementation = "wazero"

func platform() string {
	return runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH
}

func wazeroVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path != wazeroPath {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}
