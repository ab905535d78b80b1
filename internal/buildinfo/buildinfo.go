// Package buildinfo contains build-time metadata kept apart from user configuration
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/tphakala/weatherboard/internal/buildinfo.Version=..."
var (
	Version   = ""
	BuildDate = ""
)

const unknown = "unknown"

// Info is the metadata of the running binary.
type Info struct {
	Version   string
	BuildDate string
	GoVersion string
}

// Get returns the build metadata. Without ldflags the module version
// recorded by the Go toolchain is used.
func Get() Info {
	return resolve(Version, BuildDate, debug.ReadBuildInfo)
}

func resolve(version, buildDate string, read func() (*debug.BuildInfo, bool)) Info {
	info := Info{Version: version, BuildDate: buildDate, GoVersion: runtime.Version()}
	if info.Version == "" {
		if bi, ok := read(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.BuildDate == "" {
		info.BuildDate = unknown
	}
	return info
}

// Release is the release name reported to telemetry.
func (i Info) Release() string {
	return "weatherboard@" + i.Version
}

func (i Info) String() string {
	return fmt.Sprintf("%s (built %s, %s)", i.Version, i.BuildDate, i.GoVersion)
}
