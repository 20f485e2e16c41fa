// Package version exposes build-time version information for skm.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the current skm version, set at build time.
	Version = "dev"

	// GitCommit is the git commit SHA that was built, set at build time.
	GitCommit = "unknown"
)

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
}

// Get returns the version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
	}
}

// String returns the string representation of version info.
func (i Info) String() string {
	return fmt.Sprintf("skm %s (commit %s, %s)", i.Version, i.GitCommit, i.GoVersion)
}
