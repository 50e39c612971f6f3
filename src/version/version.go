package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are injected at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Resolved returns the injected version, or the module version recorded by
// `go install` when nothing was injected.
func Resolved() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String returns a human-readable version string.
func String() string {
	return fmt.Sprintf("cargo-lints %s (%s, %s)", Resolved(), Commit, BuildDate)
}
