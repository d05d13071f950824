// Package version reports build information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const shortRevisionLength = 7

var (
	Version   string // Set via ldflags.
	BuildDate string // Set via ldflags.

	Revision = revision()
)

// Get returns the version, falling back to the module version and then to
// the VCS revision.
func Get() string {
	if Version != "" {
		return Version
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	return Revision
}

// Info returns multi-line build information for `flip version`.
func Info() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "version:  %s\n", Get())
	fmt.Fprintf(&sb, "revision: %s\n", Revision)

	if BuildDate != "" {
		fmt.Fprintf(&sb, "built:    %s\n", BuildDate)
	}

	fmt.Fprintf(&sb, "go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	return sb.String()
}

func revision() string {
	rev := "unknown"

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	dirty := false

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), shortRevisionLength)]
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return rev + "-dirty"
	}

	return rev
}
