// Package platform resolves host-dependent facts once at startup so
// components that need them can take the answer as a constructor argument
// instead of re-deriving it per call.
package platform

import (
	"runtime"
	"strconv"
)

type Platform struct {
	goos string
}

// Detect captures the running host.
func Detect() Platform {
	return ForGOOS(runtime.GOOS)
}

// ForGOOS builds a Platform for an explicit GOOS value. Tests use this to
// exercise the Windows paths from any host.
func ForGOOS(goos string) Platform {
	return Platform{goos: goos}
}

func (p Platform) Windows() bool {
	return p.goos == "windows"
}

// PingCommand returns the echo utility invocation for this host. The whole
// invocation is bounded by the caller's context deadline; no per-reply
// timeout flag is passed because there is no portable one across POSIX
// ping variants.
func (p Platform) PingCommand(target string, count int) (string, []string) {
	if p.Windows() {
		return "ping", []string{"-n", strconv.Itoa(count), target}
	}
	return "ping", []string{"-c", strconv.Itoa(count), target}
}
