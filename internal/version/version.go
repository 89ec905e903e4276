// Package version reports the build identity of the binary. Release builds
// set the variables with
//
//	-ldflags "-X github.com/HerbHall/contactbook/internal/version.Version=1.2.0"
//
// and plain go builds fall back to the VCS stamp in the module build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

func commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	if bi, ok := readBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return GitCommit
}

// Short is the bare version, sent in the X-ContactBook-Version header.
func Short() string { return Version }

// Info is the line printed by the version command.
func Info() string {
	return fmt.Sprintf("ContactBook %s (commit: %s, built: %s, go: %s)",
		Version, commit(), BuildDate, runtime.Version())
}

// Map is the version block of the health response.
func Map() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": commit(),
		"build_date": BuildDate,
		"go_version": runtime.Version(),
	}
}
