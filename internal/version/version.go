// Package version reports the build version of essctl.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Name is the program name shown in version output and user agents.
const Name = "essctl"

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/essctl/essctl/internal/version.Version=v1.2.3 \
//	                   -X github.com/essctl/essctl/internal/version.Commit=abc123"
//
// Otherwise they are filled from the module and VCS build info, falling
// back to "dev" and "unknown".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			fromBuildInfo(info)
		}
	}

	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills unset values from Go's build info. A module version
// is used when installed with "go install ...@version"; local builds get a
// dev version stamped with the commit date.
func fromBuildInfo(info *debug.BuildInfo) {
	var revision, modified, vcsTime string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if Commit == "" && revision != "" {
		Commit = revision[:min(len(revision), 7)]
		if modified == "true" {
			Commit += "-dirty"
		}
	}

	if Version != "" {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
		return
	}
	if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
		Version = "dev-" + t.UTC().Format("20060102")
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent identifies essctl in HTTP requests to a switch.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s/%s)", Name, Version, runtime.GOOS, runtime.GOARCH)
}
