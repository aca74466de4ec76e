// Package version reports the build's version and commit.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/slidecast/internal/version.Version=v0.4.0 \
//	                   -X github.com/muurk/slidecast/internal/version.Commit=abc1234"
//
// Unset values are filled from the module's VCS stamp when there is one.
var (
	Version = ""
	Commit  = ""
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string
	Commit    string
	Modified  bool
	GoVersion string
	Platform  string
}

func init() {
	info := fromBuildInfo()
	if Version == "" {
		Version = info.Version
	}
	if Commit == "" {
		Commit = info.Commit
		if info.Modified {
			Commit += "-dirty"
		}
	}
}

// Get returns the build metadata.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Modified:  strings.HasSuffix(Commit, "-dirty"),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// fromBuildInfo reads the version of the main module and the VCS revision.
// Missing values come back as "dev" and "unknown".
func fromBuildInfo() Info {
	out := Info{Version: "dev", Commit: "unknown"}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		out.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) > 7 {
				out.Commit = s.Value[:7]
			} else if s.Value != "" {
				out.Commit = s.Value
			}
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}
	return out
}

// Full returns the version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// String renders the info the way `slidecast version` prints it.
func (i Info) String() string {
	return fmt.Sprintf("slidecast %s\n  commit:   %s\n  go:       %s\n  platform: %s",
		i.Version, i.Commit, i.GoVersion, i.Platform)
}
