/*
Package version holds build information for focus-ask.

Values are injected with ldflags:

	go build -ldflags "-X github.com/khanglvm/focus-ask/internal/version.Version=v0.3.0"

Unset values describe a development build.
*/
package version

import "runtime"

var (
	// Version is the release tag, e.g. v0.3.0.
	Version = "dev"
	// Commit is the short git hash.
	Commit = "none"
	// Date is the UTC build date (YYYY-MM-DD).
	Date = "unknown"
)

// Info is the build information exposed over the CLI, MCP and HTTP.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
}

// String formats the build information for --version output.
func (i Info) String() string {
	if i.Version == "dev" {
		return "dev (development build)"
	}
	return i.Version + " (commit: " + i.Commit + ", built: " + i.Date + ")"
}

// IsDev reports whether this is an unreleased build.
func (i Info) IsDev() bool {
	return i.Version == "dev"
}
