// Package version holds build metadata set through -ldflags.
package version

import "runtime"

var (
	// Current is overridden at build time:
	// -ldflags "-X github.com/schoolit/servicedesk/internal/shared/version.Current=v1.2.0"
	Current = "dev"
	Commit  = "unknown"
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Version:   Current,
		Commit:    Commit,
		GoVersion: runtime.Version(),
	}
}
