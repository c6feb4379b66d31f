// Package version reports build information set at link time
package version

import (
	"runtime"

	"safeharbor/internal/core/lexicon"
)

// Set with -ldflags "-X 'safeharbor/internal/core/version.version=v0.1.0'"
// and likewise for commit and date
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Service        string `json:"service"`
	Version        string `json:"version"`
	Commit         string `json:"commit"`
	Date           string `json:"date"`
	GoVersion      string `json:"go_version"`
	LexiconVersion int    `json:"lexicon_version"`
}

// Info returns the build info for service
func Info(service string) BuildInfo {
	return BuildInfo{
		Service:        service,
		Version:        version,
		Commit:         commit,
		Date:           date,
		GoVersion:      runtime.Version(),
		LexiconVersion: lexicon.Version,
	}
}

// String is the one-line form used by --version
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ")"
}
