package contracts

import (
	"fmt"
	"runtime"
)

// Set during build using ldflags, see build.go
var (
	// Version is the release version of the programs
	Version = "1.0.0"

	// BuildTime is the RFC3339 build timestamp
	BuildTime = "unknown"

	// GitCommit is the commit the binaries were built from
	GitCommit = "unknown"
)

// WireVersion names the licensing API contract in pkg/contracts/domain
const WireVersion = "v1"

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	WireVersion  string `json:"wire_version"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		WireVersion:  WireVersion,
	}
}

// GetFullVersionString returns a one-line description of the build
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("keycratecli v%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		info.Version, info.BuildTime, info.GitCommit, info.GoVersion, info.OS, info.Architecture)
}
