// Package version carries the build provenance printed by the version
// command. Release builds stamp the variables with
// -ldflags "-X git.home.luguber.info/inful/dockergen/internal/version.Version=v1.0.0".
package version

// Version is the release tag, or "unknown" for untagged builds.
var Version = "unknown"

// Stamped alongside Version by the release build.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
