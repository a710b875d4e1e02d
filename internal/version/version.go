// Package version carries the build identity stamped into release binaries.
package version

import "fmt"

// Overridden via -ldflags "-X .../internal/version.Version=..." at release time.
var (
	// Version is the semantic version of this build.
	Version = "0.1.0"

	// Commit is the short git revision the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// String renders the identity in one line for startup logs and -version.
func String() string {
	return fmt.Sprintf("clash-star-tracker %s (%s, built %s)", Version, Commit, BuildTime)
}
