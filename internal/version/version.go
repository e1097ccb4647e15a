// Package version holds build metadata stamped via ldflags. Both binaries
// log it at startup.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
