// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata in one line, for startup logs and
// the -version flag.
func String() string {
	return fmt.Sprintf("ragcore %s (commit %s, built %s)", Version, Commit, Date)
}
