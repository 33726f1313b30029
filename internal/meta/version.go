package meta

import (
	"fmt"
)

var (
	// Version is the semantic version of carbonwatch.
	// This value is injected at build time via ldflags.
	Version = "HEAD"

	// Commit is the git commit hash.
	// This value is injected at build time via ldflags.
	Commit = "UNKNOWN"
)

// UserAgent returns the User-Agent header value for outgoing requests.
func UserAgent() string {
	return fmt.Sprintf("carbonwatch/%s", Version)
}
