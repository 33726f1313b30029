package mcp

import (
	"time"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

// Source is what the MCP tools read from.
type Source interface {
	// Target returns the name of the remote data source, like "co2signal:DE".
	Target() string

	// Reading returns the latest value, or false if nothing fetched yet.
	Reading() (api.Reading, bool)

	// LastRecord returns the last Record of the target.
	LastRecord(target string) (api.Record, bool)

	// ReportInternalError reports carbonwatch internal error.
	ReportInternalError(scope, message string)

	// OpenLog opens the log for records in [since, until).
	OpenLog(since, until time.Time) (api.LogScanner, error)
}
