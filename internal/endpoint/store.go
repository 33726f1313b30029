package endpoint

import (
	"time"

	"github.com/carbonwatch/carbonwatch/internal/alert"
	"github.com/carbonwatch/carbonwatch/internal/cache"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

type Store interface {
	// LastRecord returns the last Record of the target.
	LastRecord(target string) (api.Record, bool)

	// ReportInternalError reports carbonwatch internal error.
	ReportInternalError(scope, message string)

	// Errors returns a list of internal (critical) errors.
	Errors() (healthy bool, messages []string)

	// OpenLog opens the log for records in [since, until).
	OpenLog(since, until time.Time) (api.LogScanner, error)
}

type Cache interface {
	Get() (cache.Snapshot, bool)
}

// Info is the static information about this carbonwatch instance, for the status page.
type Info struct {
	// Target is the name of the remote data source, like "co2signal:DE".
	Target string

	CountryCode string
	Alert       alert.Config
	Schedule    string
	StartedAt   time.Time
}
