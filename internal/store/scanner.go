package store

import (
	"errors"
	"os"
	"time"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

var (
	// ErrNoLogFile means the Store was created without log file, so there is nothing to read.
	ErrNoLogFile = errors.New("log file is disabled")
)

// OpenLog opens the log file and returns a scanner for records in [since, until).
//
// Records that are still in the write queue are not visible.
func (s *Store) OpenLog(since, until time.Time) (api.LogScanner, error) {
	if s.path == "" {
		return nil, ErrNoLogFile
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}

	return api.NewLogScannerWithPeriod(f, since, until), nil
}
