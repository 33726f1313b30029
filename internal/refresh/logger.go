package refresh

import (
	"fmt"
	"time"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

// cronLogger reports the events of cron to the record log.
// Only skipped ticks and errors are reported.
type cronLogger struct {
	target   string
	reporter Reporter
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg != "skip" {
		return
	}

	l.reporter.Report(api.Record{
		Time:    time.Now(),
		Status:  api.StatusAborted,
		Target:  l.target,
		Message: "skipped because the previous refresh is still running",
	})
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.reporter.Report(api.Record{
		Time:    time.Now(),
		Status:  api.StatusFailure,
		Target:  l.target,
		Message: fmt.Sprintf("%s: %s", msg, err),
	})
}
