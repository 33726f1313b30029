package testutil

import (
	"sync"
	"testing"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

type DummyReporter struct {
	sync.Mutex

	Records []api.Record
}

func (r *DummyReporter) Report(rec api.Record) {
	r.Lock()
	defer r.Unlock()

	r.Records = append(r.Records, rec)
}

// Get returns a copy of the reported records.
func (r *DummyReporter) Get() []api.Record {
	r.Lock()
	defer r.Unlock()

	return append([]api.Record{}, r.Records...)
}

// Last returns the last reported record.
func (r *DummyReporter) Last(t testing.TB) api.Record {
	t.Helper()

	r.Lock()
	defer r.Unlock()

	if len(r.Records) == 0 {
		t.Fatalf("no record reported")
	}
	return r.Records[len(r.Records)-1]
}
