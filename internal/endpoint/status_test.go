package endpoint_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/cache"
	"github.com/carbonwatch/carbonwatch/internal/testutil"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

func TestStatusTextEndpoint(t *testing.T) {
	t.Parallel()

	srv := testutil.StartTestServer(t)

	resp, body := get(t, srv.Client(), srv.URL+"/status.txt")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %s", resp.Status)
	}

	for _, want := range []string{
		"source:     co2signal:DE\n",
		"country:    DE\n",
		"schedule:   5m0s\n",
		"alert mode: above 250\n",
		"intensity:  not fetched yet\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("%q is not in the response:\n%s", want, body)
		}
	}
	if strings.Contains(body, "last refresh:") {
		t.Errorf("unexpected last refresh:\n%s", body)
	}

	srv.Cache.Set(cache.Snapshot{Intensity: 321.5, Alert: true, UpdatedAt: time.Now().Add(-3 * time.Minute)})
	srv.Store.Report(api.Record{
		Time:    time.Date(2021, 1, 2, 15, 4, 5, 0, time.UTC),
		Status:  api.StatusFailure,
		Target:  testutil.TestTarget,
		Message: "unexpected status code: 500 Internal Server Error",
	})

	_, body = get(t, srv.Client(), srv.URL+"/status.txt")

	for _, want := range []string{
		"intensity:  321.5 gCO2eq/kWh\n",
		"alert:      ACTIVE\n",
		"updated:    3 minutes ago (",
		"last refresh: FAILURE at 2021-01-02T15:04:05Z\n  unexpected status code: 500 Internal Server Error\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("%q is not in the response:\n%s", want, body)
		}
	}
}
