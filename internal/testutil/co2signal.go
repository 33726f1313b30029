package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

const (
	// TestAPIKey is the only key FakeAPI accepts.
	TestAPIKey = "test-api-key"
)

// FakeAPI is a fake of the CO2 Signal API.
//
// Special country codes change the behaviour:
//
//	ERROR   responds 500 Internal Server Error
//	BROKEN  responds a body that is not JSON
//	EMPTY   responds JSON without data.carbonIntensity
//	STRING  responds a carbonIntensity that is not a number
//
// Any other code responds the value set by SetIntensity.
type FakeAPI struct {
	*httptest.Server

	mu        sync.Mutex
	intensity float64

	requests atomic.Int64
	headers  atomic.Pointer[http.Header]
}

func StartFakeAPI(t testing.TB, intensity float64) *FakeAPI {
	t.Helper()

	api := &FakeAPI{intensity: intensity}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Close)

	return api
}

func (a *FakeAPI) SetIntensity(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.intensity = v
}

// Requests returns the number of requests received.
func (a *FakeAPI) Requests() int64 {
	return a.requests.Load()
}

// LastHeader returns the header of the last request.
func (a *FakeAPI) LastHeader() http.Header {
	if h := a.headers.Load(); h != nil {
		return *h
	}
	return nil
}

func (a *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.requests.Add(1)
	h := r.Header.Clone()
	a.headers.Store(&h)

	if r.URL.Path != "/v1/latest" {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("auth-token") != TestAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprintln(w, `{"message":"Invalid authentication credentials"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	code := r.URL.Query().Get("countryCode")
	switch code {
	case "ERROR":
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintln(w, `{"message":"internal error"}`)
	case "BROKEN":
		fmt.Fprintln(w, `{"data":{"carbonIntensity":`)
	case "EMPTY":
		fmt.Fprintf(w, `{"countryCode":%q,"data":{},"units":{"carbonIntensity":"gCO2eq/kWh"}}`+"\n", code)
	case "STRING":
		fmt.Fprintf(w, `{"countryCode":%q,"data":{"carbonIntensity":"high"}}`+"\n", code)
	default:
		a.mu.Lock()
		v := a.intensity
		a.mu.Unlock()

		fmt.Fprintf(w, `{"_disclaimer":"test","status":"ok","countryCode":%q,"data":{"datetime":"2021-01-02T15:00:00.000Z","carbonIntensity":%v,"fossilFuelPercentage":42.1},"units":{"carbonIntensity":"gCO2eq/kWh"}}`+"\n", code, v)
	}
}
