package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/alert"
	"github.com/carbonwatch/carbonwatch/internal/cache"
	"github.com/carbonwatch/carbonwatch/internal/endpoint"
	"github.com/carbonwatch/carbonwatch/internal/store"
)

const (
	TestTarget = "co2signal:DE"
)

// TestServer is a carbonwatch HTTP server for tests.
type TestServer struct {
	*httptest.Server

	Cache   *cache.Cache
	Store   *store.Store
	Metrics *endpoint.Metrics
}

// StartTestServer starts a server that has no carbon intensity yet.
func StartTestServer(t testing.TB) *TestServer {
	t.Helper()

	s := NewStore(t)
	c := cache.New()
	m := endpoint.NewMetrics(TestTarget)
	s.OnRecord = append(s.OnRecord, m.ObserveRecord)

	info := endpoint.Info{
		Target:      TestTarget,
		CountryCode: "DE",
		Alert:       alert.Config{Mode: alert.ModeAbove, Threshold: 250},
		Schedule:    "5m0s",
		StartedAt:   time.Now(),
	}

	srv := httptest.NewServer(endpoint.New(c, s, info, m))
	t.Cleanup(srv.Close)

	return &TestServer{
		Server:  srv,
		Cache:   c,
		Store:   s,
		Metrics: m,
	}
}
