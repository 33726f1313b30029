package co2signal_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/co2signal"
	"github.com/carbonwatch/carbonwatch/internal/testutil"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Name   string
		Config co2signal.Config
		Error  string
	}{
		{"ok", co2signal.Config{APIKey: "key", CountryCode: "DE"}, ""},
		{"custom-base", co2signal.Config{APIKey: "key", CountryCode: "DE", BaseURL: "http://localhost:1234/"}, ""},
		{"no-key", co2signal.Config{CountryCode: "DE"}, "API key is required"},
		{"no-country", co2signal.Config{APIKey: "key"}, "country code is required"},
		{"bad-scheme", co2signal.Config{APIKey: "key", CountryCode: "DE", BaseURL: "ftp://example.com"}, `invalid API base URL: unsupported scheme: "ftp"`},
		{"bad-query", co2signal.Config{APIKey: "key", CountryCode: "DE", Query: ".data["}, "invalid query: "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.Name, func(t *testing.T) {
			_, err := co2signal.New(tt.Config)
			if tt.Error == "" {
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error but got nil")
			}
			if !strings.HasPrefix(err.Error(), tt.Error) {
				t.Errorf("unexpected error\nexpected: %s\n but got: %s", tt.Error, err)
			}
			if !errors.Is(err, api.ErrInvalidConfig) {
				t.Errorf("error is not ErrInvalidConfig: %s", err)
			}
		})
	}
}

func TestClient_FetchIntensity(t *testing.T) {
	t.Parallel()

	server := testutil.StartFakeAPI(t, 123.5)

	tests := []struct {
		Country string
		APIKey  string
		Value   float64
		Kind    error
	}{
		{"DE", testutil.TestAPIKey, 123.5, nil},
		{"DE", "wrong-key", 0, api.ErrStatus},
		{"ERROR", testutil.TestAPIKey, 0, api.ErrStatus},
		{"BROKEN", testutil.TestAPIKey, 0, api.ErrParse},
		{"EMPTY", testutil.TestAPIKey, 0, api.ErrParse},
		{"STRING", testutil.TestAPIKey, 0, api.ErrParse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.Country+"/"+tt.APIKey, func(t *testing.T) {
			t.Parallel()

			c, err := co2signal.New(co2signal.Config{
				APIKey:      tt.APIKey,
				CountryCode: tt.Country,
				BaseURL:     server.URL,
			})
			if err != nil {
				t.Fatalf("failed to create client: %s", err)
			}

			v, err := c.FetchIntensity(context.Background())
			if tt.Kind == nil {
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				if v != tt.Value {
					t.Errorf("expected %v but got %v", tt.Value, v)
				}
				return
			}

			if !errors.Is(err, tt.Kind) {
				t.Errorf("expected %q error but got %v", tt.Kind, err)
			}
		})
	}
}

func TestClient_FetchIntensity_statusCode(t *testing.T) {
	t.Parallel()

	server := testutil.StartFakeAPI(t, 1)

	c, err := co2signal.New(co2signal.Config{
		APIKey:      testutil.TestAPIKey,
		CountryCode: "ERROR",
		BaseURL:     server.URL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %s", err)
	}

	_, err = c.FetchIntensity(context.Background())

	var serr *co2signal.StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StatusError but got %#v", err)
	}
	if serr.Code != http.StatusInternalServerError {
		t.Errorf("unexpected status code: %d", serr.Code)
	}
	if err.Error() != "unexpected status code: 500 Internal Server Error" {
		t.Errorf("unexpected message: %s", err)
	}
}

func TestClient_FetchIntensity_headers(t *testing.T) {
	t.Parallel()

	server := testutil.StartFakeAPI(t, 42)

	c, err := co2signal.New(co2signal.Config{
		APIKey:      testutil.TestAPIKey,
		CountryCode: "FR",
		BaseURL:     server.URL + "/",
	})
	if err != nil {
		t.Fatalf("failed to create client: %s", err)
	}

	if _, err := c.FetchIntensity(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	h := server.LastHeader()
	if h.Get("auth-token") != testutil.TestAPIKey {
		t.Errorf("unexpected auth-token: %q", h.Get("auth-token"))
	}
	if !strings.HasPrefix(h.Get("User-Agent"), "carbonwatch/") {
		t.Errorf("unexpected User-Agent: %q", h.Get("User-Agent"))
	}
	if _, err := uuid.Parse(h.Get("X-Request-Id")); err != nil {
		t.Errorf("X-Request-Id is not a UUID: %q", h.Get("X-Request-Id"))
	}

	if c.Target() != "co2signal:FR" {
		t.Errorf("unexpected target: %s", c.Target())
	}
}

func TestClient_FetchIntensity_customQuery(t *testing.T) {
	t.Parallel()

	server := testutil.StartFakeAPI(t, 100)

	c, err := co2signal.New(co2signal.Config{
		APIKey:      testutil.TestAPIKey,
		CountryCode: "DE",
		BaseURL:     server.URL,
		Query:       ".data.fossilFuelPercentage",
	})
	if err != nil {
		t.Fatalf("failed to create client: %s", err)
	}

	v, err := c.FetchIntensity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v != 42.1 {
		t.Errorf("unexpected value: %v", v)
	}
}

func TestClient_FetchIntensity_networkError(t *testing.T) {
	t.Parallel()

	server := testutil.StartFakeAPI(t, 1)
	url := server.URL
	server.Close()

	c, err := co2signal.New(co2signal.Config{
		APIKey:      testutil.TestAPIKey,
		CountryCode: "DE",
		BaseURL:     url,
		Timeout:     time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create client: %s", err)
	}

	_, err = c.FetchIntensity(context.Background())
	if !errors.Is(err, api.ErrNetwork) {
		t.Errorf("expected network error but got %v", err)
	}
}

func TestClient_FetchIntensity_canceled(t *testing.T) {
	t.Parallel()

	server := testutil.StartFakeAPI(t, 1)

	c, err := co2signal.New(co2signal.Config{
		APIKey:      testutil.TestAPIKey,
		CountryCode: "DE",
		BaseURL:     server.URL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.FetchIntensity(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context canceled but got %v", err)
	}
	if !errors.Is(err, api.ErrNetwork) {
		t.Errorf("expected network error but got %v", err)
	}
}
