// Package co2signal is the client of the CO2 Signal API.
package co2signal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/cwerr"
	"github.com/carbonwatch/carbonwatch/internal/meta"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/itchyny/gojq"
	"golang.org/x/net/http2"
)

const (
	DefaultBaseURL = "https://api.co2signal.com"
	DefaultQuery   = ".data.carbonIntensity"
	DefaultTimeout = 30 * time.Second

	// RESPONSE_SIZE_LIMIT is the maximum size of a response body to read.
	RESPONSE_SIZE_LIMIT = 1024 * 1024
)

var (
	ErrMissingAPIKey      = errors.New("API key is required")
	ErrMissingCountryCode = errors.New("country code is required")
)

// StatusError is the error for a response with non-2xx status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", api.ErrStatus, e.Code, http.StatusText(e.Code))
}

// Is implement for errors.Is.
func (e *StatusError) Is(err error) bool {
	return err == api.ErrStatus
}

// Config is the configuration of Client.
type Config struct {
	APIKey      string
	CountryCode string

	// BaseURL is the base URL of the API. DefaultBaseURL is used if empty.
	BaseURL string

	// Query is a jq query to pick the carbon intensity from the response. DefaultQuery is used if empty.
	Query string

	// Timeout is the timeout of a request. DefaultTimeout is used if zero.
	Timeout time.Duration
}

// Client fetches the latest carbon intensity of a country.
type Client struct {
	endpoint    *url.URL
	apiKey      string
	countryCode string
	query       *gojq.Code
	client      *http.Client
}

// New creates a new Client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, cwerr.New(api.ErrInvalidConfig, ErrMissingAPIKey, "")
	}
	if cfg.CountryCode == "" {
		return nil, cwerr.New(api.ErrInvalidConfig, ErrMissingCountryCode, "")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, cwerr.New(api.ErrInvalidConfig, err, "invalid API base URL")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, cwerr.New(api.ErrInvalidConfig, nil, "invalid API base URL: unsupported scheme: %q", base.Scheme)
	}

	endpoint, err := base.Parse("v1/latest")
	if err != nil {
		return nil, cwerr.New(api.ErrInvalidConfig, err, "invalid API base URL")
	}
	endpoint.RawQuery = url.Values{"countryCode": {cfg.CountryCode}}.Encode()

	if cfg.Query == "" {
		cfg.Query = DefaultQuery
	}
	q, err := gojq.Parse(cfg.Query)
	if err != nil {
		return nil, cwerr.New(api.ErrInvalidConfig, err, "invalid query")
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, cwerr.New(api.ErrInvalidConfig, err, "invalid query")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		endpoint:    endpoint,
		apiKey:      cfg.APIKey,
		countryCode: cfg.CountryCode,
		query:       code,
		client:      newHTTPClient(cfg.Timeout),
	}, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          4,
	}
	// Failure here only disables HTTP/2.
	_ = http2.ConfigureTransport(tr)

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}
}

// Target returns the name of the remote data source, like "co2signal:DE".
func (c *Client) Target() string {
	return "co2signal:" + c.countryCode
}

// CountryCode returns the country code to fetch.
func (c *Client) CountryCode() string {
	return c.countryCode
}

// FetchIntensity fetches the latest carbon intensity in gCO2eq/kWh.
func (c *Client) FetchIntensity(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return 0, cwerr.New(api.ErrNetwork, err, "failed to prepare request")
	}
	req.Header.Set("auth-token", c.apiKey)
	req.Header.Set("User-Agent", meta.UserAgent())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, cwerr.New(api.ErrNetwork, err, "")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || 299 < resp.StatusCode {
		io.Copy(io.Discard, io.LimitReader(resp.Body, RESPONSE_SIZE_LIMIT))
		return 0, &StatusError{Code: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, RESPONSE_SIZE_LIMIT))
	if err != nil {
		return 0, cwerr.New(api.ErrNetwork, err, "failed to read response")
	}

	return c.parse(ctx, raw)
}

func (c *Client) parse(ctx context.Context, raw []byte) (float64, error) {
	var body interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return 0, cwerr.New(api.ErrParse, err, "")
	}

	iter := c.query.RunWithContext(ctx, body)
	v, ok := iter.Next()
	if !ok {
		return 0, cwerr.New(api.ErrParse, nil, "carbon intensity is not found in the response")
	}
	if err, ok := v.(error); ok {
		return 0, cwerr.New(api.ErrParse, err, "")
	}

	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case nil:
		return 0, cwerr.New(api.ErrParse, nil, "carbon intensity is not found in the response")
	default:
		return 0, cwerr.New(api.ErrParse, nil, "carbon intensity is not a number: %v", x)
	}
}
