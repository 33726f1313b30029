package carbonwatch

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/carbonwatch/carbonwatch/internal/cwerr"
	"github.com/goccy/go-json"
)

// Fetch fetches the /intensity.json endpoint of a carbonwatch server and returns the Reading.
//
// It returns ErrServiceUnavailable if the server has not fetched any value yet.
func Fetch(ctx context.Context, u *url.URL) (Reading, error) {
	u, err := u.Parse("intensity.json")
	if err != nil {
		return Reading{}, cwerr.New(ErrCommunicate, err, "failed to parse URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Reading{}, cwerr.New(ErrCommunicate, err, "failed to prepare request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Reading{}, cwerr.New(ErrCommunicate, err, "failed to fetch")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reading{}, cwerr.New(ErrCommunicate, err, "failed to read response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusServiceUnavailable:
		return Reading{}, ErrServiceUnavailable
	default:
		return Reading{}, cwerr.New(ErrCommunicate, nil, "unexpected status: %s", resp.Status)
	}

	var r Reading
	if err = json.Unmarshal(raw, &r); err != nil {
		return Reading{}, cwerr.New(ErrCommunicate, err, "failed to parse response")
	}

	return r, nil
}

// FetchString is a shorthand of Fetch that parses the server URL.
func FetchString(ctx context.Context, server string) (Reading, error) {
	u, err := url.Parse(server)
	if err != nil {
		return Reading{}, cwerr.New(ErrCommunicate, err, "failed to parse URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Reading{}, cwerr.New(ErrCommunicate, nil, "unsupported scheme: %q", u.Scheme)
	}
	return Fetch(ctx, u)
}
