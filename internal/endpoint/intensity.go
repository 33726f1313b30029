package endpoint

import (
	"fmt"
	"net/http"
	"strconv"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/goccy/go-json"
)

// IntensityTextEndpoint responds the latest carbon intensity as a plain number.
func IntensityTextEndpoint(c Cache, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.Header().Set("Cache-Control", "no-cache")

		snap, ok := c.Get()
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := fmt.Fprintln(w, "SERVICE UNAVAILABLE")
			handleError(s, "intensity.txt", err)
			return
		}

		_, err := fmt.Fprintln(w, strconv.FormatFloat(snap.Intensity, 'f', -1, 64))
		handleError(s, "intensity.txt", err)
	}
}

// IntensityJSONEndpoint responds the latest carbon intensity and the alert state as api.Reading.
func IntensityJSONEndpoint(c Cache, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET")

		enc := json.NewEncoder(w)

		snap, ok := c.Get()
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			handleError(s, "intensity.json", enc.Encode(map[string]string{
				"error": api.ErrServiceUnavailable.Error(),
			}))
			return
		}

		handleError(s, "intensity.json", enc.Encode(snap.Reading()))
	}
}
