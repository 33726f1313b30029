package endpoint

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

type healthzResponse struct {
	Status string   `json:"status"`
	Errors []string `json:"errors"`
}

func healthz(s Store) (int, healthzResponse) {
	healthy, messages := s.Errors()
	if messages == nil {
		messages = []string{}
	}

	if healthy {
		return http.StatusOK, healthzResponse{"HEALTHY", messages}
	}
	return http.StatusInternalServerError, healthzResponse{"FAILURE", messages}
}

// HealthzEndpoint is the http.HandlerFunc for /healthz page.
// It reports the health of carbonwatch itself, not of the remote service.
func HealthzEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, resp := healthz(s)

		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(code)

		fmt.Fprintln(w, resp.Status)
		for _, msg := range resp.Errors {
			fmt.Fprintln(w, msg)
		}
	}
}

// HealthzJSONEndpoint is the JSON version of HealthzEndpoint.
func HealthzJSONEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, resp := healthz(s)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)

		handleError(s, "healthz.json", json.NewEncoder(w).Encode(resp))
	}
}
