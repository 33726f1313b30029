package endpoint

import (
	"fmt"
	"net/http"

	"github.com/NYTimes/gziphandler"
)

// New creates the HTTP handler of carbonwatch.
// The /metrics endpoint is not served if m is nil.
func New(c Cache, s Store, info Info, m *Metrics) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/intensity", IntensityTextEndpoint(c, s))
	mux.HandleFunc("/intensity.txt", IntensityTextEndpoint(c, s))
	mux.HandleFunc("/intensity.json", IntensityJSONEndpoint(c, s))

	mux.Handle("/status", http.RedirectHandler("/status.txt", http.StatusMovedPermanently))
	mux.HandleFunc("/status.txt", StatusTextEndpoint(c, s, info))

	if m != nil {
		mux.Handle("/metrics", m.Handler())
	}
	mux.HandleFunc("/healthz", HealthzEndpoint(s))
	mux.HandleFunc("/healthz.json", HealthzJSONEndpoint(s))
	mux.Handle("/mcp", MCPHandler(c, s, info.Target))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/status.txt", http.StatusFound)
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, "NOT FOUND")
		}
	})

	return gziphandler.GzipHandler(mux)
}

func handleError(s Store, scope string, err error) {
	if err != nil {
		s.ReportInternalError("endpoint:"+scope, err.Error())
	}
}
