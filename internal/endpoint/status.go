package endpoint

import (
	_ "embed"
	"net/http"
	"strconv"
	"text/template"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/cache"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/dustin/go-humanize"
)

//go:embed templates/status.txt
var statusTextTemplate string

var templateFuncs = template.FuncMap{
	"float": func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64)
	},
	"time2str": func(t time.Time) string {
		return t.Format(time.RFC3339)
	},
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "unknown"
		}
		return humanize.Time(t)
	},
}

type statusData struct {
	Info Info

	Snapshot cache.Snapshot
	HasValue bool

	Last    api.Record
	HasLast bool
}

// StatusTextEndpoint responds a human readable summary of carbonwatch.
func StatusTextEndpoint(c Cache, s Store, info Info) http.HandlerFunc {
	tmpl := template.Must(template.New("status.txt").Funcs(templateFuncs).Parse(statusTextTemplate))

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")

		var data statusData
		data.Info = info
		data.Snapshot, data.HasValue = c.Get()
		data.Last, data.HasLast = s.LastRecord(info.Target)

		handleError(s, "status.txt", tmpl.Execute(w, data))
	}
}
