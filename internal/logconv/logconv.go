// Package logconv converts the carbonwatch log into other formats.
package logconv

import (
	"sort"
	"strconv"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/goccy/go-json"
)

// Scanner is the source of records. api.LogScanner satisfies it.
type Scanner interface {
	Scan() bool
	Record() api.Record
}

func latency(r api.Record) float64 {
	return float64(r.Latency.Microseconds()) / 1000
}

func latencyString(r api.Record) string {
	return strconv.FormatFloat(latency(r), 'f', 3, 64)
}

type extraValue struct {
	Key   string
	Value string
}

// readableExtra returns the extra values in key order, with non-string values encoded as JSON.
func readableExtra(r api.Record) []extraValue {
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	xs := make([]extraValue, 0, len(keys))
	for _, k := range keys {
		switch v := r.Extra[k].(type) {
		case string:
			xs = append(xs, extraValue{k, v})
		default:
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			xs = append(xs, extraValue{k, string(b)})
		}
	}
	return xs
}
