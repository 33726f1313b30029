package mcp

import (
	"maps"
	"time"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

// RecordToMap converts an api.Record to a map for jq processing.
func RecordToMap(rec api.Record) map[string]any {
	x := map[string]any{}
	maps.Copy(x, rec.Extra)

	x["time"] = rec.Time.Format(time.RFC3339)
	x["time_unix"] = int(rec.Time.Unix())
	x["status"] = rec.Status.String()
	x["latency"] = rec.Latency.String()
	x["latency_ms"] = float64(rec.Latency.Microseconds()) / 1000
	x["target"] = rec.Target
	x["message"] = rec.Message

	return x
}

// ReadingToMap converts the latest reading and the last refresh record to a map for jq processing.
// The values of the reading are null if ok is false.
func ReadingToMap(target string, r api.Reading, ok bool, last *api.Record) map[string]any {
	x := map[string]any{
		"target":           target,
		"carbon_intensity": nil,
		"alert_active":     nil,
		"updated_at":       nil,
		"last_refresh":     nil,
	}

	if ok {
		x["carbon_intensity"] = r.CarbonIntensity
		x["alert_active"] = r.AlertActive
		x["updated_at"] = r.UpdatedAt.Format(time.RFC3339)
	}

	if last != nil {
		rec := RecordToMap(*last)
		delete(rec, "target")
		x["last_refresh"] = rec
	}

	return x
}
