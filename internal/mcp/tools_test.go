package mcp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/mcp"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/google/go-cmp/cmp"
)

type recordScanner struct {
	records []api.Record
	index   int
}

func (s *recordScanner) Scan() bool {
	if s.index < len(s.records) {
		s.index++
		return true
	}
	return false
}

func (s *recordScanner) Record() api.Record {
	return s.records[s.index-1]
}

func (s *recordScanner) Close() error {
	return nil
}

type fakeSource struct {
	reading  *api.Reading
	last     *api.Record
	logs     []api.Record
	logError error
	errors   []string
}

func (s *fakeSource) Target() string {
	return "co2signal:DE"
}

func (s *fakeSource) Reading() (api.Reading, bool) {
	if s.reading == nil {
		return api.Reading{}, false
	}
	return *s.reading, true
}

func (s *fakeSource) LastRecord(target string) (api.Record, bool) {
	if s.last == nil || s.last.Target != target {
		return api.Record{}, false
	}
	return *s.last, true
}

func (s *fakeSource) ReportInternalError(scope, message string) {
	s.errors = append(s.errors, scope+": "+message)
}

func (s *fakeSource) OpenLog(since, until time.Time) (api.LogScanner, error) {
	if s.logError != nil {
		return nil, s.logError
	}
	var rs []api.Record
	for _, r := range s.logs {
		if !r.Time.Before(since) && r.Time.Before(until) {
			rs = append(rs, r)
		}
	}
	return &recordScanner{records: rs}, nil
}

var baseTime = time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)

func TestFetchIntensityByJQ(t *testing.T) {
	last := &api.Record{
		Time:    baseTime,
		Status:  api.StatusHealthy,
		Latency: 12 * time.Millisecond,
		Target:  "co2signal:DE",
		Extra:   map[string]any{"carbon_intensity": 312.0, "alert_active": true},
	}

	tests := []struct {
		Name   string
		Source *fakeSource
		Query  string
		Output any
	}{
		{
			Name:   "not-fetched",
			Source: &fakeSource{},
			Output: map[string]any{
				"target":           "co2signal:DE",
				"carbon_intensity": nil,
				"alert_active":     nil,
				"updated_at":       nil,
				"last_refresh":     nil,
			},
		},
		{
			Name: "fetched",
			Source: &fakeSource{
				reading: &api.Reading{CarbonIntensity: 312, AlertActive: true, UpdatedAt: baseTime},
				last:    last,
			},
			Query:  "[.carbon_intensity, .alert_active, .updated_at, .last_refresh.status, .last_refresh.latency_ms]",
			Output: []any{312.0, true, "2026-01-02T15:04:00Z", "HEALTHY", 12.0},
		},
		{
			Name: "last-refresh-has-no-target",
			Source: &fakeSource{
				reading: &api.Reading{CarbonIntensity: 312, UpdatedAt: baseTime},
				last:    last,
			},
			Query:  ".last_refresh | has(\"target\")",
			Output: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			out, err := mcp.FetchIntensityByJQ(context.Background(), tt.Source, mcp.IntensityInput{JQ: tt.Query})
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(tt.Output, out.Result); diff != "" {
				t.Errorf("unexpected output\n%s", diff)
			}
		})
	}
}

func TestFetchLogsByJQ(t *testing.T) {
	src := &fakeSource{
		logs: []api.Record{
			{Time: baseTime, Status: api.StatusHealthy, Target: "co2signal:DE", Extra: map[string]any{"carbon_intensity": 300.0}},
			{Time: baseTime.Add(5 * time.Minute), Status: api.StatusUnknown, Target: "co2signal:DE", Message: "network error"},
			{Time: baseTime.Add(10 * time.Minute), Status: api.StatusHealthy, Target: "co2signal:DE", Extra: map[string]any{"carbon_intensity": 200.0}},
			{Time: baseTime.Add(2 * time.Hour), Status: api.StatusHealthy, Target: "co2signal:DE", Extra: map[string]any{"carbon_intensity": 100.0}},
		},
	}

	tests := []struct {
		Name   string
		Input  mcp.LogsInput
		Output any
		Error  string
	}{
		{
			Name: "average",
			Input: mcp.LogsInput{
				Since: "2026-01-02T15:00:00Z",
				Until: "2026-01-02T16:00:00Z",
				JQ:    `map(select(.status == "HEALTHY") | .carbon_intensity) | add / length`,
			},
			Output: 250.0,
		},
		{
			Name: "messages",
			Input: mcp.LogsInput{
				Since: "2026-01-02T15:00:00Z",
				Until: "2026-01-02T18:00:00Z",
				JQ:    `map(select(.message != "")) | map(.message)`,
			},
			Output: []any{"network error"},
		},
		{
			Name: "empty",
			Input: mcp.LogsInput{
				Since: "2026-01-03T00:00:00Z",
				Until: "2026-01-04T00:00:00Z",
			},
			Output: []any{},
		},
		{
			Name:  "missing-period",
			Input: mcp.LogsInput{Since: "2026-01-02T15:00:00Z"},
			Error: "since and until parameters are required",
		},
		{
			Name:  "invalid-since",
			Input: mcp.LogsInput{Since: "yesterday", Until: "2026-01-02T15:00:00Z"},
			Error: `since time must be in RFC3339 format but got "yesterday"`,
		},
		{
			Name:  "invalid-query",
			Input: mcp.LogsInput{Since: "2026-01-02T15:00:00Z", Until: "2026-01-02T16:00:00Z", JQ: "{{"},
			Error: "failed to parse jq query: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			out, err := mcp.FetchLogsByJQ(context.Background(), src, tt.Input)
			if tt.Error != "" {
				if err == nil || len(err.Error()) < len(tt.Error) || err.Error()[:len(tt.Error)] != tt.Error {
					t.Fatalf("expected error starts with %q but got %v", tt.Error, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(tt.Output, out.Result); diff != "" {
				t.Errorf("unexpected output\n%s", diff)
			}
		})
	}
}

func TestFetchLogsByJQ_logUnavailable(t *testing.T) {
	src := &fakeSource{logError: errors.New("log file is disabled")}

	_, err := mcp.FetchLogsByJQ(context.Background(), src, mcp.LogsInput{
		Since: "2026-01-02T15:00:00Z",
		Until: "2026-01-02T16:00:00Z",
	})
	if err == nil || err.Error() != "log is not available" {
		t.Errorf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"mcp:query_logs: failed to open logs: log file is disabled"}, src.errors); diff != "" {
		t.Errorf("unexpected internal errors\n%s", diff)
	}
}
