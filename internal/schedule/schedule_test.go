package schedule_test

import (
	"math"
	"testing"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/schedule"
)

func TestParseCron(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Output string
		Error  string
	}{
		{"4values", "1 2 3 4", "1 2 3 4 ?", ""},
		{"5values", "1 2 3 4 5", "1 2 3 4 5", ""},
		{"spaces", "1  2 \t3 4", "1 2 3 4 ?", ""},
		{"3values", "1 2 3", "", "expected 4 to 5 fields, found 3: [1 2 3]"},
		{"@yearly", "@yearly", "0 0 1 1 ?", ""},
		{"@monthly", "@monthly", "0 0 1 * ?", ""},
		{"@weekly", "@weekly", "0 0 * * 0", ""},
		{"@daily", "@daily", "0 0 * * ?", ""},
		{"@hourly", "@hourly", "0 * * * ?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			s, err := schedule.ParseCron(tt.Input)
			if err != nil && err.Error() != tt.Error {
				t.Fatalf("unexpected error: expected %#v but got %#v", tt.Error, err.Error())
			}
			if err == nil && tt.Error != "" {
				t.Fatalf("expected error %#v but got nil", tt.Error)
			}

			if s.String() != tt.Output {
				t.Errorf("expected %#v but got %#v", tt.Output, s.String())
			}
		})
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Output string
		Error  bool
	}{
		{"valid", "5m", "5m0s", false},
		{"hour", "1h", "1h0m0s", false},
		{"seconds", "90s", "1m30s", false},
		{"zero", "0s", "", true},
		{"negative", "-1m", "", true},
		{"sub-second", "500ms", "", true},
		{"minimum", "1s", "1s", false},
		{"overflow", "9999999999h", "", true},
		{"invalid", "invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			s, err := schedule.ParseInterval(tt.Input)
			if (err != nil) != tt.Error {
				t.Fatalf("unexpected error: %v", err)
			}
			if err == nil && s.String() != tt.Output {
				t.Errorf("expected %#v but got %#v", tt.Output, s.String())
			}
		})
	}
}

func TestFromMinutes(t *testing.T) {
	tests := []struct {
		Input  float64
		Output time.Duration
		Error  bool
	}{
		{1, time.Minute, false},
		{10, 10 * time.Minute, false},
		{0.5, 30 * time.Second, false},
		{0.02, 1200 * time.Millisecond, false},
		{0, 0, true},
		{-3, 0, true},
		{0.01, 0, true},
		{1e-13, 0, true},
		{1e12, 0, true},
		{1e300, 0, true},
		{math.Inf(1), 0, true},
		{math.NaN(), 0, true},
	}

	for _, tt := range tests {
		s, err := schedule.FromMinutes(tt.Input)
		if (err != nil) != tt.Error {
			t.Errorf("%v: unexpected error: %v", tt.Input, err)
			continue
		}
		if s.Interval != tt.Output {
			t.Errorf("%v: expected %s but got %s", tt.Input, tt.Output, s.Interval)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Output string
		Kick   bool
		Error  bool
	}{
		{"minutes", "1", "1m0s", true, false},
		{"fraction", "2.5", "2m30s", true, false},
		{"padded", " 15 ", "15m0s", true, false},
		{"zero-minutes", "0", "", false, true},
		{"tiny-minutes", "1e-13", "", false, true},
		{"huge-minutes", "1e12", "", false, true},
		{"interval", "5m", "5m0s", true, false},
		{"short-interval", "10ms", "", false, true},
		{"cron", "0 0 * * ?", "0 0 * * ?", false, false},
		{"daily", "@daily", "0 0 * * ?", false, false},
		{"invalid", "invalid", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			s, err := schedule.Parse(tt.Input)
			if (err != nil) != tt.Error {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				return
			}
			if s.String() != tt.Output {
				t.Errorf("expected %#v but got %#v", tt.Output, s.String())
			}
			if s.NeedKickWhenStart() != tt.Kick {
				t.Errorf("expected kick=%v but got %v", tt.Kick, s.NeedKickWhenStart())
			}
		})
	}
}

func TestDefaultSchedule(t *testing.T) {
	if schedule.DefaultSchedule.String() != "5m0s" {
		t.Errorf("unexpected default schedule: %s", schedule.DefaultSchedule.String())
	}
}

func TestIntervalSchedule_Next(t *testing.T) {
	base := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		Interval time.Duration
		Want     time.Time
	}{
		{time.Minute, base.Add(60 * time.Second)},
		{5 * time.Minute, base.Add(5 * time.Minute)},
		{0, base.Add(schedule.MinInterval)},
		{-time.Hour, base.Add(schedule.MinInterval)},
	}

	for _, tt := range tests {
		got := schedule.IntervalSchedule{Interval: tt.Interval}.Next(base)
		if !got.Equal(tt.Want) {
			t.Errorf("%s: expected %s but got %s", tt.Interval, tt.Want, got)
		}
		if !got.After(base) {
			t.Errorf("%s: next must be after the base time", tt.Interval)
		}
	}
}
