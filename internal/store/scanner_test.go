package store_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/store"
	"github.com/google/go-cmp/cmp"
)

func TestStore_OpenLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carbonwatch.log")
	log := `{"time":"2026-01-02T15:04:00Z", "status":"HEALTHY", "latency":12.000, "target":"co2signal:DE"}
{"time":"2026-01-02T15:09:00Z", "status":"UNKNOWN", "latency":30000.000, "target":"co2signal:DE", "message":"network error"}
{"time":"2026-01-02T15:14:00Z", "status":"HEALTHY", "latency":8.500, "target":"co2signal:DE"}
`
	if err := os.WriteFile(path, []byte(log), 0644); err != nil {
		t.Fatalf("failed to prepare log file: %s", err)
	}

	s, err := store.New(path, io.Discard)
	if err != nil {
		t.Fatalf("failed to create store: %s", err)
	}
	defer s.Close()

	scanner, err := s.OpenLog(
		time.Date(2026, 1, 2, 15, 5, 0, 0, time.UTC),
		time.Date(2026, 1, 2, 16, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("failed to open log: %s", err)
	}
	defer scanner.Close()

	var messages []string
	for scanner.Scan() {
		r := scanner.Record()
		messages = append(messages, r.Status.String()+" "+r.Message)
	}

	if diff := cmp.Diff([]string{"UNKNOWN network error", "HEALTHY "}, messages); diff != "" {
		t.Errorf("unexpected records\n%s", diff)
	}
}

func TestStore_OpenLog_noFile(t *testing.T) {
	s, err := store.New("", io.Discard)
	if err != nil {
		t.Fatalf("failed to create store: %s", err)
	}
	defer s.Close()

	if _, err := s.OpenLog(time.Time{}, time.Now()); !errors.Is(err, store.ErrNoLogFile) {
		t.Errorf("unexpected error: %v", err)
	}
}
