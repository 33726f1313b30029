package carbonwatch

import (
	"bufio"
	"io"
	"time"
)

// LogScanner reads the carbonwatch log line by line.
type LogScanner interface {
	// Close closes the underlying reader.
	Close() error

	// Scan reads the next record. It returns false if there is no more record in the period.
	Scan() bool

	// Record returns the current record.
	Record() Record
}

type fileScanner struct {
	file    io.ReadCloser
	scanner *bufio.Scanner
	since   time.Time
	until   time.Time
	rec     Record
}

// NewLogScanner creates a LogScanner that reads every record in f.
func NewLogScanner(f io.ReadCloser) LogScanner {
	return NewLogScannerWithPeriod(f, time.Time{}, time.Unix(2<<61, 0))
}

// NewLogScannerWithPeriod creates a LogScanner that reads records in [since, until).
//
// Lines that are not valid records are skipped.
// Scanning stops at the first record at or after until, because the log is in time order.
func NewLogScannerWithPeriod(f io.ReadCloser, since, until time.Time) LogScanner {
	return &fileScanner{
		file:    f,
		scanner: bufio.NewScanner(f),
		since:   since,
		until:   until,
	}
}

func (s *fileScanner) Close() error {
	return s.file.Close()
}

func (s *fileScanner) Scan() bool {
	for s.scanner.Scan() {
		rec, err := ParseRecord(s.scanner.Text())
		if err != nil || rec.Time.Before(s.since) {
			continue
		}
		if !s.until.After(rec.Time) {
			return false
		}
		s.rec = rec
		return true
	}
	return false
}

func (s *fileScanner) Record() Record {
	return s.rec
}
