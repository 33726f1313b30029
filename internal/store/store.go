package store

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

const (
	ERROR_HISTORY_LEN = 10
)

type RecordHandler func(api.Record)

// Store is the log handler of carbonwatch.
//
// It writes every Record to the console and the log file, and remembers the last Record of each target.
// It never restores anything from the log file, so carbonwatch always starts with empty state.
type Store struct {
	path string

	Console io.Writer

	// OnRecord handlers are called for each reported Record, in the goroutine that reported it.
	OnRecord []RecordHandler

	lastLock sync.RWMutex
	last     map[string]api.Record

	writeCh       chan<- api.Record
	writerStopped chan struct{}
	closeOnce     sync.Once

	errorsLock sync.RWMutex
	errors     []string
	healthy    bool
}

// New creates a Store.
// The log file will not be written if path is empty.
func New(path string, console io.Writer) (*Store, error) {
	ch := make(chan api.Record, 32)

	store := &Store{
		path:          path,
		Console:       console,
		last:          make(map[string]api.Record),
		writeCh:       ch,
		writerStopped: make(chan struct{}),
		healthy:       true,
	}

	if store.path != "" {
		if f, err := os.OpenFile(store.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644); err != nil {
			close(ch)
			return nil, err
		} else {
			f.Close()
		}
	}

	go store.writer(ch, store.writerStopped)

	return store, nil
}

// Path returns path to log file.
func (s *Store) Path() string {
	return s.path
}

// ReportInternalError reports an error of carbonwatch itself, like a failure of the HTTP server.
func (s *Store) ReportInternalError(scope, message string) {
	s.Report(api.Record{
		Time:    time.Now(),
		Status:  api.StatusFailure,
		Target:  "carbonwatch:" + scope,
		Message: message,
	})
}

// handleError reports an error of write a log.
// This error will reported to console in this method, and /healthz page via Store.Errors method.
func (s *Store) handleError(err error, exportableErrorMessage string) {
	if err != nil {
		s.addError(exportableErrorMessage)
		strings.NewReader(api.Record{
			Time:    time.Now(),
			Status:  api.StatusFailure,
			Target:  "carbonwatch:log",
			Message: err.Error(),
		}.String() + "\n").WriteTo(s.Console)
	}
}

func (s *Store) writer(ch <-chan api.Record, stopped chan struct{}) {
	var reader strings.Reader

	for r := range ch {
		msg := r.String() + "\n"

		reader.Reset(msg)
		reader.WriteTo(s.Console)

		if s.path == "" {
			continue
		}

		s.setHealthy()

		f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			s.handleError(err, "failed to open log file")
			continue
		}

		reader.Seek(0, io.SeekStart)
		_, err = reader.WriteTo(f)
		s.handleError(err, "failed to write log file")

		err = f.Close()
		s.handleError(err, "failed to close log file")
	}

	close(stopped)
}

// Close stops the writer after writing every reported Record.
// It is safe to call Close more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.writeCh)
		<-s.writerStopped
	})
	return nil
}

// Report reports a Record to this Store.
func (s *Store) Report(r api.Record) {
	r.Message = strings.Trim(r.Message, "\r\n")

	s.lastLock.Lock()
	s.last[r.Target] = r
	s.lastLock.Unlock()

	s.writeCh <- r

	for _, cb := range s.OnRecord {
		cb(r)
	}
}

// LastRecord returns the last Record of the target.
func (s *Store) LastRecord(target string) (api.Record, bool) {
	s.lastLock.RLock()
	defer s.lastLock.RUnlock()

	r, ok := s.last[target]
	return r, ok
}

// setHealthy is reset healthy status of this store.
// This status is reported by Errors method.
func (s *Store) setHealthy() {
	s.errorsLock.Lock()
	defer s.errorsLock.Unlock()

	s.healthy = true
}

// addError adds error message for Errors method, and set healthy status to false.
// This errors reported by Errors method.
func (s *Store) addError(message string) {
	s.errorsLock.Lock()
	defer s.errorsLock.Unlock()

	s.healthy = false
	s.errors = append(
		s.errors,
		fmt.Sprintf("%s\t%s", time.Now().Format(time.RFC3339), message),
	)

	if len(s.errors) > ERROR_HISTORY_LEN {
		s.errors = s.errors[1:]
	}
}

// Errors returns store status and error logs.
func (s *Store) Errors() (healthy bool, messages []string) {
	s.errorsLock.RLock()
	defer s.errorsLock.RUnlock()

	return s.healthy, append([]string{}, s.errors...)
}
