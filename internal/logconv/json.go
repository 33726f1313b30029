package logconv

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ToJSON writes records as a JSON array, one record per line.
func ToJSON(w io.Writer, s Scanner) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}

	first := true
	for s.Scan() {
		sep := ",\n  "
		if first {
			sep = "\n  "
			first = false
		}

		j, err := json.Marshal(s.Record())
		if err != nil {
			return fmt.Errorf("failed to encode log: %w", err)
		}
		if _, err := io.WriteString(w, sep+string(j)); err != nil {
			return fmt.Errorf("failed to write log: %w", err)
		}
	}

	tail := "\n]\n"
	if first {
		tail = "]\n"
	}
	if _, err := io.WriteString(w, tail); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	return nil
}
