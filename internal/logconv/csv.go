package logconv

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/goccy/go-json"
)

// ToCSV writes records as CSV with a header row.
// The extra values are packed into the last column as a JSON object.
func ToCSV(w io.Writer, s Scanner) error {
	c := csv.NewWriter(w)

	err := c.Write([]string{"time", "status", "latency", "target", "message", "extra"})
	if err != nil {
		return err
	}

	for s.Scan() {
		r := s.Record()

		var extra []byte
		if len(r.Extra) > 0 {
			// An unencodable extra becomes an empty cell.
			extra, _ = json.Marshal(r.Extra)
		}

		err := c.Write([]string{
			r.Time.Format(time.RFC3339),
			r.Status.String(),
			latencyString(r),
			r.Target,
			r.Message,
			string(extra),
		})
		if err != nil {
			return err
		}
	}

	c.Flush()
	return c.Error()
}
