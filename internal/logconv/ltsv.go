package logconv

import (
	"fmt"
	"io"
	"strings"
	"time"
)

var ltsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// ToLTSV writes records as Labeled Tab-separated Values.
func ToLTSV(w io.Writer, s Scanner) error {
	for s.Scan() {
		r := s.Record()

		_, err := fmt.Fprintf(
			w,
			"time:%s\tstatus:%s\tlatency:%s\ttarget:%s",
			r.Time.Format(time.RFC3339),
			r.Status,
			latencyString(r),
			ltsvEscaper.Replace(r.Target),
		)
		if err != nil {
			return err
		}

		if r.Message != "" {
			if _, err := fmt.Fprintf(w, "\tmessage:%s", ltsvEscaper.Replace(r.Message)); err != nil {
				return err
			}
		}

		for _, e := range readableExtra(r) {
			v := e.Value
			if _, ok := r.Extra[e.Key].(string); ok {
				// JSON encoded values are already escaped.
				v = ltsvEscaper.Replace(v)
			}
			if _, err := fmt.Fprintf(w, "\t%s:%s", e.Key, v); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}
