package carbonwatch

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/cwerr"
	"github.com/goccy/go-json"
)

// Record is a record in the carbonwatch log.
type Record struct {
	// Time is the time the refresh started.
	Time time.Time

	Status Status

	Latency time.Duration

	// Target is what the record is about, like "co2signal:DE" or "carbonwatch:server".
	Target string

	// Message is the reason of the status, or a short summary of the refresh.
	Message string

	// Extra is the extra values of the record, like "carbon_intensity".
	Extra map[string]interface{}
}

var reservedKeys = map[string]struct{}{
	"time":    {},
	"status":  {},
	"latency": {},
	"target":  {},
	"message": {},
}

// ParseRecord parses a JSON line in the log.
func ParseRecord(s string) (Record, error) {
	var r Record
	err := r.UnmarshalJSON([]byte(s))
	return r, err
}

// MarshalJSON implements json.Marshaler.
//
// The fixed keys always come first in the same order, and extra keys follow in dictionary order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"time":"`)
	buf.WriteString(r.Time.Format(time.RFC3339))
	buf.WriteString(`", "status":"`)
	buf.WriteString(r.Status.String())
	buf.WriteString(`", "latency":`)
	buf.WriteString(strconv.FormatFloat(float64(r.Latency.Microseconds())/1000, 'f', 3, 64))

	target, err := json.Marshal(r.Target)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`, "target":`)
	buf.Write(target)

	if r.Message != "" {
		msg, err := json.Marshal(r.Message)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`, "message":`)
		buf.Write(msg)
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		if _, ok := reservedKeys[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.Extra[k])
		if err != nil {
			return nil, err
		}
		buf.WriteString(", ")
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return cwerr.New(ErrInvalidRecord, err, "")
	}

	var rec Record

	timestamp, ok := raw["time"].(string)
	if !ok {
		return cwerr.New(ErrInvalidRecord, nil, "time is required")
	}
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return cwerr.New(ErrInvalidRecord, err, "invalid time")
	}
	rec.Time = t

	if s, ok := raw["status"].(string); ok {
		rec.Status = ParseStatus(s)
	}

	if l, ok := raw["latency"].(float64); ok {
		rec.Latency = time.Duration(math.Round(l*1000)) * time.Microsecond
	}

	rec.Target, ok = raw["target"].(string)
	if !ok || rec.Target == "" {
		return cwerr.New(ErrInvalidRecord, nil, "target is required")
	}

	rec.Message, _ = raw["message"].(string)

	for k, v := range raw {
		if _, ok := reservedKeys[k]; ok {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]interface{})
		}
		rec.Extra[k] = v
	}

	*r = rec
	return nil
}

// String returns the Record as a line of the log.
func (r Record) String() string {
	bs, err := r.MarshalJSON()
	if err != nil {
		return strings.Join([]string{
			r.Time.Format(time.RFC3339),
			r.Status.String(),
			r.Target,
			r.Message,
		}, "\t")
	}
	return string(bs)
}
