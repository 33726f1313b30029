package carbonwatch

const (
	// StatusUnknown means the status is UNKNOWN because carbonwatch could not reach the remote service.
	// A network problem between carbonwatch and the API is the usual reason.
	StatusUnknown Status = iota

	// StatusHealthy means the refresh succeeded and the carbon intensity value is fresh.
	StatusHealthy

	// StatusFailure means the remote service answered, but the answer was unusable.
	// For example, an unexpected status code or a broken response body.
	StatusFailure

	// StatusAborted means the refresh was ABORTED, because carbonwatch is shutting down or the tick was skipped.
	StatusAborted
)

// Status is the result status of a refresh or of an internal event.
type Status int8

// ParseStatus parses status string.
//
// If passed unsupported status, it will returns StatusUnknown.
func ParseStatus(raw string) Status {
	switch raw {
	case "HEALTHY":
		return StatusHealthy
	case "FAILURE":
		return StatusFailure
	case "ABORTED":
		return StatusAborted
	default:
		return StatusUnknown
	}
}

// UnmarshalText parses text as a Status.
//
// This function always returns nil.
// This parses as StatusUnknown instead of returns error if unsupported status passed.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// String returns the Status as a string.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "HEALTHY"
	case StatusFailure:
		return "FAILURE"
	case StatusAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText marshals Status as text.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
