package alert

import (
	"strconv"
	"strings"
)

// Mode selects when the alert fires.
type Mode int8

const (
	// ModeDisabled never fires.
	// Every unrecognized mode string parses to this.
	ModeDisabled Mode = iota

	// ModeBelow fires when the carbon intensity is at or below the threshold.
	ModeBelow

	// ModeAbove fires when the carbon intensity is at or above the threshold.
	ModeAbove
)

// ParseMode parses alert mode string, "below" or "above".
//
// This never fails. Unsupported strings mean the alert is disabled.
func ParseMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "below":
		return ModeBelow
	case "above":
		return ModeAbove
	default:
		return ModeDisabled
	}
}

func (m Mode) String() string {
	switch m {
	case ModeBelow:
		return "below"
	case ModeAbove:
		return "above"
	default:
		return "disabled"
	}
}

// Evaluate decides the alert state for a carbon intensity value.
func Evaluate(mode Mode, threshold, value float64) bool {
	switch mode {
	case ModeBelow:
		return value <= threshold
	case ModeAbove:
		return value >= threshold
	default:
		return false
	}
}

// Config is the alert setting. It never changes while carbonwatch is running.
type Config struct {
	Mode      Mode
	Threshold float64
}

// Evaluate is a shorthand of Evaluate(c.Mode, c.Threshold, value).
func (c Config) Evaluate(value float64) bool {
	return Evaluate(c.Mode, c.Threshold, value)
}

func (c Config) String() string {
	if c.Mode == ModeDisabled {
		return "disabled"
	}
	return c.Mode.String() + " " + strconv.FormatFloat(c.Threshold, 'f', -1, 64)
}
