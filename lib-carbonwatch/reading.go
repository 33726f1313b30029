package carbonwatch

import (
	"time"
)

// Reading is the latest carbon intensity observed by a carbonwatch server.
// It is the payload of the /intensity.json endpoint.
type Reading struct {
	// CarbonIntensity is in gCO2eq/kWh.
	CarbonIntensity float64 `json:"carbon_intensity"`

	AlertActive bool `json:"alert_active"`

	// UpdatedAt is when the value was fetched from the remote service.
	UpdatedAt time.Time `json:"updated_at"`
}
