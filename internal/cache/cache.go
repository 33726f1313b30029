// Package cache holds the latest carbon intensity.
package cache

import (
	"sync/atomic"
	"time"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

// Snapshot is the result of a successful refresh.
type Snapshot struct {
	Intensity float64
	Alert     bool
	UpdatedAt time.Time
}

// Reading converts Snapshot to the public format.
func (s Snapshot) Reading() api.Reading {
	return api.Reading{
		CarbonIntensity: s.Intensity,
		AlertActive:     s.Alert,
		UpdatedAt:       s.UpdatedAt,
	}
}

// Cache keeps the latest Snapshot.
// It starts empty, and never goes back to empty once set.
type Cache struct {
	current atomic.Pointer[Snapshot]
}

func New() *Cache {
	return &Cache{}
}

// Get returns the latest Snapshot.
// The second value is false if nothing stored yet.
func (c *Cache) Get() (Snapshot, bool) {
	p := c.current.Load()
	if p == nil {
		return Snapshot{}, false
	}
	return *p, true
}

// Set replaces the Snapshot.
func (c *Cache) Set(s Snapshot) {
	c.current.Store(&s)
}

// Intensity returns the latest carbon intensity, or api.ErrServiceUnavailable if nothing stored yet.
func (c *Cache) Intensity() (float64, error) {
	s, ok := c.Get()
	if !ok {
		return 0, api.ErrServiceUnavailable
	}
	return s.Intensity, nil
}
