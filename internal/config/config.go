// Package config is the configuration file of carbonwatch.
package config

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"

	"github.com/carbonwatch/carbonwatch/internal/alert"
	"github.com/carbonwatch/carbonwatch/internal/co2signal"
	"github.com/carbonwatch/carbonwatch/internal/cwerr"
	"github.com/carbonwatch/carbonwatch/internal/schedule"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRefreshInterval is the default refresh interval in minutes.
	DefaultRefreshInterval = 5
)

// Config is the whole configuration of carbonwatch.
// The keys are the same as the CO2 Signal plugin settings.
type Config struct {
	APIKey      string `yaml:"co2signalAPIKey"`
	CountryCode string `yaml:"co2signalAPILocation"`

	// RefreshInterval is in minutes.
	RefreshInterval float64 `yaml:"apiDataRefreshInterval"`

	// Schedule overrides RefreshInterval if set. It accepts the same format as the --interval flag.
	Schedule string `yaml:"schedule,omitempty"`

	AlertMode      string  `yaml:"co2IntensityAlertingMode"`
	AlertThreshold float64 `yaml:"co2IntensityAlertThreshold"`

	APIBaseURL string   `yaml:"apiBaseURL,omitempty"`
	AlertURLs  []string `yaml:"alertURLs,omitempty"`
}

// Default returns the Config with default values.
func Default() Config {
	return Config{
		RefreshInterval: DefaultRefreshInterval,
		APIBaseURL:      co2signal.DefaultBaseURL,
	}
}

// Load reads a YAML file.
// The values not in the file are kept as the default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse parses YAML bytes. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, cwerr.New(api.ErrInvalidConfig, err, "")
	}

	return cfg, nil
}

// Validate checks the Config and reports every problem at once.
func (c Config) Validate() error {
	errs := &cwerr.ListBuilder{What: api.ErrInvalidConfig}

	if c.APIKey == "" {
		errs.Pushf("co2signalAPIKey: API key is required")
	}
	if c.CountryCode == "" {
		errs.Pushf("co2signalAPILocation: country code is required")
	}

	if _, err := c.ParseSchedule(); err != nil {
		if c.Schedule != "" {
			errs.Pushf("schedule: %s", err)
		} else {
			errs.Pushf("apiDataRefreshInterval: %s", err)
		}
	}

	if math.IsNaN(c.AlertThreshold) || math.IsInf(c.AlertThreshold, 0) {
		errs.Pushf("co2IntensityAlertThreshold: threshold must be a finite number")
	}

	if _, err := co2signal.New(c.ClientConfig()); err != nil && c.APIKey != "" && c.CountryCode != "" {
		errs.Pushf("apiBaseURL: %s", err)
	}

	if _, err := alert.NewWebhookSet(c.AlertURLs, c.AlertConfig(), nil); err != nil {
		errs.Push(err)
	}

	return errs.Build()
}

// ParseSchedule returns the refresh schedule.
func (c Config) ParseSchedule() (schedule.Schedule, error) {
	if c.Schedule != "" {
		return schedule.Parse(c.Schedule)
	}
	return schedule.FromMinutes(c.RefreshInterval)
}

// AlertConfig returns the alert setting.
// An unknown mode means the alert is disabled.
func (c Config) AlertConfig() alert.Config {
	return alert.Config{
		Mode:      alert.ParseMode(c.AlertMode),
		Threshold: c.AlertThreshold,
	}
}

// ClientConfig returns the setting of the CO2 Signal client.
func (c Config) ClientConfig() co2signal.Config {
	return co2signal.Config{
		APIKey:      c.APIKey,
		CountryCode: c.CountryCode,
		BaseURL:     c.APIBaseURL,
	}
}
