package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jgoulah/ratecompare/internal/holiday"
	"github.com/jgoulah/ratecompare/internal/rates"
)

// Config holds the application configuration
type Config struct {
	Database string           `yaml:"database,omitempty"` // sqlite file for imported samples
	Rates    RatesConfig      `yaml:"rates,omitempty"`
	Tiers    TiersConfig      `yaml:"tiers,omitempty"`
	Holidays map[int][]string `yaml:"holidays,omitempty"` // extra holidays by year, YYYY-MM-DD
	MQTT     MQTTConfig       `yaml:"mqtt,omitempty"`
}

// RatesConfig overrides per-kWh rates; zero keeps the default
type RatesConfig struct {
	OffPeak   float64 `yaml:"off_peak,omitempty"`
	MidPeak   float64 `yaml:"mid_peak,omitempty"`
	OnPeak    float64 `yaml:"on_peak,omitempty"`
	ULO       float64 `yaml:"ulo,omitempty"`
	ULOOnPeak float64 `yaml:"ulo_on_peak,omitempty"`
	Tier1     float64 `yaml:"tier1,omitempty"`
	Tier2     float64 `yaml:"tier2,omitempty"`
}

// TiersConfig overrides the monthly tier-1 allowances
type TiersConfig struct {
	WinterThresholdKWh float64 `yaml:"winter_threshold_kwh,omitempty"`
	SummerThresholdKWh float64 `yaml:"summer_threshold_kwh,omitempty"`
}

// MQTTConfig holds MQTT broker configuration for publishing summaries
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// MQTT credentials may be present
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// Validate checks the tariff overrides and holiday dates
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Tariff().Validate(); err != nil {
		return err
	}
	if _, err := c.HolidayCalendar(); err != nil {
		return err
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return errors.New("mqtt.broker is required when mqtt is enabled")
	}
	return nil
}

// GetDatabase returns the database path with a default of data.db
func (c *Config) GetDatabase() string {
	if c.Database == "" {
		return "data.db"
	}
	return c.Database
}

// GetTopicPrefix returns the MQTT topic prefix with a default of ratecompare
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "ratecompare"
	}
	return c.MQTT.TopicPrefix
}

// Tariff returns the default tariff with any configured overrides applied
func (c *Config) Tariff() rates.Tariff {
	return rates.DefaultTariff().Merge(rates.Tariff{
		OffPeak:   c.Rates.OffPeak,
		MidPeak:   c.Rates.MidPeak,
		OnPeak:    c.Rates.OnPeak,
		ULO:       c.Rates.ULO,
		ULOOnPeak: c.Rates.ULOOnPeak,
		Tier1:     c.Rates.Tier1,
		Tier2:     c.Rates.Tier2,

		WinterThresholdKWh: c.Tiers.WinterThresholdKWh,
		SummerThresholdKWh: c.Tiers.SummerThresholdKWh,
	})
}

// Resolved returns a copy with every default written out, for saving a
// starting config
func (c *Config) Resolved() *Config {
	t := c.Tariff()
	out := *c
	out.Database = c.GetDatabase()
	out.Rates = RatesConfig{
		OffPeak:   t.OffPeak,
		MidPeak:   t.MidPeak,
		OnPeak:    t.OnPeak,
		ULO:       t.ULO,
		ULOOnPeak: t.ULOOnPeak,
		Tier1:     t.Tier1,
		Tier2:     t.Tier2,
	}
	out.Tiers = TiersConfig{
		WinterThresholdKWh: t.WinterThresholdKWh,
		SummerThresholdKWh: t.SummerThresholdKWh,
	}
	out.MQTT.TopicPrefix = c.GetTopicPrefix()
	return &out
}

// HolidayCalendar returns the built-in holiday calendar plus configured holidays
func (c *Config) HolidayCalendar() (*holiday.Calendar, error) {
	cal := holiday.Default()
	for year, dates := range c.Holidays {
		if err := cal.AddDates(year, dates...); err != nil {
			return nil, fmt.Errorf("holidays: %w", err)
		}
	}
	return cal, nil
}
