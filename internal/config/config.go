// Package config defines the record keeper configuration and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional .env file, an optional YAML file and env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

import "fmt"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir is the directory holding one JSON document per tournament.
	DataDir string `koanf:"data_dir"`

	// RosterDB is the SQLite file backing the player roster.
	RosterDB string `koanf:"roster_db"`

	// DefaultRounds is used when a tournament is created without an explicit round count.
	DefaultRounds int `koanf:"default_rounds"`

	// DefaultTimeControl is used when a tournament is created without a time control.
	DefaultTimeControl string `koanf:"default_time_control"`

	// ByePoints is credited to the player left unpaired in a round with an odd roster.
	// Zero keeps the historical behaviour of silently dropping that player.
	ByePoints float64 `koanf:"bye_points"`

	// MetricsFile, when set, receives a Prometheus text dump on exit.
	MetricsFile string `koanf:"metrics_file"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBuckets overrides the latency histogram buckets, in milliseconds.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`

	// MetricsLabels are constant labels added to every metric, e.g. the club.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// Seed fixes the round-1 shuffle. Zero means time based.
	Seed int64 `koanf:"seed"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		DataDir:            "data/tournaments",
		RosterDB:           "data/roster.db",
		DefaultRounds:      4,
		DefaultTimeControl: "rapid",
		ByePoints:          0,
		MetricsNamespace:   "chess",
		MetricsSubsystem:   "tournament",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.DefaultRounds <= 0 {
		return fmt.Errorf("%w: default_rounds must be positive, got %d", ErrInvalidConfig, c.DefaultRounds)
	}
	if c.ByePoints < 0 || c.ByePoints > 1 {
		return fmt.Errorf("%w: bye_points must be within [0, 1], got %v", ErrInvalidConfig, c.ByePoints)
	}
	return nil
}
