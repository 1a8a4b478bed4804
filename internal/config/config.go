// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MongoURI is the MongoDB connection string.
	MongoURI string `koanf:"mongo_uri"`

	// MongoDatabase names the database holding users and events.
	MongoDatabase string `koanf:"mongo_database"`

	// LookupTimeoutMS bounds each collaborator lookup (profile load,
	// proximity query) in milliseconds.
	LookupTimeoutMS int `koanf:"lookup_timeout_ms"`

	// ScoringWorkers sets the per-request scoring fan-out width.
	ScoringWorkers int `koanf:"scoring_workers"`

	// RecommendationLimit caps how many events one response carries.
	RecommendationLimit int `koanf:"recommendation_limit"`

	// DefaultRadiusMeters is applied when a request omits the radius.
	DefaultRadiusMeters float64 `koanf:"default_radius_meters"`

	// MaxRadiusMeters rejects requests asking for an absurd search area.
	MaxRadiusMeters float64 `koanf:"max_radius_meters"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "touchgrass",
		LookupTimeoutMS:     3000,
		ScoringWorkers:      runtime.NumCPU(),
		RecommendationLimit: 10,
		DefaultRadiusMeters: 5000,
		MaxRadiusMeters:     100_000,
	}
}
