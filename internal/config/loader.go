package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TOUCHGRASS_CONFIG is set
//  3. env (prefix TOUCHGRASS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TOUCHGRASS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TOUCHGRASS_ADDR, TOUCHGRASS_MONGO_URI, ...
	// Map env keys like TOUCHGRASS_MONGO_URI -> mongo_uri (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("TOUCHGRASS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "touchgrass_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MongoURI == "":
		return fmt.Errorf("%w: mongo_uri must not be empty", ErrInvalidConfig)
	case c.MongoDatabase == "":
		return fmt.Errorf("%w: mongo_database must not be empty", ErrInvalidConfig)
	case c.LookupTimeoutMS <= 0:
		return fmt.Errorf("%w: lookup_timeout_ms must be positive", ErrInvalidConfig)
	case c.ScoringWorkers <= 0:
		return fmt.Errorf("%w: scoring_workers must be positive", ErrInvalidConfig)
	case c.RecommendationLimit <= 0:
		return fmt.Errorf("%w: recommendation_limit must be positive", ErrInvalidConfig)
	case c.DefaultRadiusMeters <= 0:
		return fmt.Errorf("%w: default_radius_meters must be positive", ErrInvalidConfig)
	case c.MaxRadiusMeters < c.DefaultRadiusMeters:
		return fmt.Errorf("%w: max_radius_meters must be at least default_radius_meters", ErrInvalidConfig)
	}
	return nil
}
