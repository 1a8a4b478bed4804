package config_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ishraqsadik/touchgrass/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"TOUCHGRASS_CONFIG",
		"TOUCHGRASS_ADDR",
		"TOUCHGRASS_LOG_LEVEL",
		"TOUCHGRASS_MONGO_URI",
		"TOUCHGRASS_MONGO_DATABASE",
		"TOUCHGRASS_LOOKUP_TIMEOUT_MS",
		"TOUCHGRASS_SCORING_WORKERS",
		"TOUCHGRASS_RECOMMENDATION_LIMIT",
		"TOUCHGRASS_DEFAULT_RADIUS_METERS",
		"TOUCHGRASS_MAX_RADIUS_METERS",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MongoDatabase, convey.ShouldEqual, "touchgrass")
				convey.So(cfg.LookupTimeoutMS, convey.ShouldEqual, 3000)
				convey.So(cfg.ScoringWorkers, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.RecommendationLimit, convey.ShouldEqual, 10)
				convey.So(cfg.DefaultRadiusMeters, convey.ShouldEqual, 5000)
				convey.So(cfg.MaxRadiusMeters, convey.ShouldEqual, 100_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TOUCHGRASS_ADDR", ":8080")
			_ = os.Setenv("TOUCHGRASS_MONGO_URI", "mongodb://db:27017")
			_ = os.Setenv("TOUCHGRASS_LOOKUP_TIMEOUT_MS", "1500")
			_ = os.Setenv("TOUCHGRASS_RECOMMENDATION_LIMIT", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MongoURI, convey.ShouldEqual, "mongodb://db:27017")
				convey.So(cfg.LookupTimeoutMS, convey.ShouldEqual, 1500)
				convey.So(cfg.RecommendationLimit, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yaml := "addr: \":7070\"\nmongo_database: staging\nscoring_workers: 4\n"
			err := os.WriteFile(path, []byte(yaml), 0o600)
			convey.So(err, convey.ShouldBeNil)
			_ = os.Setenv("TOUCHGRASS_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MongoDatabase, convey.ShouldEqual, "staging")
				convey.So(cfg.ScoringWorkers, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When env and file disagree", func() {
			clearConfigEnvVars()
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600)
			convey.So(err, convey.ShouldBeNil)
			_ = os.Setenv("TOUCHGRASS_CONFIG", path)
			_ = os.Setenv("TOUCHGRASS_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When a value fails validation", func() {
			clearConfigEnvVars()
			_ = os.Setenv("TOUCHGRASS_LOOKUP_TIMEOUT_MS", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading reports an invalid config", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
