package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ishraqsadik/touchgrass/internal/adapters/http/api"
	repository "github.com/ishraqsadik/touchgrass/internal/adapters/repository"
	service "github.com/ishraqsadik/touchgrass/internal/app"
	"github.com/ishraqsadik/touchgrass/internal/config"
	"github.com/ishraqsadik/touchgrass/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	mongoPingTimeout  = 10 * time.Second
	indexTimeout      = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Connect to MongoDB.
	client, err := mongo.Connect(mongooptions.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error(ctx, "failed to create mongo client", logger.Error(err))
		return
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error(context.Background(), "mongo disconnect failed", logger.Error(err))
		}
	}()

	pingCtx, cancelPing := context.WithTimeout(ctx, mongoPingTimeout)
	if err := client.Ping(pingCtx, nil); err != nil {
		cancelPing()
		log.Error(ctx, "failed to reach mongo", logger.String("uri", cfg.MongoURI), logger.Error(err))
		return
	}
	cancelPing()

	db := client.Database(cfg.MongoDatabase)
	profiles := repository.NewProfileStore(db)
	events := repository.NewEventStore(db)

	// The proximity query is useless without the 2dsphere index.
	indexCtx, cancelIndex := context.WithTimeout(ctx, indexTimeout)
	if err := events.EnsureIndexes(indexCtx); err != nil {
		log.Warn(ctx, "failed to ensure event indexes", logger.Error(err))
	}
	cancelIndex()

	// Create the recommendation service with configuration options.
	svc := service.New(profiles, events,
		service.WithLogger(log),
		service.WithLookupTimeout(time.Duration(cfg.LookupTimeoutMS)*time.Millisecond),
		service.WithWorkerCount(cfg.ScoringWorkers),
		service.WithLimit(cfg.RecommendationLimit),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, api.Limits{
		DefaultRadiusMeters: cfg.DefaultRadiusMeters,
		MaxRadiusMeters:     cfg.MaxRadiusMeters,
	})
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
