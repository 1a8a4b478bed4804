// Package service provides the core recommendation service that
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	repository "github.com/ishraqsadik/touchgrass/internal/adapters/repository"
	"github.com/ishraqsadik/touchgrass/internal/domain/model"
	"github.com/ishraqsadik/touchgrass/internal/domain/ranking"
	"github.com/ishraqsadik/touchgrass/internal/domain/scoring"
	"github.com/ishraqsadik/touchgrass/pkg/logger"
	"github.com/ishraqsadik/touchgrass/pkg/metrics"
)

const (
	defaultLookupTimeout = 3 * time.Second
	msPerNanosecond      = 1e6
)

// ProfileLoader loads the user signals needed for scoring.
type ProfileLoader interface {
	// LoadProfile returns the profile for userID, or an error wrapping
	// the store's not-found sentinel when the user does not exist.
	LoadProfile(ctx context.Context, userID string) (model.UserProfile, error)
}

// EventFinder returns future events near a point, attendees resolved
// to shallow views.
type EventFinder interface {
	FindNearby(ctx context.Context, longitude, latitude, radiusMeters float64, now time.Time) ([]model.CandidateEvent, error)
}

// Request identifies the user and the search area.
type Request struct {
	UserID       string
	Longitude    float64
	Latitude     float64
	RadiusMeters float64
}

// Metadata echoes the query parameters alongside the candidate count
// before truncation.
type Metadata struct {
	TotalEvents int        `json:"totalEvents"`
	Radius      float64    `json:"radius"`
	Location    [2]float64 `json:"location"` // [longitude, latitude]
}

// Result is the ranked response payload.
type Result struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	Metadata        Metadata               `json:"metadata"`
}

// Service wires the two collaborators to the scorer and ranker. All
// state is per-request; the service itself only holds immutable
// configuration and the injected collaborators.
type Service struct {
	profiles ProfileLoader
	events   EventFinder
	scorer   *scoring.Scorer

	lookupTimeout time.Duration
	workerCount   int
	limit         int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithScorer replaces the default scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(svc *Service) {
		if s != nil {
			svc.scorer = s
		}
	}
}

// WithLookupTimeout bounds each collaborator lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(svc *Service) {
		if d > 0 {
			svc.lookupTimeout = d
		}
	}
}

// WithWorkerCount sets the per-request scoring fan-out width.
func WithWorkerCount(count int) Option {
	return func(svc *Service) {
		if count > 0 {
			svc.workerCount = count
		}
	}
}

// WithLimit caps how many recommendations a response carries.
func WithLimit(limit int) Option {
	return func(svc *Service) {
		if limit > 0 {
			svc.limit = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a Service around the two collaborators.
func New(profiles ProfileLoader, events EventFinder, opts ...Option) *Service {
	svc := &Service{
		profiles:      profiles,
		events:        events,
		scorer:        scoring.New(),
		lookupTimeout: defaultLookupTimeout,
		workerCount:   runtime.NumCPU(),
		limit:         ranking.DefaultLimit,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = logger.Get()
	}

	return svc
}

// GetRecommendations loads the profile and the nearby candidates
// concurrently, scores every candidate against the profile at now,
// and returns the ranked top entries with metadata.
//
// An unknown user surfaces as ErrUserNotFound. Everything else wraps
// ErrInternal; no partial results are returned on failure.
func (s *Service) GetRecommendations(ctx context.Context, req Request, now time.Time) (*Result, error) {
	start := time.Now()

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	// The two lookups have no ordering dependency; issue both and join
	// before scoring.
	var (
		wg         sync.WaitGroup
		profile    model.UserProfile
		profileErr error
		candidates []model.CandidateEvent
		eventsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		fetchStart := time.Now()
		profile, profileErr = s.profiles.LoadProfile(lookupCtx, req.UserID)
		metrics.RecordLookupLatency("profile", durationMS(fetchStart))
	}()
	go func() {
		defer wg.Done()
		fetchStart := time.Now()
		candidates, eventsErr = s.events.FindNearby(lookupCtx, req.Longitude, req.Latitude, req.RadiusMeters, now)
		metrics.RecordLookupLatency("events", durationMS(fetchStart))
	}()
	wg.Wait()

	if profileErr != nil {
		if errors.Is(profileErr, repository.ErrProfileNotFound) {
			metrics.RecordUnknownUser()
			s.logger.Debug(ctx, "recommendation request for unknown user",
				logger.String("userID", req.UserID),
			)
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, req.UserID)
		}
		metrics.RecordLookupError("profile")
		s.logger.Error(ctx, "profile load failed",
			logger.String("userID", req.UserID),
			logger.Error(profileErr),
		)
		return nil, fmt.Errorf("%w: load profile: %w", ErrInternal, profileErr)
	}
	if eventsErr != nil {
		metrics.RecordLookupError("events")
		s.logger.Error(ctx, "proximity query failed",
			logger.Float64("longitude", req.Longitude),
			logger.Float64("latitude", req.Latitude),
			logger.Float64("radius", req.RadiusMeters),
			logger.Error(eventsErr),
		)
		return nil, fmt.Errorf("%w: find candidates: %w", ErrInternal, eventsErr)
	}

	if len(candidates) == 0 {
		metrics.RecordEmptyCandidateSet()
	}

	scored := s.scoreAll(profile, candidates, now)
	recommendations := ranking.Rank(scored, s.limit)

	metrics.RecordRecommendationRequest()
	metrics.RecordCandidatesConsidered(len(candidates))
	metrics.RecordRecommendationsServed(len(recommendations))
	metrics.RecordRecommendationLatency(durationMS(start))

	s.logger.Debug(ctx, "recommendations computed",
		logger.String("userID", req.UserID),
		logger.Int("candidates", len(candidates)),
		logger.Int("served", len(recommendations)),
	)

	return &Result{
		Recommendations: recommendations,
		Metadata: Metadata{
			TotalEvents: len(candidates),
			Radius:      req.RadiusMeters,
			Location:    [2]float64{req.Longitude, req.Latitude},
		},
	}, nil
}

// scoreAll fans candidate scoring out across a bounded set of workers.
// Scoring is pure per candidate, so only the index is shared and each
// slot is written exactly once.
func (s *Service) scoreAll(profile model.UserProfile, candidates []model.CandidateEvent, now time.Time) []model.ScoredEvent {
	scored := make([]model.ScoredEvent, len(candidates))
	if len(candidates) == 0 {
		return scored
	}

	workers := s.workerCount
	if workers > len(candidates) {
		workers = len(candidates)
	}

	var wg sync.WaitGroup
	indexes := make(chan int)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				scored[i] = s.scorer.Score(profile, candidates[i], now)
			}
		}()
	}
	for i := range candidates {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return scored
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"workerCount":     s.workerCount,
		"limit":           s.limit,
		"lookupTimeoutMS": s.lookupTimeout.Milliseconds(),
	}
}

func durationMS(since time.Time) float64 {
	return float64(time.Since(since).Nanoseconds()) / msPerNanosecond
}
