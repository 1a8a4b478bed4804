package repository

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ishraqsadik/touchgrass/internal/domain/model"
)

const earthRadiusMeters = 6371000

// MemoryProfileStore is an in-memory ProfileLoader used for unit
// testing service and handler logic without a running MongoDB.
type MemoryProfileStore struct {
	mu       sync.Mutex
	profiles map[string]model.UserProfile
	err      error
}

// NewMemoryProfileStore instantiates the in-memory profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]model.UserProfile)}
}

// Put stores or replaces a profile.
func (m *MemoryProfileStore) Put(profile model.UserProfile) *MemoryProfileStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
	return m
}

// WithError configures the store to fail every lookup with err.
func (m *MemoryProfileStore) WithError(err error) *MemoryProfileStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// LoadProfile implements the ProfileLoader contract.
func (m *MemoryProfileStore) LoadProfile(ctx context.Context, userID string) (model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return model.UserProfile{}, m.err
	}
	if err := ctx.Err(); err != nil {
		return model.UserProfile{}, err
	}
	profile, ok := m.profiles[userID]
	if !ok {
		return model.UserProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	return profile, nil
}

// MemoryEventStore is an in-memory EventFinder. It applies the same
// semantics as the Mongo proximity query: radius filter (haversine)
// and future start times only.
type MemoryEventStore struct {
	mu     sync.Mutex
	events []model.CandidateEvent
	err    error
}

// NewMemoryEventStore instantiates the in-memory event store.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

// Add registers a candidate event at its embedded coordinates.
func (m *MemoryEventStore) Add(event model.CandidateEvent) *MemoryEventStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m
}

// WithError configures the store to fail every query with err.
func (m *MemoryEventStore) WithError(err error) *MemoryEventStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// FindNearby implements the EventFinder contract.
func (m *MemoryEventStore) FindNearby(ctx context.Context, longitude, latitude, radiusMeters float64, now time.Time) ([]model.CandidateEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []model.CandidateEvent
	for _, e := range m.events {
		if !e.StartTime.After(now) {
			continue
		}
		if haversineMeters(latitude, longitude, e.Latitude, e.Longitude) > radiusMeters {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// haversineMeters computes the great-circle distance between two
// points in meters.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
