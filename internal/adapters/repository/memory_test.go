package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/ishraqsadik/touchgrass/internal/adapters/repository"
	"github.com/ishraqsadik/touchgrass/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryProfileStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory profile store", t, func() {
		store := repository.NewMemoryProfileStore()

		Convey("When a stored profile is loaded", func() {
			store.Put(model.UserProfile{
				ID:          "u1",
				Interests:   []string{"music"},
				Connections: []string{"u2"},
			})

			profile, err := store.LoadProfile(ctx, "u1")

			Convey("Then the snapshot comes back intact", func() {
				So(err, ShouldBeNil)
				So(profile.ID, ShouldEqual, "u1")
				So(profile.Interests, ShouldResemble, []string{"music"})
				So(profile.Connections, ShouldResemble, []string{"u2"})
			})
		})

		Convey("When an unknown user is loaded", func() {
			_, err := store.LoadProfile(ctx, "ghost")

			Convey("Then the not-found sentinel surfaces", func() {
				So(errors.Is(err, repository.ErrProfileNotFound), ShouldBeTrue)
			})
		})

		Convey("When the store is primed with an error", func() {
			boom := errors.New("mongo down")
			store.WithError(boom)

			_, err := store.LoadProfile(ctx, "u1")

			Convey("Then every lookup fails with it", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			store.Put(model.UserProfile{ID: "u1"})
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := store.LoadProfile(cancelled, "u1")

			Convey("Then the lookup honors the context", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryEventStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// Union Square and points around Manhattan.
	const (
		centerLng = -73.9904
		centerLat = 40.7359
	)

	Convey("Given an in-memory event store", t, func() {
		store := repository.NewMemoryEventStore()

		nearFuture := model.CandidateEvent{
			ID:        "near-future",
			StartTime: now.Add(48 * time.Hour),
			Longitude: centerLng + 0.001, // ~80m east
			Latitude:  centerLat,
		}
		farFuture := model.CandidateEvent{
			ID:        "far-future",
			StartTime: now.Add(48 * time.Hour),
			Longitude: centerLng + 0.5, // ~40km east
			Latitude:  centerLat,
		}
		nearPast := model.CandidateEvent{
			ID:        "near-past",
			StartTime: now.Add(-time.Hour),
			Longitude: centerLng,
			Latitude:  centerLat,
		}
		store.Add(nearFuture).Add(farFuture).Add(nearPast)

		Convey("When querying a 5km radius", func() {
			events, err := store.FindNearby(ctx, centerLng, centerLat, 5000, now)

			Convey("Then only nearby future events are returned", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
				So(events[0].ID, ShouldEqual, "near-future")
			})
		})

		Convey("When querying a 100km radius", func() {
			events, err := store.FindNearby(ctx, centerLng, centerLat, 100_000, now)

			Convey("Then distant future events come back too, but never past ones", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 2)
			})
		})

		Convey("When nothing is in range", func() {
			events, err := store.FindNearby(ctx, 139.69, 35.68, 5000, now) // Tokyo

			Convey("Then the result is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 0)
			})
		})

		Convey("When the store is primed with an error", func() {
			boom := errors.New("query failed")
			store.WithError(boom)

			_, err := store.FindNearby(ctx, centerLng, centerLat, 5000, now)

			Convey("Then the query fails with it", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})
	})
}
