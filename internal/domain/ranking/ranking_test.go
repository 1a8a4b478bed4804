package ranking_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ishraqsadik/touchgrass/internal/domain/model"
	ranking "github.com/ishraqsadik/touchgrass/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func scoredWith(id string, score float64) model.ScoredEvent {
	return model.ScoredEvent{
		Event: model.CandidateEvent{ID: id, Name: "event " + id},
		Score: score,
	}
}

func TestRank(t *testing.T) {
	Convey("Given a list of scored events", t, func() {
		Convey("When ranking events with distinct scores", func() {
			scored := []model.ScoredEvent{
				scoredWith("low", 1.5),
				scoredWith("high", 9.0),
				scoredWith("mid", 4.0),
			}

			ranked := ranking.Rank(scored, ranking.DefaultLimit)

			Convey("Then they come back in descending score order", func() {
				So(len(ranked), ShouldEqual, 3)
				So(ranked[0].ID, ShouldEqual, "high")
				So(ranked[1].ID, ShouldEqual, "mid")
				So(ranked[2].ID, ShouldEqual, "low")
			})

			Convey("And the input slice is left untouched", func() {
				So(scored[0].Event.ID, ShouldEqual, "low")
			})
		})

		Convey("When two events score exactly equal", func() {
			scored := []model.ScoredEvent{
				scoredWith("first", 0),
				scoredWith("second", 0),
				scoredWith("winner", 3.5),
			}

			ranked := ranking.Rank(scored, ranking.DefaultLimit)

			Convey("Then the tied events keep their input order", func() {
				So(ranked[0].ID, ShouldEqual, "winner")
				So(ranked[1].ID, ShouldEqual, "first")
				So(ranked[2].ID, ShouldEqual, "second")
			})
		})

		Convey("When 15 candidates are ranked", func() {
			scored := make([]model.ScoredEvent, 15)
			for i := range scored {
				scored[i] = scoredWith(fmt.Sprintf("e%d", i), float64(i))
			}

			ranked := ranking.Rank(scored, ranking.DefaultLimit)

			Convey("Then exactly 10 survive", func() {
				So(len(ranked), ShouldEqual, 10)
				So(ranked[0].ID, ShouldEqual, "e14")
				So(ranked[9].ID, ShouldEqual, "e5")
			})
		})

		Convey("When the list is empty", func() {
			ranked := ranking.Rank(nil, ranking.DefaultLimit)

			Convey("Then the result is empty, not nil-panicking", func() {
				So(len(ranked), ShouldEqual, 0)
			})
		})

		Convey("When the limit is non-positive", func() {
			scored := make([]model.ScoredEvent, 12)
			for i := range scored {
				scored[i] = scoredWith(fmt.Sprintf("e%d", i), float64(i))
			}

			Convey("Then the default limit applies", func() {
				So(len(ranking.Rank(scored, 0)), ShouldEqual, 10)
				So(len(ranking.Rank(scored, -4)), ShouldEqual, 10)
			})
		})

		Convey("When shaping the payload", func() {
			start := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)
			scored := []model.ScoredEvent{{
				Event: model.CandidateEvent{
					ID:           "e1",
					Name:         "park run",
					Tags:         []string{"outdoor"},
					StartTime:    start,
					MaxAttendees: 25,
					Attendees:    []model.Attendee{{ID: "u2"}, {ID: "u3"}},
					Longitude:    -73.98,
					Latitude:     40.73,
				},
				Score:             7.04,
				FriendsAttending:  1,
				MatchingInterests: 1,
				DaysUntilEvent:    3.2,
				FillRate:          8,
			}}

			ranked := ranking.Rank(scored, ranking.DefaultLimit)

			Convey("Then event data and explanation fields are merged", func() {
				So(len(ranked), ShouldEqual, 1)
				entry := ranked[0]
				So(entry.ID, ShouldEqual, "e1")
				So(entry.Name, ShouldEqual, "park run")
				So(entry.StartTime, ShouldEqual, start)
				So(entry.AttendeeCount, ShouldEqual, 2)
				So(entry.RecommendationScore, ShouldEqual, 7.0)
				So(entry.FriendsAttending, ShouldEqual, 1)
				So(entry.MatchingInterests, ShouldEqual, 1)
				So(entry.DaysUntilEvent, ShouldEqual, 3.2)
				So(entry.FillRate, ShouldEqual, 8)
			})
		})
	})
}
