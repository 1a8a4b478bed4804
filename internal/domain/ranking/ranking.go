// Package ranking orders scored events into the final response payload.
package ranking

import (
	"math"
	"sort"

	"github.com/ishraqsadik/touchgrass/internal/domain/model"
)

// DefaultLimit caps how many recommendations a response carries.
const DefaultLimit = 10

// Rank sorts scored events by score descending, truncates to limit,
// and shapes each survivor into a Recommendation. The sort is stable:
// candidates with equal scores keep their input order. A limit of zero
// or less falls back to DefaultLimit. Pure function of its input.
func Rank(scored []model.ScoredEvent, limit int) []model.Recommendation {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ordered := make([]model.ScoredEvent, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	out := make([]model.Recommendation, len(ordered))
	for i, s := range ordered {
		out[i] = model.Recommendation{
			ID:                  s.Event.ID,
			Name:                s.Event.Name,
			Type:                s.Event.Type,
			Details:             s.Event.Details,
			Tags:                s.Event.Tags,
			StartTime:           s.Event.StartTime,
			EndTime:             s.Event.EndTime,
			MaxAttendees:        s.Event.MaxAttendees,
			Longitude:           s.Event.Longitude,
			Latitude:            s.Event.Latitude,
			AttendeeCount:       len(s.Event.Attendees),
			RecommendationScore: math.Round(s.Score*10) / 10,
			FriendsAttending:    s.FriendsAttending,
			MatchingInterests:   s.MatchingInterests,
			DaysUntilEvent:      s.DaysUntilEvent,
			FillRate:            s.FillRate,
		}
	}
	return out
}
