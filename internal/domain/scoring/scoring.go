// Package scoring computes relevance scores for candidate events
// against a user profile.
package scoring

import (
	"math"
	"time"

	"github.com/ishraqsadik/touchgrass/internal/domain/model"
)

// Default signal weights. Production always runs with these; options
// exist so experiments and tests can bend individual signals.
const (
	defaultInterestWeight = 2.0 // per tag shared with the user's interests
	defaultHistoryWeight  = 1.5 // per attended event sharing at least one tag
	defaultTimeOfDayBoost = 1.0 // candidate starts at an hour the user has attended before
	defaultSocialWeight   = 2.5 // per attendee in the user's connection set
	defaultSoonBoost      = 1.5 // event starts within [1,7] days
	defaultImminentBoost  = 0.5 // event starts within the next 24 hours
	defaultFillBoost      = 1.0 // fill rate in the [0.5,0.9) sweet spot
	defaultCapacity       = 100 // applied when maxAttendees is absent or non-positive
	hoursPerDay           = 24
	fillRateLow           = 0.5
	fillRateHigh          = 0.9
	soonWindowMinDays     = 1.0
	soonWindowMaxDays     = 7.0
	percentScale          = 100
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithInterestWeight overrides the per-matching-tag weight.
func WithInterestWeight(w float64) Option {
	return func(s *Scorer) {
		if w >= 0 {
			s.interestWeight = w
		}
	}
}

// WithHistoryWeight overrides the per-similar-event weight.
func WithHistoryWeight(w float64) Option {
	return func(s *Scorer) {
		if w >= 0 {
			s.historyWeight = w
		}
	}
}

// WithSocialWeight overrides the per-friend-attending weight.
func WithSocialWeight(w float64) Option {
	return func(s *Scorer) {
		if w >= 0 {
			s.socialWeight = w
		}
	}
}

// WithDefaultCapacity overrides the capacity assumed for events that
// do not declare maxAttendees.
func WithDefaultCapacity(c int) Option {
	return func(s *Scorer) {
		if c > 0 {
			s.defaultCapacity = c
		}
	}
}

// Scorer computes a deterministic score for one (profile, candidate)
// pair. It is pure: the current time is injected, nothing is read from
// the environment, and identical inputs always produce identical
// output.
type Scorer struct {
	interestWeight  float64
	historyWeight   float64
	timeOfDayBoost  float64
	socialWeight    float64
	soonBoost       float64
	imminentBoost   float64
	fillBoost       float64
	defaultCapacity int
}

// New creates a Scorer with the default weights.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		interestWeight:  defaultInterestWeight,
		historyWeight:   defaultHistoryWeight,
		timeOfDayBoost:  defaultTimeOfDayBoost,
		socialWeight:    defaultSocialWeight,
		soonBoost:       defaultSoonBoost,
		imminentBoost:   defaultImminentBoost,
		fillBoost:       defaultFillBoost,
		defaultCapacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes the weighted multi-signal score for event against
// profile at the given wall-clock time. Missing optional fields on
// either side contribute zero rather than failing; the result is
// always non-negative.
func (s *Scorer) Score(profile model.UserProfile, event model.CandidateEvent, now time.Time) model.ScoredEvent {
	var score float64

	// Interest overlap: tags the candidate shares with the profile.
	interests := toSet(profile.Interests)
	matchingTags := 0
	for _, tag := range event.Tags {
		if interests[tag] {
			matchingTags++
		}
	}
	score += float64(matchingTags) * s.interestWeight

	// Historical similarity: attended events sharing at least one tag.
	eventTags := toSet(event.Tags)
	similarEvents := 0
	for _, attended := range profile.AttendedEvents {
		if sharesTag(eventTags, attended.Tags) {
			similarEvents++
		}
	}
	score += float64(similarEvents) * s.historyWeight

	// Time-of-day preference: hours at which the user has shown up before.
	if attendedAtHour(profile.AttendedEvents, event.StartTime.Local().Hour()) {
		score += s.timeOfDayBoost
	}

	// Social proof: connections among the attendees.
	connections := toSet(profile.Connections)
	friendsAttending := 0
	for _, attendee := range event.Attendees {
		if connections[attendee.ID] {
			friendsAttending++
		}
	}
	score += float64(friendsAttending) * s.socialWeight

	// Recency window: soon but not too soon. Both ends of the [1,7]
	// band are inclusive.
	daysUntil := event.StartTime.Sub(now).Hours() / hoursPerDay
	switch {
	case daysUntil >= soonWindowMinDays && daysUntil <= soonWindowMaxDays:
		score += s.soonBoost
	case daysUntil < soonWindowMinDays:
		score += s.imminentBoost
	}

	// Fill-rate sweet spot: filling up, still joinable. Half-open
	// interval so a 90%-full event gets nothing.
	capacity := event.MaxAttendees
	if capacity <= 0 {
		capacity = s.defaultCapacity
	}
	fillRate := float64(len(event.Attendees)) / float64(capacity)
	if fillRate >= fillRateLow && fillRate < fillRateHigh {
		score += s.fillBoost
	}

	return model.ScoredEvent{
		Event:             event,
		Score:             score,
		FriendsAttending:  friendsAttending,
		MatchingInterests: matchingTags,
		DaysUntilEvent:    roundTo1(daysUntil),
		FillRate:          int(math.Round(fillRate * percentScale)),
	}
}

// toSet builds a membership set from a slice of identifiers or tags.
func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// sharesTag reports whether any of tags is present in set.
func sharesTag(set map[string]bool, tags []string) bool {
	for _, tag := range tags {
		if set[tag] {
			return true
		}
	}
	return false
}

// attendedAtHour reports whether any attended event started at hour
// (local time, 0-23).
func attendedAtHour(attended []model.AttendedEvent, hour int) bool {
	for _, e := range attended {
		if e.StartTime.Local().Hour() == hour {
			return true
		}
	}
	return false
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
