// Package model contains domain models passed between layers.
package model

import "time"

// AttendedEvent is the slice of a past event the scorer cares about.
type AttendedEvent struct {
	Tags      []string
	StartTime time.Time
}

// UserProfile is a read-only snapshot of the signals a user contributes
// to scoring. Connections never include the user's own id; the
// connection-management side enforces that before data reaches us.
type UserProfile struct {
	ID             string
	Interests      []string
	AttendedEvents []AttendedEvent
	Connections    []string
}

// Attendee is a shallow view of one event attendee, enough to test
// social overlap against a profile's connection set.
type Attendee struct {
	ID          string
	Connections []string
}

// CandidateEvent is a future event returned by a proximity query,
// not yet scored. Coordinates are carried through untouched; only the
// candidate selection upstream uses them.
type CandidateEvent struct {
	ID           string
	Name         string
	Type         string
	Details      string
	Tags         []string
	StartTime    time.Time
	EndTime      time.Time
	Attendees    []Attendee
	MaxAttendees int // 0 means unspecified; scoring normalizes to the default capacity
	Longitude    float64
	Latitude     float64
}

// ScoredEvent wraps a candidate with its computed score and the
// explanation fields. It lives only for the duration of one request.
type ScoredEvent struct {
	Event             CandidateEvent
	Score             float64
	FriendsAttending  int
	MatchingInterests int
	DaysUntilEvent    float64 // rounded to 1 decimal
	FillRate          int     // 0-100 percent, rounded
}

// Recommendation is one ranked entry of the response payload: the
// candidate's data merged with its score and explanation fields.
type Recommendation struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name,omitempty"`
	Type                string    `json:"type,omitempty"`
	Details             string    `json:"details,omitempty"`
	Tags                []string  `json:"tags,omitempty"`
	StartTime           time.Time `json:"startTime"`
	EndTime             time.Time `json:"endTime,omitempty"`
	MaxAttendees        int       `json:"maxAttendees,omitempty"`
	Longitude           float64   `json:"longitude"`
	Latitude            float64   `json:"latitude"`
	AttendeeCount       int       `json:"attendeeCount"`
	RecommendationScore float64   `json:"recommendationScore"`
	FriendsAttending    int       `json:"friendsAttending"`
	MatchingInterests   int       `json:"matchingInterests"`
	DaysUntilEvent      float64   `json:"daysUntilEvent"`
	FillRate            int       `json:"fillRate"`
}
