package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collection names.
const (
	usersCollection  = "users"
	eventsCollection = "events"
)

// userDoc mirrors the users collection.
type userDoc struct {
	ID             bson.ObjectID   `bson:"_id"`
	Username       string          `bson:"username"`
	Interests      []string        `bson:"interests"`
	Connections    []bson.ObjectID `bson:"connections"`
	AttendedEvents []bson.ObjectID `bson:"attendedEvents"`
}

// geoPoint is a GeoJSON point as stored under the 2dsphere index.
type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"` // [longitude, latitude]
}

// eventDoc mirrors the events collection.
type eventDoc struct {
	ID           bson.ObjectID   `bson:"_id"`
	Name         string          `bson:"name"`
	Type         string          `bson:"type"`
	Details      string          `bson:"details"`
	StartTime    time.Time       `bson:"startTime"`
	EndTime      time.Time       `bson:"endTime"`
	Location     geoPoint        `bson:"location"`
	Tags         []string        `bson:"tags"`
	Attendees    []bson.ObjectID `bson:"attendees"`
	MaxAttendees int             `bson:"maxAttendees,omitempty"`
}

// attendedDoc is the projection used when resolving attended events.
type attendedDoc struct {
	Tags      []string  `bson:"tags"`
	StartTime time.Time `bson:"startTime"`
}

// connectionsDoc is the projection used when resolving attendees.
type connectionsDoc struct {
	ID          bson.ObjectID   `bson:"_id"`
	Connections []bson.ObjectID `bson:"connections"`
}

func hexIDs(ids []bson.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
