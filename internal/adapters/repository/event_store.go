package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ishraqsadik/touchgrass/internal/domain/model"
)

// EventStore answers proximity queries against the events collection.
// The 2dsphere index on location does the geospatial work; this store
// only adds the future-start filter and resolves attendee documents
// into shallow {id, connections} views.
type EventStore struct {
	events *mongo.Collection
	users  *mongo.Collection
}

// NewEventStore creates an EventStore over db.
func NewEventStore(db *mongo.Database) *EventStore {
	return &EventStore{
		events: db.Collection(eventsCollection),
		users:  db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the geospatial and start-time indexes the
// proximity query depends on. Safe to call on every startup.
func (s *EventStore) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "startTime", Value: 1}}},
	}
	if _, err := s.events.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create event indexes: %w", err)
	}
	return nil
}

// FindNearby returns every event within radiusMeters of the point that
// starts after now, nearest first, attendees resolved.
func (s *EventStore) FindNearby(ctx context.Context, longitude, latitude, radiusMeters float64, now time.Time) ([]model.CandidateEvent, error) {
	filter := bson.M{
		"location": bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{longitude, latitude},
				},
				"$maxDistance": radiusMeters,
			},
		},
		"startTime": bson.M{"$gt": now},
	}

	cursor, err := s.events.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find nearby events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode nearby events: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	attendees, err := s.resolveAttendees(ctx, docs)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.CandidateEvent, len(docs))
	for i, d := range docs {
		candidates[i] = toCandidate(d, attendees)
	}
	return candidates, nil
}

// resolveAttendees loads the shallow views for every attendee across
// all candidates in one query, keyed by hex id.
func (s *EventStore) resolveAttendees(ctx context.Context, docs []eventDoc) (map[string]model.Attendee, error) {
	seen := make(map[bson.ObjectID]bool)
	var ids []bson.ObjectID
	for _, d := range docs {
		for _, id := range d.Attendees {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return map[string]model.Attendee{}, nil
	}

	opts := options.Find().SetProjection(bson.M{"connections": 1})
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find attendees: %w", err)
	}
	defer cursor.Close(ctx)

	var users []connectionsDoc
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode attendees: %w", err)
	}

	out := make(map[string]model.Attendee, len(users))
	for _, u := range users {
		out[u.ID.Hex()] = model.Attendee{
			ID:          u.ID.Hex(),
			Connections: hexIDs(u.Connections),
		}
	}
	return out, nil
}

func toCandidate(d eventDoc, resolved map[string]model.Attendee) model.CandidateEvent {
	attendees := make([]model.Attendee, 0, len(d.Attendees))
	for _, id := range d.Attendees {
		if a, ok := resolved[id.Hex()]; ok {
			attendees = append(attendees, a)
		} else {
			// Attendee document missing upstream; keep the id so the
			// fill rate still counts the seat.
			attendees = append(attendees, model.Attendee{ID: id.Hex()})
		}
	}

	var lng, lat float64
	if len(d.Location.Coordinates) == 2 {
		lng, lat = d.Location.Coordinates[0], d.Location.Coordinates[1]
	}

	return model.CandidateEvent{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Type:         d.Type,
		Details:      d.Details,
		Tags:         d.Tags,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		Attendees:    attendees,
		MaxAttendees: d.MaxAttendees,
		Longitude:    lng,
		Latitude:     lat,
	}
}
