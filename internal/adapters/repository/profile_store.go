package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ishraqsadik/touchgrass/internal/domain/model"
)

// ProfileStore loads user profiles from MongoDB. Attended events are
// resolved to {tags, startTime} summaries in a second query so the
// scorer never sees raw event documents.
type ProfileStore struct {
	users  *mongo.Collection
	events *mongo.Collection
}

// NewProfileStore creates a ProfileStore over db.
func NewProfileStore(db *mongo.Database) *ProfileStore {
	return &ProfileStore{
		users:  db.Collection(usersCollection),
		events: db.Collection(eventsCollection),
	}
}

// LoadProfile returns the scoring snapshot for userID. A missing user
// maps to ErrProfileNotFound; a malformed id to ErrInvalidUserID.
func (s *ProfileStore) LoadProfile(ctx context.Context, userID string) (model.UserProfile, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}

	var user userDoc
	opts := options.FindOne().SetProjection(bson.M{
		"interests":      1,
		"connections":    1,
		"attendedEvents": 1,
	})
	if err := s.users.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.UserProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
		}
		return model.UserProfile{}, fmt.Errorf("find user: %w", err)
	}

	attended, err := s.loadAttended(ctx, user.AttendedEvents)
	if err != nil {
		return model.UserProfile{}, err
	}

	return model.UserProfile{
		ID:             userID,
		Interests:      user.Interests,
		AttendedEvents: attended,
		Connections:    hexIDs(user.Connections),
	}, nil
}

func (s *ProfileStore) loadAttended(ctx context.Context, ids []bson.ObjectID) ([]model.AttendedEvent, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	opts := options.Find().SetProjection(bson.M{"tags": 1, "startTime": 1})
	cursor, err := s.events.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find attended events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []attendedDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attended events: %w", err)
	}

	attended := make([]model.AttendedEvent, len(docs))
	for i, d := range docs {
		attended[i] = model.AttendedEvent{Tags: d.Tags, StartTime: d.StartTime}
	}
	return attended, nil
}
