package counterstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type counter struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// Store hands out monotonically increasing sequence numbers, one series per
// counter name.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("counters")}
}

// Next atomically increments the named counter, creating it at 1 when it
// does not exist yet, and returns the new value.
func (s *Store) Next(ctx context.Context, name string) (int64, error) {
	var out counter
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("next %q: %w", name, err)
	}
	return out.Seq, nil
}

// Current returns the last value handed out for name, or 0.
func (s *Store) Current(ctx context.Context, name string) (int64, error) {
	var out counter
	err := s.c.FindOne(ctx, bson.M{"_id": name}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return out.Seq, nil
}
