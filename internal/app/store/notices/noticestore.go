// internal/app/store/notices/noticestore.go
package noticestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("notice not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notices")}
}

// Create inserts a notice. Priority defaults to info.
func (s *Store) Create(ctx context.Context, n models.Notice) (models.Notice, error) {
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	if n.Priority == "" {
		n.Priority = models.NoticeInfo
	}
	n.CreatedAt = now
	n.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notice{}, err
	}
	return n, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Notice, error) {
	var n models.Notice
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Notice{}, ErrNotFound
		}
		return models.Notice{}, err
	}
	return n, nil
}

// Update replaces the editable fields of a notice.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, n models.Notice) (models.Notice, error) {
	set := bson.M{
		"title":      n.Title,
		"content":    n.Content,
		"priority":   n.Priority,
		"link":       n.Link,
		"active":     n.Active,
		"updated_at": time.Now().UTC(),
	}
	upd := bson.M{"$set": set}
	if n.ExpiresAt != nil {
		set["expires_at"] = n.ExpiresAt.UTC()
	} else {
		upd["$unset"] = bson.M{"expires_at": ""}
	}

	var out models.Notice
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Notice{}, ErrNotFound
		}
		return models.Notice{}, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListVisible returns active notices that have not expired at now, newest
// first.
func (s *Store) ListVisible(ctx context.Context, now time.Time) ([]models.Notice, error) {
	filter := bson.M{
		"active": true,
		"$or": []bson.M{
			{"expires_at": bson.M{"$exists": false}},
			{"expires_at": nil},
			{"expires_at": bson.M{"$gt": now.UTC()}},
		},
	}
	return s.find(ctx, filter)
}

// ListAll returns every notice, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Notice, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Notice, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notice{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeactivateExpired turns off active notices whose expiry has passed and
// reports how many changed.
func (s *Store) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"active": true, "expires_at": bson.M{"$lte": now.UTC()}},
		bson.M{"$set": bson.M{"active": false, "updated_at": now.UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
