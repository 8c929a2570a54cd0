// internal/app/store/magiclinks/magiclinkstore.go
package magiclinkstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// TokenLength is the token size in bytes (64 hex chars).
	TokenLength = 32
	// DefaultExpiry is how long a link is valid when no expiry is configured.
	DefaultExpiry = 15 * time.Minute
	// Retention is how long an expired link is kept before the TTL index
	// removes it.
	Retention = 24 * time.Hour
)

var (
	// ErrNotFound is returned for tokens that were never issued.
	ErrNotFound = errors.New("invalid magic link")
	// ErrExpired is returned when the link is past its expiry.
	ErrExpired = errors.New("magic link expired")
	// ErrUsed is returned when the link was already consumed.
	ErrUsed = errors.New("magic link already used")
)

type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store. A zero or negative expiry falls back to DefaultExpiry.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{c: db.Collection("magic_links"), expiry: expiry}
}

// Expiry returns how long newly created links stay valid.
func (s *Store) Expiry() time.Duration { return s.expiry }

// Create issues a fresh link for a student. Earlier unused links for the
// same student are removed so only the latest email works.
func (s *Store) Create(ctx context.Context, studentID primitive.ObjectID, email, ip string) (models.MagicLink, error) {
	token, err := generateToken()
	if err != nil {
		return models.MagicLink{}, err
	}
	if _, err := s.c.DeleteMany(ctx, bson.M{"student_id": studentID, "used": false}); err != nil {
		return models.MagicLink{}, fmt.Errorf("clear previous links: %w", err)
	}

	now := time.Now().UTC()
	ml := models.MagicLink{
		ID:        primitive.NewObjectID(),
		Token:     token,
		Email:     email,
		StudentID: studentID,
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
		IP:        ip,
	}
	if _, err := s.c.InsertOne(ctx, ml); err != nil {
		return models.MagicLink{}, fmt.Errorf("insert magic link: %w", err)
	}
	return ml, nil
}

// Consume marks the link used and returns it. The update only matches an
// unused, unexpired link, so of two concurrent calls at most one succeeds.
// When nothing matches, the stored record (if any) decides which error is
// returned.
func (s *Store) Consume(ctx context.Context, token string, now time.Time) (models.MagicLink, error) {
	if token == "" {
		return models.MagicLink{}, ErrNotFound
	}
	now = now.UTC()
	var ml models.MagicLink
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"token": token, "used": false, "expires_at": bson.M{"$gt": now}},
		bson.M{"$set": bson.M{"used": true, "used_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ml)
	if err == nil {
		return ml, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.MagicLink{}, err
	}

	var existing models.MagicLink
	if err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.MagicLink{}, ErrNotFound
		}
		return models.MagicLink{}, err
	}
	if existing.Used {
		return models.MagicLink{}, ErrUsed
	}
	return models.MagicLink{}, ErrExpired
}

// DeleteExpired removes links whose expiry is more than Retention in the
// past. The TTL index does the same; this covers deployments where the
// TTL monitor is slow or disabled.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now.UTC().Add(-Retention)}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func generateToken() (string, error) {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
