package discussionstore

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

// Page size bounds for ListChannel.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ErrNotFound is returned when no message matches.
var ErrNotFound = errors.New("message not found")

// ErrContended is returned when a reaction toggle keeps losing to
// concurrent toggles on the same message.
var ErrContended = errors.New("message is being updated, try again")

// toggleAttempts bounds the compare-and-set retries in ToggleReaction.
const toggleAttempts = 16

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("discussion_messages")}
}

// Create inserts a message. Content is expected to be sanitized already.
func (s *Store) Create(ctx context.Context, m models.DiscussionMessage) (models.DiscussionMessage, error) {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	m.Replies = []models.Reply{}
	m.Reactions = []models.Reaction{}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.DiscussionMessage{}, err
	}
	return m, nil
}

// GetByID loads a message.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.DiscussionMessage, error) {
	var m models.DiscussionMessage
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.DiscussionMessage{}, ErrNotFound
		}
		return models.DiscussionMessage{}, err
	}
	return m, nil
}

// ClampLimit maps a requested page size onto [1, MaxLimit], using
// DefaultLimit for non-positive values.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}

// ListChannel returns up to limit messages of one company channel, newest
// first. When before is non-nil only messages older than it are returned,
// which lets clients page backwards through history.
func (s *Store) ListChannel(ctx context.Context, companyID primitive.ObjectID, channel string, before *primitive.ObjectID, limit int) ([]models.DiscussionMessage, error) {
	filter := bson.M{"company_id": companyID, "channel": channel}
	if before != nil {
		filter["_id"] = bson.M{"$lt": *before}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(ClampLimit(limit)))

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.DiscussionMessage{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddReply appends a reply to a message and returns the reply with its ID.
func (s *Store) AddReply(ctx context.Context, messageID primitive.ObjectID, r models.Reply) (models.Reply, error) {
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, messageID, bson.M{"$push": bson.M{"replies": r}})
	if err != nil {
		return models.Reply{}, err
	}
	if res.MatchedCount == 0 {
		return models.Reply{}, ErrNotFound
	}
	return r, nil
}

// ToggleReaction adds userID to the emoji's reaction, or removes it when
// already present. It returns the resulting reactions and whether the user
// now reacts with emoji. The write only lands if reactions are unchanged
// since the read; otherwise it re-reads and tries again.
func (s *Store) ToggleReaction(ctx context.Context, messageID primitive.ObjectID, emoji string, userID primitive.ObjectID) ([]models.Reaction, bool, error) {
	for i := 0; i < toggleAttempts; i++ {
		m, err := s.GetByID(ctx, messageID)
		if err != nil {
			return nil, false, err
		}
		next, added := ApplyToggle(m.Reactions, emoji, userID)
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": messageID, "reactions": sameReactions(m.Reactions)},
			bson.M{"$set": bson.M{"reactions": next}},
		)
		if err != nil {
			return nil, false, err
		}
		if res.MatchedCount == 1 {
			return next, added, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
	}
	return nil, false, ErrContended
}

// sameReactions matches the stored array exactly. An empty read also
// matches a null or missing field.
func sameReactions(read []models.Reaction) any {
	if len(read) == 0 {
		return bson.M{"$in": bson.A{nil, bson.A{}}}
	}
	return read
}

// ApplyToggle returns a copy of reactions with userID toggled for emoji.
// Reactions left without users are dropped.
func ApplyToggle(reactions []models.Reaction, emoji string, userID primitive.ObjectID) ([]models.Reaction, bool) {
	out := make([]models.Reaction, 0, len(reactions)+1)
	added := true
	found := false
	for _, r := range reactions {
		if r.Emoji != emoji {
			out = append(out, r)
			continue
		}
		found = true
		users := make([]primitive.ObjectID, 0, len(r.UserIDs)+1)
		for _, u := range r.UserIDs {
			if u == userID {
				added = false
				continue
			}
			users = append(users, u)
		}
		if added {
			users = append(users, userID)
		}
		if len(users) > 0 {
			out = append(out, models.Reaction{Emoji: emoji, UserIDs: users})
		}
	}
	if !found {
		out = append(out, models.Reaction{Emoji: emoji, UserIDs: []primitive.ObjectID{userID}})
	}
	return out, added
}

// Delete removes a message and its replies.
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

// DeleteByCompany removes every message for a company.
func (s *Store) DeleteByCompany(ctx context.Context, companyID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
