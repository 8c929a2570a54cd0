package ticketstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	counterstore "github.com/dalemusser/placementhub/internal/app/store/counters"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound    = errors.New("ticket not found")
	ErrUnknownKind = errors.New("unknown ticket kind")
)

// KindInfo describes where tickets of one kind live and how they are numbered.
type KindInfo struct {
	Collection string
	Prefix     string
	Counter    string
}

// Info returns the collection and numbering for kind.
func Info(kind models.TicketKind) (KindInfo, bool) {
	if !kind.IsValid() {
		return KindInfo{}, false
	}
	return KindInfo{
		Collection: kind.Collection(),
		Prefix:     kind.Prefix(),
		Counter:    "ticket_" + string(kind),
	}, true
}

// ParseKind maps a URL segment onto a TicketKind.
func ParseKind(s string) (models.TicketKind, bool) {
	k := models.TicketKind(s)
	return k, k.IsValid()
}

// FormatNumber renders a ticket number such as TKT-000042.
func FormatNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

type Store struct {
	db       *mongo.Database
	counters *counterstore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, counters: counterstore.New(db)}
}

func (s *Store) coll(kind models.TicketKind) (*mongo.Collection, KindInfo, error) {
	ki, ok := Info(kind)
	if !ok {
		return nil, KindInfo{}, ErrUnknownKind
	}
	return s.db.Collection(ki.Collection), ki, nil
}

// Create numbers and stores a ticket. Status defaults to open and priority
// to medium.
func (s *Store) Create(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	c, ki, err := s.coll(t.Kind)
	if err != nil {
		return models.Ticket{}, err
	}
	seq, err := s.counters.Next(ctx, ki.Counter)
	if err != nil {
		return models.Ticket{}, err
	}

	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.TicketNumber = FormatNumber(ki.Prefix, seq)
	if t.Status == "" {
		t.Status = models.TicketOpen
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Responses == nil {
		t.Responses = []models.TicketResponse{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := c.InsertOne(ctx, t); err != nil {
		return models.Ticket{}, fmt.Errorf("insert %s: %w", t.TicketNumber, err)
	}
	return t, nil
}

// GetByNumber loads a ticket of the given kind by its number.
func (s *Store) GetByNumber(ctx context.Context, kind models.TicketKind, number string) (models.Ticket, error) {
	c, _, err := s.coll(kind)
	if err != nil {
		return models.Ticket{}, err
	}
	var t models.Ticket
	if err := c.FindOne(ctx, bson.M{"ticket_number": number}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Ticket{}, ErrNotFound
		}
		return models.Ticket{}, err
	}
	return t, nil
}

// ListByStudent returns a student's tickets of one kind, newest first.
func (s *Store) ListByStudent(ctx context.Context, kind models.TicketKind, studentID primitive.ObjectID) ([]models.Ticket, error) {
	return s.find(ctx, kind, bson.M{"student_id": studentID})
}

// List returns tickets of one kind, optionally filtered by status.
func (s *Store) List(ctx context.Context, kind models.TicketKind, status string) ([]models.Ticket, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.find(ctx, kind, filter)
}

func (s *Store) find(ctx context.Context, kind models.TicketKind, filter bson.M) ([]models.Ticket, error) {
	c, _, err := s.coll(kind)
	if err != nil {
		return nil, err
	}
	cur, err := c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Ticket{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update carries an admin's change to a ticket. Nil fields are left alone.
type Update struct {
	Status   *string
	Response *models.TicketResponse
}

// Update applies u and returns the updated ticket. Moving to resolved or
// closed stamps resolved_at; reopening clears it.
func (s *Store) Update(ctx context.Context, kind models.TicketKind, number string, u Update) (models.Ticket, error) {
	c, _, err := s.coll(kind)
	if err != nil {
		return models.Ticket{}, err
	}
	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	upd := bson.M{}
	if u.Status != nil {
		set["status"] = *u.Status
		switch *u.Status {
		case models.TicketResolved, models.TicketClosed:
			set["resolved_at"] = now
		default:
			upd["$unset"] = bson.M{"resolved_at": ""}
		}
	}
	if u.Response != nil {
		r := *u.Response
		r.CreatedAt = now
		upd["$push"] = bson.M{"responses": r}
	}
	upd["$set"] = set

	var t models.Ticket
	err = c.FindOneAndUpdate(ctx, bson.M{"ticket_number": number}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Ticket{}, ErrNotFound
		}
		return models.Ticket{}, err
	}
	return t, nil
}
