// internal/app/store/companies/companystore.go
package companystore

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/placementhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no company matches.
	ErrNotFound = errors.New("company not found")
	// ErrDuplicateName is returned when another company already uses the name.
	ErrDuplicateName = errors.New("a company with this name already exists")
	// ErrEventNotFound is returned when removing an event the company lacks.
	ErrEventNotFound = errors.New("event not found")
	// ErrInvalid wraps field validation failures.
	ErrInvalid = errors.New("invalid company")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("companies")}
}

func invalid(msg string) error {
	return &validationError{msg: msg}
}

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrInvalid }

// prepare normalizes c in place and checks required fields.
func prepare(c *models.Company) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("name is required")
	}
	c.NameCI = text.Fold(c.Name)
	if c.Status == "" {
		c.Status = models.CompanyStatusUpcoming
	}
	switch c.Status {
	case models.CompanyStatusUpcoming, models.CompanyStatusOpen, models.CompanyStatusClosed:
	default:
		return invalid(`status must be "upcoming", "open" or "closed"`)
	}
	if c.Website != "" && !urlutil.IsValidAbsHTTPURL(c.Website) {
		return invalid("website must be a valid http(s) URL")
	}
	if c.LogoURL != "" && !urlutil.IsValidAbsHTTPURL(c.LogoURL) {
		return invalid("logo_url must be a valid http(s) URL")
	}
	if c.Eligibility.MinCGPA < 0 || c.Eligibility.MinCGPA > 10 {
		return invalid("eligibility.min_cgpa must be between 0 and 10")
	}
	if c.Process == nil {
		c.Process = []models.ProcessStage{}
	}
	sort.SliceStable(c.Process, func(i, j int) bool { return c.Process[i].Order < c.Process[j].Order })
	for i := range c.Process {
		c.Process[i].Name = strings.TrimSpace(c.Process[i].Name)
		if c.Process[i].Name == "" {
			return invalid("every process stage needs a name")
		}
	}
	if c.ApplyDeadline != nil {
		d := c.ApplyDeadline.UTC()
		c.ApplyDeadline = &d
	}
	return nil
}

// Create inserts a new company. Events get fresh IDs; participants and the
// application counter always start empty.
func (s *Store) Create(ctx context.Context, c models.Company) (models.Company, error) {
	if err := prepare(&c); err != nil {
		return models.Company{}, err
	}
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	if c.Events == nil {
		c.Events = []models.CompanyEvent{}
	}
	for i := range c.Events {
		c.Events[i].ID = primitive.NewObjectID()
		c.Events[i].StartsAt = c.Events[i].StartsAt.UTC()
	}
	c.Participants = []models.Participant{}
	c.ApplicationCount = 0
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Company{}, ErrDuplicateName
		}
		return models.Company{}, err
	}
	return c, nil
}

// GetByID loads a company by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Company, error) {
	var c models.Company
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Company{}, ErrNotFound
		}
		return models.Company{}, err
	}
	return c, nil
}

// Update replaces the editable fields of a company. Events, participants and
// the application counter are managed by their own methods.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, c models.Company) (models.Company, error) {
	if err := prepare(&c); err != nil {
		return models.Company{}, err
	}
	set := bson.M{
		"name":           c.Name,
		"name_ci":        c.NameCI,
		"description":    c.Description,
		"website":        c.Website,
		"logo_url":       c.LogoURL,
		"industry":       c.Industry,
		"role":           c.Role,
		"package_lpa":    c.PackageLPA,
		"location":       c.Location,
		"status":         c.Status,
		"apply_deadline": c.ApplyDeadline,
		"eligibility":    c.Eligibility,
		"process":        c.Process,
		"updated_at":     time.Now().UTC(),
	}

	var out models.Company
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Company{}, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return models.Company{}, ErrDuplicateName
		}
		return models.Company{}, err
	}
	return out, nil
}

// Delete removes a company.
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

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Status string
	Query  string // case- and diacritic-insensitive name prefix
	IDs    []primitive.ObjectID
}

// List returns companies sorted by name. Participants are not loaded.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Company, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if q := text.Fold(strings.TrimSpace(f.Query)); q != "" {
		filter["name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(q)}
	}
	if f.IDs != nil {
		filter["_id"] = bson.M{"$in": f.IDs}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"participants": 0})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Company{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddEvent appends an event to a company and returns it with its new ID.
func (s *Store) AddEvent(ctx context.Context, companyID primitive.ObjectID, ev models.CompanyEvent) (models.CompanyEvent, error) {
	ev.Title = strings.TrimSpace(ev.Title)
	if ev.Title == "" {
		return models.CompanyEvent{}, invalid("event title is required")
	}
	if ev.StartsAt.IsZero() {
		return models.CompanyEvent{}, invalid("event starts_at is required")
	}
	if ev.EndsAt != nil && ev.EndsAt.Before(ev.StartsAt) {
		return models.CompanyEvent{}, invalid("event ends_at must not be before starts_at")
	}
	if ev.Kind == "" {
		ev.Kind = models.EventKindOther
	}
	if ev.Link != "" && !urlutil.IsValidAbsHTTPURL(ev.Link) {
		return models.CompanyEvent{}, invalid("event link must be a valid http(s) URL")
	}
	ev.ID = primitive.NewObjectID()
	ev.StartsAt = ev.StartsAt.UTC()

	res, err := s.c.UpdateByID(ctx, companyID, bson.M{
		"$push": bson.M{"events": ev},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return models.CompanyEvent{}, err
	}
	if res.MatchedCount == 0 {
		return models.CompanyEvent{}, ErrNotFound
	}
	return ev, nil
}

// RemoveEvent deletes one event from a company.
func (s *Store) RemoveEvent(ctx context.Context, companyID, eventID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": companyID, "events._id": eventID},
		bson.M{
			"$pull": bson.M{"events": bson.M{"_id": eventID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount != 0 {
		return nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": companyID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrEventNotFound
}

// RecordApplication bumps application_count and appends a participant.
// It is deliberately a separate write from creating the application itself.
func (s *Store) RecordApplication(ctx context.Context, companyID primitive.ObjectID, p models.Participant) error {
	res, err := s.c.UpdateByID(ctx, companyID, bson.M{
		"$inc":  bson.M{"application_count": 1},
		"$push": bson.M{"participants": p},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordWithdrawal reverses RecordApplication for one student.
func (s *Store) RecordWithdrawal(ctx context.Context, companyID, studentID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": companyID, "participants.student_id": studentID},
		bson.M{
			"$inc":  bson.M{"application_count": -1},
			"$pull": bson.M{"participants": bson.M{"student_id": studentID}},
		},
	)
	return err
}

// CalendarFilter selects companies with something scheduled inside
// [From, To).
type CalendarFilter struct {
	From, To   time.Time
	CompanyIDs []primitive.ObjectID // nil means all companies
}

// ListForCalendar returns companies having an event or apply deadline inside
// the window. Only the fields the calendar needs are loaded.
func (s *Store) ListForCalendar(ctx context.Context, f CalendarFilter) ([]models.Company, error) {
	window := bson.M{"$gte": f.From.UTC(), "$lt": f.To.UTC()}
	filter := bson.M{"$or": bson.A{
		bson.M{"events.starts_at": window},
		bson.M{"apply_deadline": window},
	}}
	if f.CompanyIDs != nil {
		filter["_id"] = bson.M{"$in": f.CompanyIDs}
	}
	opts := options.Find().SetProjection(bson.M{
		"name": 1, "status": 1, "events": 1, "apply_deadline": 1, "role": 1,
	})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Company{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertByName creates the company or replaces the editable fields of the
// company with the same (folded) name. Used by the seed loader.
func (s *Store) UpsertByName(ctx context.Context, c models.Company) (created bool, err error) {
	if err := prepare(&c); err != nil {
		return false, err
	}
	var existing models.Company
	err = s.c.FindOne(ctx, bson.M{"name_ci": c.NameCI}, options.FindOne().SetProjection(bson.M{"_id": 1})).Decode(&existing)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		_, err = s.Create(ctx, c)
		return err == nil, err
	case err != nil:
		return false, err
	}
	if _, err = s.Update(ctx, existing.ID, c); err != nil {
		return false, err
	}
	if len(c.Events) > 0 {
		for i := range c.Events {
			c.Events[i].ID = primitive.NewObjectID()
			c.Events[i].StartsAt = c.Events[i].StartsAt.UTC()
		}
		_, err = s.c.UpdateByID(ctx, existing.ID, bson.M{"$set": bson.M{"events": c.Events}})
	}
	return false, err
}
