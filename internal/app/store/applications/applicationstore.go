package applicationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/placementhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no application matches.
	ErrNotFound = errors.New("application not found")
	// ErrAlreadyApplied is returned when the (student, company) pair exists.
	ErrAlreadyApplied = errors.New("already applied")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("student_applications")}
}

// Create inserts a new application in the "applied" state. Uniqueness of
// (student_id, company_id) is enforced by a unique index.
func (s *Store) Create(ctx context.Context, a models.StudentApplication) (models.StudentApplication, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	if a.Status == "" {
		a.Status = models.ApplicationApplied
	}
	if a.CurrentStage == "" {
		a.CurrentStage = models.ApplicationApplied
	}
	if a.StageHistory == nil {
		a.StageHistory = []models.StageEntry{}
	}
	a.AppliedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.StudentApplication{}, ErrAlreadyApplied
		}
		return models.StudentApplication{}, err
	}
	return a, nil
}

// GetByID loads an application.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.StudentApplication, error) {
	var a models.StudentApplication
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.StudentApplication{}, ErrNotFound
		}
		return models.StudentApplication{}, err
	}
	return a, nil
}

// ListByStudent returns a student's applications, newest first.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.StudentApplication, error) {
	return s.find(ctx, bson.M{"student_id": studentID},
		options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}, {Key: "_id", Value: -1}}))
}

// ListByCompany returns every application to a company, oldest first.
func (s *Store) ListByCompany(ctx context.Context, companyID primitive.ObjectID, status string) ([]models.StudentApplication, error) {
	filter := bson.M{"company_id": companyID}
	if status != "" {
		filter["status"] = status
	}
	return s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "applied_at", Value: 1}, {Key: "_id", Value: 1}}))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.StudentApplication, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.StudentApplication{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordStage appends entry to the stage history and sets the current stage
// and status in one update. It returns the updated application.
func (s *Store) RecordStage(ctx context.Context, id primitive.ObjectID, entry models.StageEntry, status string) (models.StudentApplication, error) {
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	return s.update(ctx, id, bson.M{
		"$push": bson.M{"stage_history": entry},
		"$set": bson.M{
			"current_stage": entry.Stage,
			"status":        status,
			"updated_at":    entry.RecordedAt,
		},
	})
}

// SetStatus changes only the status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.StudentApplication, error) {
	return s.update(ctx, id, bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
}

func (s *Store) update(ctx context.Context, id primitive.ObjectID, upd bson.M) (models.StudentApplication, error) {
	var a models.StudentApplication
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.StudentApplication{}, ErrNotFound
		}
		return models.StudentApplication{}, err
	}
	return a, nil
}

// CountByStatus returns how many of a student's applications are in each
// status. Statuses with no applications are reported as zero.
func (s *Store) CountByStatus(ctx context.Context, studentID primitive.ObjectID) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"student_id": studentID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64, len(models.ApplicationStatuses))
	for _, st := range models.ApplicationStatuses {
		counts[st] = 0
	}
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			N      int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.N
	}
	return counts, cur.Err()
}

// ActiveCompanyIDs returns the companies a student applied to and has not
// withdrawn from.
func (s *Store) ActiveCompanyIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	vals, err := s.c.Distinct(ctx, "company_id", bson.M{
		"student_id": studentID,
		"status":     bson.M{"$ne": models.ApplicationWithdrawn},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(vals))
	for _, v := range vals {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// DeleteByCompany removes all applications to a company.
func (s *Store) DeleteByCompany(ctx context.Context, companyID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
