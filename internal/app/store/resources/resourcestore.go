// internal/store/resources/resourcestore.go
package resourcestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("resource not found")
	// ErrInvalid wraps field validation failures.
	ErrInvalid = errors.New("invalid resource")
)

type invalidError struct{ msg string }

func (e *invalidError) Error() string { return e.msg }
func (e *invalidError) Unwrap() error { return ErrInvalid }

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("company_resources")}
}

// Create inserts a submission in the pending state. Kind defaults to link.
func (s *Store) Create(ctx context.Context, r models.CompanyResource) (models.CompanyResource, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
	if r.Title == "" {
		return models.CompanyResource{}, &invalidError{"title is required"}
	}
	if !urlutil.IsValidAbsHTTPURL(r.URL) {
		return models.CompanyResource{}, &invalidError{"url must be a valid http(s) URL"}
	}
	if r.Kind == "" {
		r.Kind = models.ResourceKindLink
	}
	if !isKind(r.Kind) {
		return models.CompanyResource{}, &invalidError{"kind must be one of: " + strings.Join(models.ResourceKinds, ", ")}
	}

	r.ID = primitive.NewObjectID()
	r.Status = models.ResourcePending
	r.ModeratedBy = nil
	r.ModeratedAt = nil
	r.RejectionReason = ""
	r.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.CompanyResource{}, err
	}
	return r, nil
}

func isKind(k string) bool {
	for _, v := range models.ResourceKinds {
		if v == k {
			return true
		}
	}
	return false
}

// GetByID returns a resource by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CompanyResource, error) {
	var r models.CompanyResource
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.CompanyResource{}, ErrNotFound
		}
		return models.CompanyResource{}, err
	}
	return r, nil
}

// ListApproved returns a company's approved resources, newest first.
func (s *Store) ListApproved(ctx context.Context, companyID primitive.ObjectID) ([]models.CompanyResource, error) {
	return s.Find(ctx, bson.M{"company_id": companyID, "status": models.ResourceApproved})
}

// ListByUploader returns everything a student submitted, in any state.
func (s *Store) ListByUploader(ctx context.Context, uploaderID primitive.ObjectID) ([]models.CompanyResource, error) {
	return s.Find(ctx, bson.M{"uploaded_by": uploaderID})
}

// ListByStatus returns resources in one moderation state. An empty status
// returns all.
func (s *Store) ListByStatus(ctx context.Context, status string) ([]models.CompanyResource, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.Find(ctx, filter)
}

// Find returns resources matching filter, newest first unless opts sort
// otherwise.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.CompanyResource, error) {
	if len(opts) == 0 {
		opts = []*options.FindOptions{options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})}
	}
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.CompanyResource{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Moderate moves a resource to approved or rejected and records who did it.
// The reason is kept only for rejections.
func (s *Store) Moderate(ctx context.Context, id primitive.ObjectID, status string, adminID primitive.ObjectID, reason string) (models.CompanyResource, error) {
	if status != models.ResourceApproved && status != models.ResourceRejected {
		return models.CompanyResource{}, &invalidError{`status must be "approved" or "rejected"`}
	}
	set := bson.M{
		"status":       status,
		"moderated_by": adminID,
		"moderated_at": time.Now().UTC(),
	}
	upd := bson.M{"$set": set}
	if status == models.ResourceRejected {
		set["rejection_reason"] = strings.TrimSpace(reason)
	} else {
		upd["$unset"] = bson.M{"rejection_reason": ""}
	}

	var r models.CompanyResource
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.CompanyResource{}, ErrNotFound
		}
		return models.CompanyResource{}, err
	}
	return r, nil
}

// Delete removes a resource by ID.
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

// DeleteByCompany removes every resource for a company.
func (s *Store) DeleteByCompany(ctx context.Context, companyID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of resources matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
