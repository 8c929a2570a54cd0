package studentstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no student matches.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicateRegisterNumber is returned when another student already
	// holds the register number.
	ErrDuplicateRegisterNumber = errors.New("a student with this register number already exists")
	errEmailRequired           = errors.New("email is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("students")}
}

// GetByID loads a student by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	var st models.Student
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// GetByEmail looks up a student by (normalized) email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	var st models.Student
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindOrCreate returns the student with in.Email, inserting in when no such
// student exists yet. Fields of an existing student are left untouched.
// created reports whether a new record was inserted.
func (s *Store) FindOrCreate(ctx context.Context, in models.Student) (st *models.Student, created bool, err error) {
	in.Email = normalize.Email(in.Email)
	if in.Email == "" {
		return nil, false, errEmailRequired
	}
	in.Name = normalize.Name(in.Name)
	in.RegisterNumber = normalize.RegisterNumber(in.RegisterNumber)
	in.Department = normalize.Department(in.Department)
	now := time.Now().UTC()
	in.ID = primitive.NewObjectID()
	in.CreatedAt = now
	in.UpdatedAt = now

	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": in.Email},
		bson.M{"$setOnInsert": in},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if wafflemongo.IsDup(err) {
			// A concurrent request may have inserted the same email first.
			if st, gerr := s.GetByEmail(ctx, in.Email); gerr == nil {
				return st, false, nil
			}
			return nil, false, ErrDuplicateRegisterNumber
		}
		return nil, false, fmt.Errorf("upsert student: %w", err)
	}

	st, err = s.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, false, err
	}
	return st, res.UpsertedCount == 1, nil
}

// AcademicUpdate carries the student fields that are kept in sync with the
// profile. Nil fields are not changed.
type AcademicUpdate struct {
	Name       *string
	Phone      *string
	Department *string
	Batch      *int
	CGPA       *float64
	Backlogs   *int
}

// UpdateAcademic applies u to the student record.
func (s *Store) UpdateAcademic(ctx context.Context, id primitive.ObjectID, u AcademicUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Name != nil {
		set["name"] = normalize.Name(*u.Name)
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Department != nil {
		set["department"] = normalize.Department(*u.Department)
	}
	if u.Batch != nil {
		set["batch"] = *u.Batch
	}
	if u.CGPA != nil {
		set["cgpa"] = *u.CGPA
	}
	if u.Backlogs != nil {
		set["backlogs"] = *u.Backlogs
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLogin records a successful login time.
func (s *Store) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login_at": at.UTC()}})
	return err
}
