package adminstore

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
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for admin password hashes.
const BcryptCost = 12

// MinPasswordLength is the shortest password Create accepts.
const MinPasswordLength = 8

// Admin status values.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

var (
	ErrNotFound           = errors.New("admin not found")
	ErrDuplicateEmail     = errors.New("an admin with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admins")}
}

// Create hashes password and inserts a new active admin.
func (s *Store) Create(ctx context.Context, name, email, password string) (models.Admin, error) {
	if len(password) < MinPasswordLength {
		return models.Admin{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return models.Admin{}, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	a := models.Admin{
		ID:           primitive.NewObjectID(),
		Name:         normalize.Name(name),
		Email:        normalize.Email(email),
		PasswordHash: string(hash),
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Admin{}, ErrDuplicateEmail
		}
		return models.Admin{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Admin, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up an admin by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Admin{}, ErrNotFound
		}
		return models.Admin{}, err
	}
	return a, nil
}

// Authenticate checks email and password. Unknown emails, wrong passwords
// and disabled accounts all yield ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.Admin, error) {
	a, err := s.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return models.Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Admin{}, err
	}
	if a.Status != StatusActive {
		return models.Admin{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return models.Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

// EnsureAdmin creates the admin when no account exists for email. An
// existing account is left untouched and created is false.
func (s *Store) EnsureAdmin(ctx context.Context, name, email, password string) (models.Admin, bool, error) {
	a, err := s.GetByEmail(ctx, email)
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Admin{}, false, err
	}
	a, err = s.Create(ctx, name, email, password)
	if errors.Is(err, ErrDuplicateEmail) {
		// Lost a race with another instance.
		a, err = s.GetByEmail(ctx, email)
		return a, false, err
	}
	if err != nil {
		return models.Admin{}, false, err
	}
	return a, true, nil
}

// TouchLogin records a successful sign-in.
func (s *Store) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login_at": at.UTC()}})
	return err
}

// SetStatus enables or disables an admin account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != StatusActive && status != StatusDisabled {
		return fmt.Errorf("status must be %q or %q", StatusActive, StatusDisabled)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
