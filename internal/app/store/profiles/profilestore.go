package profilestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the student has no profile yet.
var ErrNotFound = errors.New("profile not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("student_profiles")}
}

// EnsureForStudent returns the profile for st, creating it from the student
// record on first call. created reports whether the profile was inserted.
func (s *Store) EnsureForStudent(ctx context.Context, st *models.Student) (*models.StudentProfile, bool, error) {
	now := time.Now().UTC()
	p := models.StudentProfile{
		ID:             primitive.NewObjectID(),
		StudentID:      st.ID,
		Name:           st.Name,
		RegisterNumber: st.RegisterNumber,
		Email:          st.Email,
		Department:     st.Department,
		Batch:          st.Batch,
		CGPA:           st.CGPA,
		Backlogs:       st.Backlogs,
		Phone:          st.Phone,
		Skills:         []string{},
		Projects:       []models.Project{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"student_id": st.ID},
		bson.M{"$setOnInsert": p},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, false, fmt.Errorf("upsert profile: %w", err)
	}

	got, err := s.GetByStudent(ctx, st.ID)
	if err != nil {
		return nil, false, err
	}
	return got, res.UpsertedCount == 1, nil
}

// GetByStudent loads the profile for a student.
func (s *Store) GetByStudent(ctx context.Context, studentID primitive.ObjectID) (*models.StudentProfile, error) {
	var p models.StudentProfile
	if err := s.c.FindOne(ctx, bson.M{"student_id": studentID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update holds the editable profile fields. Nil fields are left unchanged.
type Update struct {
	Name        *string                    `json:"name" validate:"omitempty,min=1,max=120" label:"Name"`
	Phone       *string                    `json:"phone" validate:"omitempty,max=20" label:"Phone"`
	Department  *string                    `json:"department" validate:"omitempty,max=20" label:"Department"`
	Batch       *int                       `json:"batch" validate:"omitempty,gte=2000,lte=2100" label:"Batch"`
	CGPA        *float64                   `json:"cgpa" validate:"omitempty,gte=0,lte=10" label:"CGPA"`
	Backlogs    *int                       `json:"backlogs" validate:"omitempty,gte=0" label:"Backlogs"`
	About       *string                    `json:"about" validate:"omitempty,max=2000" label:"About"`
	Skills      *[]string                  `json:"skills" validate:"omitempty,max=50" label:"Skills"`
	Projects    *[]models.Project          `json:"projects" validate:"omitempty,max=20" label:"Projects"`
	Preferences *models.ProfilePreferences `json:"preferences"`
	Stats       *models.ProfileStats       `json:"stats"`
	ResumeURL   *string                    `json:"resume_url" validate:"omitempty,httpurl" label:"Resume URL"`
	LinkedInURL *string                    `json:"linkedin_url" validate:"omitempty,httpurl" label:"LinkedIn URL"`
	GitHubURL   *string                    `json:"github_url" validate:"omitempty,httpurl" label:"GitHub URL"`
}

// Update applies u and returns the updated profile.
func (s *Store) Update(ctx context.Context, studentID primitive.ObjectID, u Update) (*models.StudentProfile, error) {
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
	if u.About != nil {
		set["about"] = *u.About
	}
	if u.Skills != nil {
		set["skills"] = normalize.Tags(*u.Skills)
	}
	if u.Projects != nil {
		set["projects"] = *u.Projects
	}
	if u.Preferences != nil {
		set["preferences"] = *u.Preferences
	}
	if u.Stats != nil {
		set["stats"] = *u.Stats
	}
	if u.ResumeURL != nil {
		set["resume_url"] = *u.ResumeURL
	}
	if u.LinkedInURL != nil {
		set["linkedin_url"] = *u.LinkedInURL
	}
	if u.GitHubURL != nil {
		set["github_url"] = *u.GitHubURL
	}

	var p models.StudentProfile
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"student_id": studentID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
