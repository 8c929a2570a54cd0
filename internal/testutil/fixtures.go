package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	return WithChiURLParams(r, map[string]string{key: value})
}

// WithChiURLParams adds several chi URL parameters at once.
func WithChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateStudent inserts a CSE 2025 student with a 8.0 CGPA.
func (f *Fixtures) CreateStudent(ctx context.Context, name, email string) models.Student {
	f.t.Helper()
	now := time.Now().UTC()
	st := models.Student{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Email:      strings.ToLower(email),
		Department: "CSE",
		Batch:      2025,
		CGPA:       8.0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "students", st)
	return st
}

// CreateProfile inserts a profile copied from st.
func (f *Fixtures) CreateProfile(ctx context.Context, st models.Student) models.StudentProfile {
	f.t.Helper()
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
		Skills:         []string{},
		Projects:       []models.Project{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "student_profiles", p)
	return p
}

// CreateStudentWithProfile inserts a student and its profile.
func (f *Fixtures) CreateStudentWithProfile(ctx context.Context, name, email string) (models.Student, models.StudentProfile) {
	f.t.Helper()
	st := f.CreateStudent(ctx, name, email)
	return st, f.CreateProfile(ctx, st)
}

// CreateCompany inserts a company with the given status and a three-stage
// process (Aptitude, Technical, HR).
func (f *Fixtures) CreateCompany(ctx context.Context, name, status string) models.Company {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.Company{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
		Role:   "Software Engineer",
		Status: status,
		Process: []models.ProcessStage{
			{Order: 1, Name: "Aptitude", Kind: models.StageKindAptitude},
			{Order: 2, Name: "Technical", Kind: models.StageKindTechnical},
			{Order: 3, Name: "HR", Kind: models.StageKindHR},
		},
		Events:       []models.CompanyEvent{},
		Participants: []models.Participant{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "companies", c)
	return c
}

// CreateCompanyWith inserts c after filling in ID, NameCI and timestamps.
func (f *Fixtures) CreateCompanyWith(ctx context.Context, c models.Company) models.Company {
	f.t.Helper()
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.NameCI = text.Fold(c.Name)
	if c.Status == "" {
		c.Status = models.CompanyStatusOpen
	}
	if c.Process == nil {
		c.Process = []models.ProcessStage{}
	}
	if c.Events == nil {
		c.Events = []models.CompanyEvent{}
	}
	if c.Participants == nil {
		c.Participants = []models.Participant{}
	}
	c.CreatedAt, c.UpdatedAt = now, now
	f.insert(ctx, "companies", c)
	return c
}

// CreateApplication inserts an application in the applied state.
func (f *Fixtures) CreateApplication(ctx context.Context, st models.Student, c models.Company) models.StudentApplication {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.StudentApplication{
		ID:           primitive.NewObjectID(),
		StudentID:    st.ID,
		CompanyID:    c.ID,
		CompanyName:  c.Name,
		StudentName:  st.Name,
		CurrentStage: models.ApplicationApplied,
		Status:       models.ApplicationApplied,
		StageHistory: []models.StageEntry{},
		AppliedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "student_applications", a)
	return a
}

// CreateMessage inserts a discussion message authored by author.
func (f *Fixtures) CreateMessage(ctx context.Context, companyID primitive.ObjectID, channel string, author models.Student, content string) models.DiscussionMessage {
	f.t.Helper()
	m := models.DiscussionMessage{
		ID:         primitive.NewObjectID(),
		CompanyID:  companyID,
		Channel:    channel,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		AuthorRole: "student",
		Content:    content,
		Replies:    []models.Reply{},
		Reactions:  []models.Reaction{},
		CreatedAt:  time.Now().UTC(),
	}
	f.insert(ctx, "discussion_messages", m)
	return m
}

// CreateNotice inserts an active notice. A nil expiresAt never expires.
func (f *Fixtures) CreateNotice(ctx context.Context, title string, expiresAt *time.Time) models.Notice {
	f.t.Helper()
	now := time.Now().UTC()
	n := models.Notice{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   title + " details",
		Priority:  models.NoticeInfo,
		Active:    true,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "notices", n)
	return n
}
