package profilestore_test

import (
	"errors"
	"testing"

	profilestore "github.com/dalemusser/placementhub/internal/app/store/profiles"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureForStudent_CreatesOnceFromStudent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st := &models.Student{
		ID:             primitive.NewObjectID(),
		Name:           "Asha Rao",
		Email:          "asha@uni.edu",
		RegisterNumber: "21CS101",
		Department:     "CSE",
		Batch:          2025,
		CGPA:           8.1,
	}

	p, created, err := store.EnsureForStudent(ctx, st)
	if err != nil {
		t.Fatalf("EnsureForStudent failed: %v", err)
	}
	if !created {
		t.Error("expected created=true on first call")
	}
	if p.StudentID != st.ID || p.Name != st.Name || p.CGPA != st.CGPA || p.Department != "CSE" {
		t.Errorf("profile not denormalized from student: %+v", p)
	}
	if p.Skills == nil || p.Projects == nil {
		t.Error("expected empty, non-nil skills and projects")
	}

	st.Name = "Changed"
	again, created, err := store.EnsureForStudent(ctx, st)
	if err != nil {
		t.Fatalf("second EnsureForStudent failed: %v", err)
	}
	if created {
		t.Error("expected created=false on second call")
	}
	if again.ID != p.ID || again.Name != "Asha Rao" {
		t.Errorf("existing profile replaced: %+v", again)
	}
}

func TestGetByStudent_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByStudent(ctx, primitive.NewObjectID()); !errors.Is(err, profilestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_SelectiveFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st := &models.Student{ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@uni.edu", Phone: "999"}
	if _, _, err := store.EnsureForStudent(ctx, st); err != nil {
		t.Fatalf("EnsureForStudent: %v", err)
	}

	skills := []string{"Go", " go ", "MongoDB", ""}
	gh := "https://github.com/asha"
	got, err := store.Update(ctx, st.ID, profilestore.Update{Skills: &skills, GitHubURL: &gh})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "Go" || got.Skills[1] != "MongoDB" {
		t.Errorf("Skills: got %v", got.Skills)
	}
	if got.GitHubURL != gh {
		t.Errorf("GitHubURL: got %q", got.GitHubURL)
	}
	if got.Phone != "999" {
		t.Errorf("Phone should be untouched, got %q", got.Phone)
	}
}

func TestUpdate_NoProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	name := "x"
	if _, err := store.Update(ctx, primitive.NewObjectID(), profilestore.Update{Name: &name}); !errors.Is(err, profilestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
