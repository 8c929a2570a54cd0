package adminstore_test

import (
	"errors"
	"testing"

	adminstore "github.com/dalemusser/placementhub/internal/app/store/admins"
	"github.com/dalemusser/placementhub/internal/app/system/indexes"
	"github.com/dalemusser/placementhub/internal/testutil"
)

func TestCreateAndAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "Office", "office@uni.edu", "short"); !errors.Is(err, adminstore.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}

	a, err := store.Create(ctx, "  Placement   Office ", "Office@Uni.edu", "correct horse")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Email != "office@uni.edu" || a.Name != "Placement Office" {
		t.Errorf("fields not normalized: %+v", a)
	}
	if a.PasswordHash == "correct horse" || a.PasswordHash == "" {
		t.Error("password should be hashed")
	}

	got, err := store.Authenticate(ctx, "OFFICE@uni.edu", "correct horse")
	if err != nil || got.ID != a.ID {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, err := store.Authenticate(ctx, "office@uni.edu", "wrong"); !errors.Is(err, adminstore.ErrInvalidCredentials) {
		t.Errorf("wrong password: %v", err)
	}
	if _, err := store.Authenticate(ctx, "nobody@uni.edu", "correct horse"); !errors.Is(err, adminstore.ErrInvalidCredentials) {
		t.Errorf("unknown email: %v", err)
	}

	if err := store.SetStatus(ctx, a.ID, adminstore.StatusDisabled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if _, err := store.Authenticate(ctx, "office@uni.edu", "correct horse"); !errors.Is(err, adminstore.ErrInvalidCredentials) {
		t.Errorf("disabled admin: %v", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := adminstore.New(db)

	a, created, err := store.EnsureAdmin(ctx, "Office", "office@uni.edu", "password123")
	if err != nil || !created {
		t.Fatalf("first EnsureAdmin: created=%v err=%v", created, err)
	}
	b, created, err := store.EnsureAdmin(ctx, "Office", "office@uni.edu", "different-pass")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin: created=%v err=%v", created, err)
	}
	if a.ID != b.ID {
		t.Error("EnsureAdmin should return the existing admin")
	}
	if _, err := store.Create(ctx, "Dup", "office@uni.edu", "password123"); !errors.Is(err, adminstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}
