package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/placementhub/internal/app/system/validators"
	"github.com/dalemusser/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) *mongo.Database {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return db
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{
		"students", "student_profiles", "companies", "student_applications",
		"discussion_messages", "company_resources", "notices", "magic_links",
		"admins", "counters", "audit_events",
		"support_tickets", "bug_reports", "feature_requests", "help_requests", "feedback",
	} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestValidators(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	tests := []struct {
		name  string
		coll  string
		doc   bson.M
		valid bool
	}{
		{"student ok", "students", bson.M{"email": "a@uni.edu", "created_at": now}, true},
		{"student missing email", "students", bson.M{"created_at": now}, false},
		{"student cgpa out of range", "students", bson.M{"email": "b@uni.edu", "created_at": now, "cgpa": 11.5}, false},

		{"company ok", "companies", bson.M{"name": "Acme", "name_ci": "acme", "status": "open"}, true},
		{"company bad status", "companies", bson.M{"name": "Acme2", "name_ci": "acme2", "status": "paused"}, false},
		{"company blank name", "companies", bson.M{"name": "  ", "name_ci": "x", "status": "open"}, false},

		{"application ok", "student_applications", bson.M{
			"student_id": primitive.NewObjectID(), "company_id": primitive.NewObjectID(),
			"status": "applied", "current_stage": "applied", "applied_at": now,
		}, true},
		{"application bad status", "student_applications", bson.M{
			"student_id": primitive.NewObjectID(), "company_id": primitive.NewObjectID(),
			"status": "hired", "current_stage": "applied", "applied_at": now,
		}, false},
		{"application bad stage result", "student_applications", bson.M{
			"student_id": primitive.NewObjectID(), "company_id": primitive.NewObjectID(),
			"status": "in_progress", "current_stage": "test", "applied_at": now,
			"stage_history": bson.A{bson.M{"stage": "test", "result": "maybe"}},
		}, false},

		{"message ok", "discussion_messages", bson.M{
			"company_id": primitive.NewObjectID(), "channel": "general",
			"author_id": primitive.NewObjectID(), "content": "hi", "created_at": now,
		}, true},
		{"message bad channel", "discussion_messages", bson.M{
			"company_id": primitive.NewObjectID(), "channel": "random",
			"author_id": primitive.NewObjectID(), "content": "hi", "created_at": now,
		}, false},

		{"resource bad status", "company_resources", bson.M{
			"company_id": primitive.NewObjectID(), "title": "t", "url": "https://x", "kind": "link",
			"status": "hidden", "uploaded_by": primitive.NewObjectID(),
		}, false},

		{"notice bad priority", "notices", bson.M{"title": "t", "priority": "low", "active": true}, false},

		{"feedback missing rating", "feedback", bson.M{
			"ticket_number": "FDBK-000001", "kind": "feedback", "student_id": primitive.NewObjectID(),
			"subject": "s", "description": "d", "status": "open", "priority": "medium",
		}, false},
		{"bug ok", "bug_reports", bson.M{
			"ticket_number": "BUG-000001", "kind": "bug", "student_id": primitive.NewObjectID(),
			"subject": "s", "description": "d", "status": "open", "priority": "high",
		}, true},
		{"bug in wrong collection", "help_requests", bson.M{
			"ticket_number": "BUG-000002", "kind": "bug", "student_id": primitive.NewObjectID(),
			"subject": "s", "description": "d", "status": "open", "priority": "high",
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if tt.valid && err != nil {
				t.Errorf("expected insert to succeed, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
