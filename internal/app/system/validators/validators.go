// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/placementhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("students", studentsSchema())
	ensure("student_profiles", profilesSchema())
	ensure("companies", companiesSchema())
	ensure("student_applications", applicationsSchema())
	ensure("discussion_messages", messagesSchema())
	ensure("company_resources", resourcesSchema())
	ensure("notices", noticesSchema())
	ensure("magic_links", magicLinksSchema())
	ensure("admins", adminsSchema())
	for _, kind := range models.TicketKinds {
		ensure(kind.Collection(), ticketsSchema(kind))
	}

	// These don't need validators; we still ensure the collections exist.
	ensure("counters", nil)
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func enum(values []string) bson.A {
	out := bson.A{}
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func studentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "created_at"},
			"properties": bson.M{
				"email":           nonBlank,
				"name":            bson.M{"bsonType": "string"},
				"register_number": bson.M{"bsonType": "string"},
				"cgpa":            bson.M{"bsonType": "number", "minimum": 0, "maximum": 10},
				"backlogs":        bson.M{"bsonType": "number", "minimum": 0},
				"created_at":      bson.M{"bsonType": "date"},
			},
		},
	}
}

func profilesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"student_id", "email"},
			"properties": bson.M{
				"student_id": bson.M{"bsonType": "objectId"},
				"email":      nonBlank,
				"cgpa":       bson.M{"bsonType": "number", "minimum": 0, "maximum": 10},
				"skills":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			},
		},
	}
}

func companiesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "status"},
			"properties": bson.M{
				"name":              nonBlank,
				"name_ci":           nonBlank,
				"status":            bson.M{"enum": enum(models.CompanyStatuses)},
				"application_count": bson.M{"bsonType": "number", "minimum": 0},
				"apply_deadline":    bson.M{"bsonType": bson.A{"date", "null"}},
				"eligibility": bson.M{
					"bsonType": "object",
					"properties": bson.M{
						"min_cgpa": bson.M{"bsonType": "number", "minimum": 0, "maximum": 10},
					},
				},
				"events": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"_id", "title", "kind", "starts_at"},
						"properties": bson.M{
							"kind":      bson.M{"enum": enum(models.EventKinds)},
							"starts_at": bson.M{"bsonType": "date"},
						},
					},
				},
			},
		},
	}
}

func applicationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"student_id", "company_id", "status", "current_stage", "applied_at"},
			"properties": bson.M{
				"student_id": bson.M{"bsonType": "objectId"},
				"company_id": bson.M{"bsonType": "objectId"},
				"status":     bson.M{"enum": enum(models.ApplicationStatuses)},
				"applied_at": bson.M{"bsonType": "date"},
				"stage_history": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"stage", "result"},
						"properties": bson.M{
							"result": bson.M{"enum": enum(models.StageResults)},
						},
					},
				},
			},
		},
	}
}

func messagesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"company_id", "channel", "author_id", "content", "created_at"},
			"properties": bson.M{
				"company_id": bson.M{"bsonType": "objectId"},
				"channel":    bson.M{"enum": enum(models.Channels)},
				"author_id":  bson.M{"bsonType": "objectId"},
				"content":    nonBlank,
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func resourcesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"company_id", "title", "url", "kind", "status", "uploaded_by"},
			"properties": bson.M{
				"company_id":  bson.M{"bsonType": "objectId"},
				"title":       nonBlank,
				"url":         nonBlank,
				"kind":        bson.M{"enum": enum(models.ResourceKinds)},
				"status":      bson.M{"enum": enum(models.ResourceStatuses)},
				"uploaded_by": bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func noticesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "priority", "active"},
			"properties": bson.M{
				"title":      nonBlank,
				"priority":   bson.M{"enum": enum(models.NoticePriorities)},
				"active":     bson.M{"bsonType": "bool"},
				"expires_at": bson.M{"bsonType": bson.A{"date", "null"}},
			},
		},
	}
}

func magicLinksSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"token", "email", "student_id", "used", "expires_at"},
			"properties": bson.M{
				"token":      bson.M{"bsonType": "string", "minLength": 32},
				"student_id": bson.M{"bsonType": "objectId"},
				"used":       bson.M{"bsonType": "bool"},
				"expires_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func adminsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "password_hash", "status"},
			"properties": bson.M{
				"email":         nonBlank,
				"password_hash": nonBlank,
				"status":        bson.M{"enum": bson.A{"active", "disabled"}},
			},
		},
	}
}

func ticketsSchema(kind models.TicketKind) bson.M {
	props := bson.M{
		"ticket_number": nonBlank,
		"kind":          bson.M{"enum": bson.A{string(kind)}},
		"student_id":    bson.M{"bsonType": "objectId"},
		"subject":       nonBlank,
		"description":   nonBlank,
		"status":        bson.M{"enum": enum(models.TicketStatuses)},
		"priority":      bson.M{"enum": enum(models.TicketPriorities)},
	}
	required := bson.A{"ticket_number", "kind", "student_id", "subject", "description", "status", "priority"}
	if kind == models.TicketFeedback {
		props["rating"] = bson.M{"bsonType": "number", "minimum": 1, "maximum": 5}
		required = append(required, "rating")
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}
