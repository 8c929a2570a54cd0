// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MagicLinkRetention is how long an expired magic link stays before the TTL
// monitor removes it.
const MagicLinkRetention = 24 * time.Hour

/*
EnsureAll is called at startup. Each collection's set is reconciled
idempotently. Errors are aggregated so every problem is visible and startup
can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, set := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(set.collection), set.models); err != nil {
			problems = append(problems, set.collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

func desired() []indexSet {
	sets := []indexSet{
		{"students", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_students_email"),
			},
			// register_number is optional at first login, so the unique
			// index skips documents without it.
			{
				Keys:    bson.D{{Key: "register_number", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_students_register_number"),
			},
			{
				Keys:    bson.D{{Key: "department", Value: 1}, {Key: "batch", Value: 1}},
				Options: options.Index().SetName("idx_students_department_batch"),
			},
		}},
		{"student_profiles", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "student_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_profiles_student"),
			},
		}},
		{"companies", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_companies_nameci"),
			},
			// Status filter, then name sort.
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "name_ci", Value: 1}},
				Options: options.Index().SetName("idx_companies_status_nameci"),
			},
			{
				Keys:    bson.D{{Key: "events.starts_at", Value: 1}},
				Options: options.Index().SetName("idx_companies_event_starts"),
			},
			{
				Keys:    bson.D{{Key: "apply_deadline", Value: 1}},
				Options: options.Index().SetName("idx_companies_apply_deadline"),
			},
		}},
		{"student_applications", []mongo.IndexModel{
			// One application per student per company.
			{
				Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "company_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_applications_student_company"),
			},
			{
				Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "applied_at", Value: -1}},
				Options: options.Index().SetName("idx_applications_student_applied"),
			},
			{
				Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName("idx_applications_company_status"),
			},
		}},
		{"discussion_messages", []mongo.IndexModel{
			// Channel history paging: newest first by _id.
			{
				Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "channel", Value: 1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("idx_messages_company_channel_id"),
			},
		}},
		{"company_resources", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_resources_company_status_created"),
			},
			{
				Keys:    bson.D{{Key: "uploaded_by", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_resources_uploader_created"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_resources_status_created"),
			},
		}},
		{"notices", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "active", Value: 1}, {Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("idx_notices_active_expires"),
			},
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_notices_created"),
			},
		}},
		{"magic_links", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "token", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_magiclinks_token"),
			},
			{
				Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "used", Value: 1}},
				Options: options.Index().SetName("idx_magiclinks_student_used"),
			},
			{
				Keys: bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().
					SetExpireAfterSeconds(int32(MagicLinkRetention / time.Second)).
					SetName("ttl_magiclinks_expires"),
			},
		}},
		{"admins", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_admins_email"),
			},
		}},
		{"audit_events", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_user_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_category_type_timestamp"),
			},
		}},
	}

	// Every ticket kind gets the same set.
	for _, kind := range models.TicketKinds {
		coll := kind.Collection()
		sets = append(sets, indexSet{coll, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "ticket_number", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_" + coll + "_number"),
			},
			{
				Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_" + coll + "_student_created"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_" + coll + "_status_created"),
			},
		}})
	}
	return sets
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name               string `bson:"name"`
	Key                bson.D `bson:"key"`
	Unique             *bool  `bson:"unique,omitempty"`
	Sparse             *bool  `bson:"sparse,omitempty"`
	ExpireAfterSeconds *int32 `bson:"expireAfterSeconds,omitempty"`
}

// indexOpts is the subset of options we reconcile.
type indexOpts struct {
	name   string
	unique bool
	sparse bool
	ttl    int32 // -1 when not a TTL index
}

func desiredOpts(m mongo.IndexModel) indexOpts {
	o := indexOpts{ttl: -1}
	if m.Options == nil {
		return o
	}
	if m.Options.Name != nil {
		o.name = *m.Options.Name
	}
	if m.Options.Unique != nil {
		o.unique = *m.Options.Unique
	}
	if m.Options.Sparse != nil {
		o.sparse = *m.Options.Sparse
	}
	if m.Options.ExpireAfterSeconds != nil {
		o.ttl = *m.Options.ExpireAfterSeconds
	}
	return o
}

func (ex existingIndex) opts() indexOpts {
	o := indexOpts{name: ex.Name, ttl: -1}
	if ex.Unique != nil {
		o.unique = *ex.Unique
	}
	if ex.Sparse != nil {
		o.sparse = *ex.Sparse
	}
	if ex.ExpireAfterSeconds != nil {
		o.ttl = *ex.ExpireAfterSeconds
	}
	return o
}

// sameOptions compares everything but the name.
func sameOptions(a, b indexOpts) bool {
	return a.unique == b.unique && a.sparse == b.sparse && a.ttl == b.ttl
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A missing collection lists as empty on modern servers; anything
		// else we report but still try to create.
		zap.L().Warn("list indexes failed", zap.String("collection", coll.Name()), zap.Error(err))
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		want := desiredOpts(m)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", want.name),
			zap.String("keys", sig),
			zap.Bool("unique", want.unique),
		}

		if ex, ok := existing[sig]; ok {
			have := ex.opts()
			if sameOptions(want, have) && (want.name == "" || want.name == have.name) {
				zap.L().Debug("reusing existing index", fields...)
				continue
			}
			// Options or name differ: drop and recreate.
			zap.L().Info("replacing index",
				append(fields, zap.String("existing_name", ex.Name))...)
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), want.name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && want.unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), want.name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), want.name, err))
			}
			zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
			continue
		}
		zap.L().Info("index ensured",
			append(fields, zap.String("took", time.Since(start).String()))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
