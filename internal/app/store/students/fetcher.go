package studentstore

import (
	"context"

	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.PrincipalFetcher. Students are looked up in
// students and admins in admins; disabled admins are refused.
type Fetcher struct {
	students *mongo.Collection
	admins   *mongo.Collection
}

// NewFetcher creates a Fetcher over the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		students: db.Collection("students"),
		admins:   db.Collection("admins"),
	}
}

// FetchPrincipal returns fresh principal data, or nil when the account no
// longer exists, is disabled, or the lookup fails.
func (f *Fetcher) FetchPrincipal(ctx context.Context, id primitive.ObjectID, role string) *auth.Principal {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var doc struct {
		Name   string `bson:"name"`
		Email  string `bson:"email"`
		Status string `bson:"status"`
	}
	proj := options.FindOne().SetProjection(bson.M{"name": 1, "email": 1, "status": 1})

	switch role {
	case auth.RoleStudent:
		if err := f.students.FindOne(ctx, bson.M{"_id": id}, proj).Decode(&doc); err != nil {
			return nil
		}
	case auth.RoleAdmin:
		if err := f.admins.FindOne(ctx, bson.M{"_id": id}, proj).Decode(&doc); err != nil {
			return nil
		}
		if normalize.Status(doc.Status) == "disabled" {
			return nil
		}
	default:
		return nil
	}

	return &auth.Principal{ID: id, Role: role, Name: doc.Name, Email: doc.Email}
}
