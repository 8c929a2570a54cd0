package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MagicLink is a single-use, time-limited login token emailed to a student.
type MagicLink struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Token     string             `bson:"token"` // 64 hex chars
	Email     string             `bson:"email"`
	StudentID primitive.ObjectID `bson:"student_id"`
	Used      bool               `bson:"used"`
	UsedAt    *time.Time         `bson:"used_at,omitempty"`
	ExpiresAt time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt time.Time          `bson:"created_at"`
	IP        string             `bson:"ip,omitempty"`
}
