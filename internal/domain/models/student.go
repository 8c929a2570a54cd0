// internal/domain/models/student.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is the canonical identity record for a student. It is created the
// first time a magic link is requested for the email address.
//
// The editable, richer view of a student lives in StudentProfile.
type Student struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	RegisterNumber string             `bson:"register_number,omitempty" json:"register_number,omitempty"`
	Email          string             `bson:"email" json:"email"` // lowercase
	Department     string             `bson:"department,omitempty" json:"department,omitempty"`
	Batch          int                `bson:"batch,omitempty" json:"batch,omitempty"` // graduation year
	CGPA           float64            `bson:"cgpa,omitempty" json:"cgpa,omitempty"`
	Backlogs       int                `bson:"backlogs" json:"backlogs"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
