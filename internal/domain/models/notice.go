// internal/domain/models/notice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notice priorities.
const (
	NoticeInfo      = "info"
	NoticeImportant = "important"
	NoticeUrgent    = "urgent"
)

// NoticePriorities is the set of allowed Notice.Priority values.
var NoticePriorities = []string{NoticeInfo, NoticeImportant, NoticeUrgent}

// Notice is an admin-authored banner shown to students until it expires or
// is deactivated.
type Notice struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Content  string             `bson:"content" json:"content"`
	Priority string             `bson:"priority" json:"priority"`
	Link     string             `bson:"link,omitempty" json:"link,omitempty"`
	Active   bool               `bson:"active" json:"active"`

	ExpiresAt *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// IsVisible reports whether the notice should be shown at time now.
func (n *Notice) IsVisible(now time.Time) bool {
	if !n.Active {
		return false
	}
	return n.ExpiresAt == nil || now.Before(*n.ExpiresAt)
}
