// internal/domain/models/companyresource.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation states for a CompanyResource.
const (
	ResourcePending  = "pending"
	ResourceApproved = "approved"
	ResourceRejected = "rejected"
)

// ResourceStatuses is the set of allowed CompanyResource.Status values.
var ResourceStatuses = []string{ResourcePending, ResourceApproved, ResourceRejected}

// Canonical company resource kinds.
const (
	ResourceKindLink     = "link"
	ResourceKindDocument = "document"
	ResourceKindVideo    = "video"
	ResourceKindNotes    = "notes"
	ResourceKindPaper    = "question_paper"
)

// ResourceKinds is the set of allowed CompanyResource.Kind values.
var ResourceKinds = []string{
	ResourceKindLink,
	ResourceKindDocument,
	ResourceKindVideo,
	ResourceKindNotes,
	ResourceKindPaper,
}

// CompanyResource is study material shared for a company. The material
// itself lives at URL; submissions stay pending until an admin moderates them.
type CompanyResource struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID   primitive.ObjectID `bson:"company_id" json:"company_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Kind        string             `bson:"kind" json:"kind"`
	URL         string             `bson:"url" json:"url"`

	UploadedBy   primitive.ObjectID `bson:"uploaded_by" json:"uploaded_by"`
	UploaderName string             `bson:"uploader_name" json:"uploader_name"`

	Status          string              `bson:"status" json:"status"`
	ModeratedBy     *primitive.ObjectID `bson:"moderated_by,omitempty" json:"moderated_by,omitempty"`
	ModeratedAt     *time.Time          `bson:"moderated_at,omitempty" json:"moderated_at,omitempty"`
	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
