// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application status values.
const (
	ApplicationApplied    = "applied"
	ApplicationInProgress = "in_progress"
	ApplicationSelected   = "selected"
	ApplicationRejected   = "rejected"
	ApplicationWithdrawn  = "withdrawn"
)

// ApplicationStatuses is the set of allowed StudentApplication.Status values.
var ApplicationStatuses = []string{
	ApplicationApplied,
	ApplicationInProgress,
	ApplicationSelected,
	ApplicationRejected,
	ApplicationWithdrawn,
}

// Stage result values submitted with a pipeline update.
const (
	StageResultPassed  = "passed"
	StageResultFailed  = "failed"
	StageResultPending = "pending"
)

// StageResults is the set of allowed StageEntry.Result values.
var StageResults = []string{StageResultPassed, StageResultFailed, StageResultPending}

// StudentApplication joins a Student and a Company. There is at most one per
// (student_id, company_id) pair.
type StudentApplication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID   primitive.ObjectID `bson:"student_id" json:"student_id"`
	CompanyID   primitive.ObjectID `bson:"company_id" json:"company_id"`
	CompanyName string             `bson:"company_name" json:"company_name"`
	StudentName string             `bson:"student_name,omitempty" json:"student_name,omitempty"`

	CurrentStage string       `bson:"current_stage" json:"current_stage"`
	Status       string       `bson:"status" json:"status"`
	StageHistory []StageEntry `bson:"stage_history" json:"stage_history"`

	AppliedAt time.Time `bson:"applied_at" json:"applied_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StageEntry is one line of an application's stage history.
type StageEntry struct {
	Stage      string              `bson:"stage" json:"stage"`
	Result     string              `bson:"result" json:"result"`
	Note       string              `bson:"note,omitempty" json:"note,omitempty"`
	RecordedBy *primitive.ObjectID `bson:"recorded_by,omitempty" json:"recorded_by,omitempty"`
	RecordedAt time.Time           `bson:"recorded_at" json:"recorded_at"`
}
