// internal/domain/models/company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company status values.
const (
	CompanyStatusUpcoming = "upcoming"
	CompanyStatusOpen     = "open"
	CompanyStatusClosed   = "closed"
)

// CompanyStatuses is the set of allowed Company.Status values.
var CompanyStatuses = []string{CompanyStatusUpcoming, CompanyStatusOpen, CompanyStatusClosed}

// Recruitment process stage kinds.
const (
	StageKindAptitude  = "aptitude"
	StageKindCoding    = "coding"
	StageKindGD        = "group_discussion"
	StageKindTechnical = "technical"
	StageKindHR        = "hr"
	StageKindOther     = "other"
)

// Company event kinds shown on the placement calendar.
const (
	EventKindPrePlacementTalk = "pre_placement_talk"
	EventKindTest             = "test"
	EventKindInterview        = "interview"
	EventKindResult           = "result"
	EventKindOther            = "other"
)

// EventKinds is the set of allowed CompanyEvent.Kind values.
var EventKinds = []string{
	EventKindPrePlacementTalk,
	EventKindTest,
	EventKindInterview,
	EventKindResult,
	EventKindOther,
}

// Company is a recruiter visiting campus.
//
// Events and Participants are embedded sub-documents; an application also
// exists as its own document in student_applications.
type Company struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped

	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Website     string  `bson:"website,omitempty" json:"website,omitempty"`
	LogoURL     string  `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	Industry    string  `bson:"industry,omitempty" json:"industry,omitempty"`
	Role        string  `bson:"role,omitempty" json:"role,omitempty"`
	PackageLPA  float64 `bson:"package_lpa,omitempty" json:"package_lpa,omitempty"`
	Location    string  `bson:"location,omitempty" json:"location,omitempty"`
	Status      string  `bson:"status" json:"status"`

	ApplyDeadline *time.Time `bson:"apply_deadline,omitempty" json:"apply_deadline,omitempty"`

	Eligibility  Eligibility    `bson:"eligibility" json:"eligibility"`
	Process      []ProcessStage `bson:"process" json:"process"`
	Events       []CompanyEvent `bson:"events" json:"events"`
	Participants []Participant  `bson:"participants" json:"participants,omitempty"`

	ApplicationCount int `bson:"application_count" json:"application_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Eligibility holds a company's shortlisting criteria. Zero values mean
// "no restriction".
type Eligibility struct {
	MinCGPA     float64  `bson:"min_cgpa,omitempty" json:"min_cgpa,omitempty"`
	Departments []string `bson:"departments,omitempty" json:"departments,omitempty"`
	Batches     []int    `bson:"batches,omitempty" json:"batches,omitempty"`
	MaxBacklogs *int     `bson:"max_backlogs,omitempty" json:"max_backlogs,omitempty"`
}

// ProcessStage is one step of a company's recruitment process.
type ProcessStage struct {
	Order       int    `bson:"order" json:"order"`
	Name        string `bson:"name" json:"name"`
	Kind        string `bson:"kind,omitempty" json:"kind,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// CompanyEvent is a scheduled event (talk, test, interview) for a company.
type CompanyEvent struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Kind        string             `bson:"kind" json:"kind"`
	StartsAt    time.Time          `bson:"starts_at" json:"starts_at"`
	EndsAt      *time.Time         `bson:"ends_at,omitempty" json:"ends_at,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Link        string             `bson:"link,omitempty" json:"link,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// Participant records a student who applied to a company.
type Participant struct {
	StudentID    primitive.ObjectID `bson:"student_id" json:"student_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
}

// FinalStage returns the name of the last stage of the process, or "" when
// the company has no process defined.
func (c *Company) FinalStage() string {
	if len(c.Process) == 0 {
		return ""
	}
	last := c.Process[0]
	for _, s := range c.Process[1:] {
		if s.Order >= last.Order {
			last = s
		}
	}
	return last.Name
}

// FirstStage returns the name of the first stage of the process, or "".
func (c *Company) FirstStage() string {
	if len(c.Process) == 0 {
		return ""
	}
	first := c.Process[0]
	for _, s := range c.Process[1:] {
		if s.Order < first.Order {
			first = s
		}
	}
	return first.Name
}
