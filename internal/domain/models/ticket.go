package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketKind identifies which ticket collection a record belongs to.
type TicketKind string

// Ticket kinds.
const (
	TicketSupport  TicketKind = "support"
	TicketBug      TicketKind = "bug"
	TicketFeature  TicketKind = "feature"
	TicketHelp     TicketKind = "help"
	TicketFeedback TicketKind = "feedback"
)

// TicketKinds lists every ticket kind.
var TicketKinds = []TicketKind{TicketSupport, TicketBug, TicketFeature, TicketHelp, TicketFeedback}

// Ticket status values.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// TicketStatuses is the set of allowed Ticket.Status values.
var TicketStatuses = []string{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}

// Ticket priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// TicketPriorities is the set of allowed Ticket.Priority values.
var TicketPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Ticket is the shared shape of support tickets, bug reports, feature
// requests, help requests and feedback. Kind-specific fields are omitted when
// empty.
type Ticket struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TicketNumber string             `bson:"ticket_number" json:"ticket_number"`
	Kind         TicketKind         `bson:"kind" json:"kind"`

	StudentID   primitive.ObjectID `bson:"student_id" json:"student_id"`
	StudentName string             `bson:"student_name" json:"student_name"`
	Email       string             `bson:"email" json:"email"`

	Subject     string `bson:"subject" json:"subject"`
	Description string `bson:"description" json:"description"`
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	Priority    string `bson:"priority" json:"priority"`
	Status      string `bson:"status" json:"status"`

	// bug
	StepsToReproduce string `bson:"steps_to_reproduce,omitempty" json:"steps_to_reproduce,omitempty"`
	Severity         string `bson:"severity,omitempty" json:"severity,omitempty"`
	PageURL          string `bson:"page_url,omitempty" json:"page_url,omitempty"`
	// feature
	UseCase string `bson:"use_case,omitempty" json:"use_case,omitempty"`
	// feedback
	Rating int `bson:"rating,omitempty" json:"rating,omitempty"`

	Responses []TicketResponse `bson:"responses" json:"responses"`

	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	ResolvedAt *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// TicketResponse is a staff reply appended to a ticket.
type TicketResponse struct {
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Message    string             `bson:"message" json:"message"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Collection is the MongoDB collection holding tickets of kind k.
func (k TicketKind) Collection() string {
	switch k {
	case TicketSupport:
		return "support_tickets"
	case TicketBug:
		return "bug_reports"
	case TicketFeature:
		return "feature_requests"
	case TicketHelp:
		return "help_requests"
	case TicketFeedback:
		return "feedback"
	}
	return ""
}

// Prefix is the human-readable ticket number prefix for kind k.
func (k TicketKind) Prefix() string {
	switch k {
	case TicketSupport:
		return "TKT"
	case TicketBug:
		return "BUG"
	case TicketFeature:
		return "FEAT"
	case TicketHelp:
		return "HELP"
	case TicketFeedback:
		return "FDBK"
	}
	return ""
}

// IsValid reports whether k is a known ticket kind.
func (k TicketKind) IsValid() bool { return k.Collection() != "" }
