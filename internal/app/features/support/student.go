package support

import (
	"context"
	"net/http"

	"github.com/dalemusser/placementhub/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.uber.org/zap"
)

type ticketInput struct {
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	Category    string `json:"category" validate:"max=100"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`

	StepsToReproduce string `json:"steps_to_reproduce" validate:"max=5000"`
	Severity         string `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	PageURL          string `json:"page_url" validate:"omitempty,httpurl"`
	UseCase          string `json:"use_case" validate:"max=2000"`
	Rating           int    `json:"rating"`
}

func (in *ticketInput) clean() {
	in.Subject = htmlsanitize.Text(in.Subject)
	in.Description = htmlsanitize.Text(in.Description)
	in.Category = htmlsanitize.Text(in.Category)
	in.Priority = normalize.Status(in.Priority)
	in.StepsToReproduce = htmlsanitize.Text(in.StepsToReproduce)
	in.Severity = normalize.Status(in.Severity)
	in.UseCase = htmlsanitize.Text(in.UseCase)
}

// Create handles POST /api/support/{kind}. Fields that do not belong to the
// kind are ignored.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	var in ticketInput
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode ticket failed", err, "Invalid request body.")
		return
	}
	in.clean()
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.BadRequest(w, res.First())
		return
	}
	if kind == models.TicketFeedback && (in.Rating < 1 || in.Rating > 5) {
		h.ErrLog.BadRequest(w, "rating must be between 1 and 5")
		return
	}

	p, _ := auth.CurrentPrincipal(r)
	t := models.Ticket{
		Kind:        kind,
		StudentID:   p.ID,
		StudentName: p.Name,
		Email:       p.Email,
		Subject:     in.Subject,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
	}
	switch kind {
	case models.TicketBug:
		t.StepsToReproduce = in.StepsToReproduce
		t.Severity = in.Severity
		t.PageURL = in.PageURL
	case models.TicketFeature:
		t.UseCase = in.UseCase
	case models.TicketFeedback:
		t.Rating = in.Rating
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, t)
	if err != nil {
		h.storeError(w, r, "create ticket failed", err)
		return
	}
	h.Log.Info("ticket created",
		zap.String("ticket_number", created.TicketNumber),
		zap.String("student_id", p.ID.Hex()))
	jsonio.Write(w, http.StatusCreated, created)
}

// Mine handles GET /api/support/{kind}/mine.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.ListByStudent(ctx, kind, p.ID)
	if err != nil {
		h.storeError(w, r, "list tickets failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, list)
}

// Get handles GET /api/support/{kind}/{number}. Students only see their own
// tickets.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Store.GetByNumber(ctx, kind, number(r))
	if err != nil {
		h.storeError(w, r, "load ticket failed", err)
		return
	}
	if !ownerpolicy.OwnsOrAdmin(p, t.StudentID) {
		h.ErrLog.NotFound(w, "ticket not found")
		return
	}
	jsonio.Write(w, http.StatusOK, t)
}
