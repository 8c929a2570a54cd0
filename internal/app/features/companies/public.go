package companies

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/placementhub/internal/app/policy/eligibilitypolicy"
	companystore "github.com/dalemusser/placementhub/internal/app/store/companies"
	profilestore "github.com/dalemusser/placementhub/internal/app/store/profiles"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// List handles GET /api/companies?status=&q=&eligible=true.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := normalize.Status(query.Get(r, "status"))
	if status != "" && !inputval.OneOf(status, models.CompanyStatuses) {
		h.ErrLog.BadRequest(w, `status must be "upcoming", "open" or "closed"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.List(ctx, companystore.ListFilter{Status: status, Query: query.Get(r, "q")})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list companies failed", err)
		return
	}

	p, _ := auth.CurrentPrincipal(r)
	if query.Get(r, "eligible") == "true" && p.IsStudent() {
		cand, err := h.candidate(ctx, p)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load eligibility record failed", err)
			return
		}
		kept := list[:0]
		for _, c := range list {
			if eligibilitypolicy.Eligible(cand, c.Eligibility) {
				kept = append(kept, c)
			}
		}
		list = kept
	}

	jsonio.Write(w, http.StatusOK, list)
}

// candidate prefers the profile and falls back to the student record.
func (h *Handler) candidate(ctx context.Context, p *auth.Principal) (eligibilitypolicy.Candidate, error) {
	prof, err := h.Profiles.GetByStudent(ctx, p.ID)
	if err == nil {
		return eligibilitypolicy.FromProfile(prof), nil
	}
	if !errors.Is(err, profilestore.ErrNotFound) {
		return eligibilitypolicy.Candidate{}, err
	}
	st, err := h.Students.GetByID(ctx, p.ID)
	if err != nil {
		return eligibilitypolicy.Candidate{}, err
	}
	return eligibilitypolicy.FromStudent(st), nil
}

type companyView struct {
	models.Company
	Eligible        *bool    `json:"eligible,omitempty"`
	IneligibleFor   []string `json:"ineligible_reasons,omitempty"`
	AlreadyApplied  bool     `json:"already_applied"`
	ParticipantsCnt int      `json:"participant_count"`
}

// Get handles GET /api/companies/{id}. Participants are only returned to
// admins; students see their own eligibility instead.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid company id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.storeError(w, r, "load company failed", err)
		return
	}

	view := companyView{Company: c, ParticipantsCnt: len(c.Participants)}
	p, _ := auth.CurrentPrincipal(r)
	if !p.IsAdmin() {
		view.Participants = nil
	}
	if p.IsStudent() {
		cand, err := h.candidate(ctx, p)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load eligibility record failed", err)
			return
		}
		reasons := eligibilitypolicy.Check(cand, c.Eligibility)
		ok := len(reasons) == 0
		view.Eligible = &ok
		view.IneligibleFor = reasons
		for _, pt := range c.Participants {
			if pt.StudentID == p.ID {
				view.AlreadyApplied = true
				break
			}
		}
	}
	jsonio.Write(w, http.StatusOK, view)
}
