package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	profilestore "github.com/dalemusser/placementhub/internal/app/store/profiles"
	studentstore "github.com/dalemusser/placementhub/internal/app/store/students"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.uber.org/zap"
)

// Get handles GET /api/profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentPrincipal(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	prof, err := h.Profiles.GetByStudent(ctx, p.ID)
	if errors.Is(err, profilestore.ErrNotFound) {
		h.ErrLog.NotFound(w, err.Error())
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, prof)
}

// Update handles PUT /api/profile. Only fields present in the body change.
// Identity fields shared with the student record are written there too.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentPrincipal(r)

	var u profilestore.Update
	if err := jsonio.Decode(r, &u); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode profile update failed", err, "Invalid request body.")
		return
	}
	if res := inputval.Validate(u); res.HasErrors() {
		h.ErrLog.BadRequest(w, res.All())
		return
	}
	if msg := checkProjects(u.Projects); msg != "" {
		h.ErrLog.BadRequest(w, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	prof, err := h.Profiles.Update(ctx, p.ID, u)
	if errors.Is(err, profilestore.ErrNotFound) {
		h.ErrLog.NotFound(w, err.Error())
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update profile failed", err)
		return
	}

	sync := studentstore.AcademicUpdate{
		Name:       u.Name,
		Phone:      u.Phone,
		Department: u.Department,
		Batch:      u.Batch,
		CGPA:       u.CGPA,
		Backlogs:   u.Backlogs,
	}
	if sync != (studentstore.AcademicUpdate{}) {
		if err := h.Students.UpdateAcademic(ctx, p.ID, sync); err != nil {
			h.ErrLog.LogServerError(w, r, "sync student record failed", err)
			return
		}
	}

	h.Log.Info("profile updated", zap.String("student_id", p.ID.Hex()))
	jsonio.Write(w, http.StatusOK, prof)
}

func checkProjects(projects *[]models.Project) string {
	if projects == nil {
		return ""
	}
	for i, pr := range *projects {
		if pr.Title == "" {
			return fmt.Sprintf("Project %d needs a title.", i+1)
		}
		if pr.URL != "" && !inputval.IsValidHTTPURL(pr.URL) {
			return fmt.Sprintf("Project %d URL must be a valid http(s) URL.", i+1)
		}
	}
	return ""
}

type summaryResponse struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	ByStatus map[string]int64 `json:"by_status"`
}

// Summary handles GET /api/profile/summary: the caller's application counts.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentPrincipal(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	counts, err := h.Applications.CountByStatus(ctx, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count applications failed", err)
		return
	}
	resp := summaryResponse{ByStatus: counts}
	for status, n := range counts {
		resp.Total += n
		if status == models.ApplicationApplied || status == models.ApplicationInProgress {
			resp.Active += n
		}
	}
	jsonio.Write(w, http.StatusOK, resp)
}
