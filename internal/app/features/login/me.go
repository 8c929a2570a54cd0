package login

import (
	"context"
	"errors"
	"net/http"

	adminstore "github.com/dalemusser/placementhub/internal/app/store/admins"
	profilestore "github.com/dalemusser/placementhub/internal/app/store/profiles"
	studentstore "github.com/dalemusser/placementhub/internal/app/store/students"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
)

type meResponse struct {
	Role    string                 `json:"role"`
	Student *models.Student        `json:"student,omitempty"`
	Profile *models.StudentProfile `json:"profile,omitempty"`
	Admin   *models.Admin          `json:"admin,omitempty"`
}

// Me handles GET /api/auth/me and describes the signed-in caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		h.ErrLog.Unauthorized(w, "valid authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if p.IsAdmin() {
		a, err := h.Admins.GetByID(ctx, p.ID)
		if errors.Is(err, adminstore.ErrNotFound) {
			h.ErrLog.Unauthorized(w, "account no longer exists")
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load admin failed", err)
			return
		}
		jsonio.Write(w, http.StatusOK, meResponse{Role: auth.RoleAdmin, Admin: &a})
		return
	}

	st, err := h.Students.GetByID(ctx, p.ID)
	if errors.Is(err, studentstore.ErrNotFound) {
		h.ErrLog.Unauthorized(w, "account no longer exists")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load student failed", err)
		return
	}
	resp := meResponse{Role: auth.RoleStudent, Student: st}
	prof, err := h.Profiles.GetByStudent(ctx, p.ID)
	switch {
	case err == nil:
		resp.Profile = prof
	case !errors.Is(err, profilestore.ErrNotFound):
		h.ErrLog.LogServerError(w, r, "load profile failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, resp)
}
