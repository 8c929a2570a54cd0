package applications

import (
	"context"
	"net/http"

	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
)

// Mine handles GET /api/applications/mine.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	apps, err := h.Store.ListByStudent(ctx, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list applications failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, apps)
}

// Get handles GET /api/applications/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid application id")
		return
	}
	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.storeError(w, r, "load application failed", err)
		return
	}
	if !visible(p, app) {
		h.ErrLog.NotFound(w, "application not found")
		return
	}
	jsonio.Write(w, http.StatusOK, app)
}
