package support

import (
	"context"
	"net/http"

	"github.com/dalemusser/placementhub/internal/app/store/audit"
	ticketstore "github.com/dalemusser/placementhub/internal/app/store/tickets"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// AdminList handles GET /api/admin/support/{kind}?status=.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	status := normalize.Status(query.Get(r, "status"))
	if status != "" && !inputval.OneOf(status, models.TicketStatuses) {
		h.ErrLog.BadRequest(w, "unknown ticket status "+status)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.List(ctx, kind, status)
	if err != nil {
		h.storeError(w, r, "list tickets failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, list)
}

type updateInput struct {
	Status   *string `json:"status"`
	Response *string `json:"response"`
}

// AdminUpdate handles PATCH /api/admin/support/{kind}/{number}. A response
// is appended to the ticket's responses.
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	var in updateInput
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode ticket update failed", err, "Invalid request body.")
		return
	}

	actor, _ := auth.CurrentPrincipal(r)
	var u ticketstore.Update
	details := map[string]string{}
	if in.Status != nil {
		s := normalize.Status(*in.Status)
		if !inputval.OneOf(s, models.TicketStatuses) {
			h.ErrLog.BadRequest(w, "unknown ticket status "+s)
			return
		}
		u.Status = &s
		details["status"] = s
	}
	if in.Response != nil {
		msg := htmlsanitize.Text(*in.Response)
		if msg == "" {
			h.ErrLog.BadRequest(w, "response must not be empty")
			return
		}
		if len([]rune(msg)) > 5000 {
			h.ErrLog.BadRequest(w, "response must be at most 5000 characters")
			return
		}
		u.Response = &models.TicketResponse{AuthorID: actor.ID, AuthorName: actor.Name, Message: msg}
		details["responded"] = "true"
	}
	if u.Status == nil && u.Response == nil {
		h.ErrLog.BadRequest(w, "nothing to update; send status and/or response")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Store.Update(ctx, kind, number(r), u)
	if err != nil {
		h.storeError(w, r, "update ticket failed", err)
		return
	}
	details["ticket_number"] = t.TicketNumber
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventTicketUpdated, t.ID, details)
	jsonio.Write(w, http.StatusOK, t)
}
