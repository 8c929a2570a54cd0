package discussions

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/paging"
	"github.com/dalemusser/placementhub/internal/app/system/realtime"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// room reads the company id and channel from the URL. It writes the error
// response itself and reports false on failure.
func (h *Handler) room(w http.ResponseWriter, r *http.Request) (realtime.Room, bool) {
	companyID, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid company id")
		return realtime.Room{}, false
	}
	channel := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "channel")))
	if !models.IsChannel(channel) {
		h.ErrLog.BadRequest(w, "unknown channel; expected one of "+strings.Join(models.Channels, ", "))
		return realtime.Room{}, false
	}
	return realtime.Room{CompanyID: companyID, Channel: channel}, true
}

type listResponse struct {
	Messages []models.DiscussionMessage `json:"messages"`
	paging.Cursor
}

// List handles GET /api/companies/{id}/discussions/{channel}?before=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	room, ok := h.room(w, r)
	if !ok {
		return
	}
	before, err := paging.ParseBefore(r)
	if err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	limit := paging.ParseLimit(r, paging.DefaultLimit, paging.MaxLimit)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	msgs, err := h.Store.ListChannel(ctx, room.CompanyID, room.Channel, before, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list messages failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, listResponse{
		Messages: msgs,
		Cursor: paging.NextCursor(msgs, limit, func(m models.DiscussionMessage) primitive.ObjectID {
			return m.ID
		}),
	})
}

type contentInput struct {
	Content string `json:"content"`
}

// Create handles POST /api/companies/{id}/discussions/{channel}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	room, ok := h.room(w, r)
	if !ok {
		return
	}
	var in contentInput
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode message failed", err, "Invalid request body.")
		return
	}
	content, err := cleanContent(in.Content)
	if err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}

	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Companies.GetByID(ctx, room.CompanyID); err != nil {
		h.storeError(w, r, "load company failed", err)
		return
	}
	msg, err := h.Store.Create(ctx, models.DiscussionMessage{
		CompanyID:  room.CompanyID,
		Channel:    room.Channel,
		AuthorID:   p.ID,
		AuthorName: p.Name,
		AuthorRole: p.Role,
		Content:    content,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create message failed", err)
		return
	}

	h.Hub.Publish(room, realtime.EventMessageCreated, msg)
	jsonio.Write(w, http.StatusCreated, msg)
}

// Subscribe handles GET /api/companies/{id}/discussions/{channel}/ws. The
// token may be passed as ?token= since browsers cannot set headers on
// websocket requests.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if h.Hub == nil || h.Upgrader == nil {
		h.ErrLog.NotFound(w, "live updates are not enabled")
		return
	}
	room, ok := h.room(w, r)
	if !ok {
		return
	}
	p, _ := auth.CurrentPrincipal(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	_, err := h.Companies.GetByID(ctx, room.CompanyID)
	cancel()
	if err != nil {
		h.storeError(w, r, "load company failed", err)
		return
	}

	// Upgrade writes its own error response.
	if err := h.Hub.Serve(w, r, h.Upgrader, room, p.ID); err != nil {
		h.Log.Debug("websocket upgrade failed", zap.Error(err), zap.String("user_id", p.ID.Hex()))
	}
}
