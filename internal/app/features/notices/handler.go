// internal/app/features/notices/handler.go
package notices

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	"github.com/dalemusser/placementhub/internal/app/store/audit"
	noticestore "github.com/dalemusser/placementhub/internal/app/store/notices"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves notice board routes.
type Handler struct {
	DB       *mongo.Database
	Store    *noticestore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger

	now func() time.Time
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Store:    noticestore.New(db),
		AuditLog: audit,
		Log:      logger,
		ErrLog:   errLog,
		now:      time.Now,
	}
}

// List handles GET /api/notices.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.ListVisible(ctx, h.now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list notices failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, list)
}

// AdminList handles GET /api/admin/notices, including inactive and expired
// notices.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list notices failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, list)
}

type noticeInput struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Content   string     `json:"content" validate:"required,max=5000"`
	Priority  string     `json:"priority" validate:"omitempty,oneof=info important urgent"`
	Link      string     `json:"link" validate:"omitempty,httpurl"`
	Active    *bool      `json:"active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// decode reads and validates a notice body, writing the 400 itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (models.Notice, bool) {
	var in noticeInput
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode notice failed", err, "Invalid request body.")
		return models.Notice{}, false
	}
	in.Title = htmlsanitize.Text(in.Title)
	in.Content = strings.TrimSpace(htmlsanitize.Sanitize(in.Content))
	in.Priority = normalize.Status(in.Priority)
	in.Link = strings.TrimSpace(in.Link)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.BadRequest(w, res.First())
		return models.Notice{}, false
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(h.now()) {
		h.ErrLog.BadRequest(w, "expires_at must be in the future")
		return models.Notice{}, false
	}

	n := models.Notice{
		Title:     in.Title,
		Content:   in.Content,
		Priority:  in.Priority,
		Link:      in.Link,
		Active:    true,
		ExpiresAt: in.ExpiresAt,
	}
	if n.Priority == "" {
		n.Priority = models.NoticeInfo
	}
	if in.Active != nil {
		n.Active = *in.Active
	}
	return n, true
}

// Create handles POST /api/admin/notices.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	n, ok := h.decode(w, r)
	if !ok {
		return
	}
	actor, _ := auth.CurrentPrincipal(r)
	n.CreatedByID = &actor.ID
	n.CreatedByName = actor.Name

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, n)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create notice failed", err)
		return
	}
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventNoticeCreated, created.ID, map[string]string{"title": created.Title})
	jsonio.Write(w, http.StatusCreated, created)
}

// Update handles PUT /api/admin/notices/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid notice id")
		return
	}
	n, ok := h.decode(w, r)
	if !ok {
		return
	}
	actor, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Store.Update(ctx, id, n)
	if err != nil {
		if errors.Is(err, noticestore.ErrNotFound) {
			h.ErrLog.NotFound(w, err.Error())
			return
		}
		h.ErrLog.LogServerError(w, r, "update notice failed", err)
		return
	}
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventNoticeUpdated, id, map[string]string{"title": updated.Title})
	jsonio.Write(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/notices/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid notice id")
		return
	}
	actor, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, noticestore.ErrNotFound) {
			h.ErrLog.NotFound(w, err.Error())
			return
		}
		h.ErrLog.LogServerError(w, r, "delete notice failed", err)
		return
	}
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventNoticeDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// MountRoutes mounts under /api/notices.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// MountAdminRoutes mounts under /api/admin/notices.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.AdminList)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
