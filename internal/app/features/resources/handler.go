// internal/app/features/resources/handler.go
package resources

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	"github.com/dalemusser/placementhub/internal/app/store/audit"
	companystore "github.com/dalemusser/placementhub/internal/app/store/companies"
	resourcestore "github.com/dalemusser/placementhub/internal/app/store/resources"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves shared company study resources and their moderation.
type Handler struct {
	DB        *mongo.Database
	Store     *resourcestore.Store
	Companies *companystore.Store
	AuditLog  *auditlog.Logger
	Log       *zap.Logger
	ErrLog    *apierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Store:     resourcestore.New(db),
		Companies: companystore.New(db),
		AuditLog:  audit,
		Log:       logger,
		ErrLog:    errLog,
	}
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, resourcestore.ErrNotFound), errors.Is(err, companystore.ErrNotFound):
		h.ErrLog.NotFound(w, err.Error())
	case errors.Is(err, resourcestore.ErrInvalid):
		h.ErrLog.BadRequest(w, err.Error())
	default:
		h.ErrLog.LogServerError(w, r, op, err)
	}
}

// ListForCompany handles GET /api/companies/{id}/resources.
func (h *Handler) ListForCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid company id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.ListApproved(ctx, companyID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list resources failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, list)
}

type submitInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Kind        string `json:"kind"`
	URL         string `json:"url" validate:"required,httpurl"`
}

// Submit handles POST /api/companies/{id}/resources. The resource waits for
// moderation before it is listed.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	companyID, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid company id")
		return
	}
	var in submitInput
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode resource failed", err, "Invalid request body.")
		return
	}
	in.Title = htmlsanitize.Text(in.Title)
	in.Description = htmlsanitize.Text(in.Description)
	in.Kind = normalize.Status(in.Kind)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.BadRequest(w, res.First())
		return
	}

	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Companies.GetByID(ctx, companyID); err != nil {
		h.storeError(w, r, "load company failed", err)
		return
	}
	created, err := h.Store.Create(ctx, models.CompanyResource{
		CompanyID:    companyID,
		Title:        in.Title,
		Description:  in.Description,
		Kind:         in.Kind,
		URL:          in.URL,
		UploadedBy:   p.ID,
		UploaderName: p.Name,
	})
	if err != nil {
		h.storeError(w, r, "create resource failed", err)
		return
	}
	jsonio.Write(w, http.StatusCreated, created)
}

// Mine handles GET /api/resources/mine.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.ListByUploader(ctx, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list my resources failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, list)
}

// AdminList handles GET /api/admin/resources?status=.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	status := normalize.Status(query.Get(r, "status"))
	if status != "" && !inputval.OneOf(status, models.ResourceStatuses) {
		h.ErrLog.BadRequest(w, "status must be pending, approved or rejected")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.ListByStatus(ctx, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list resources failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, list)
}

// Approve handles POST /api/admin/resources/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, models.ResourceApproved, "")
}

type rejectInput struct {
	Reason string `json:"reason" validate:"max=500"`
}

// Reject handles POST /api/admin/resources/{id}/reject. The body is optional.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	var in rejectInput
	if err := jsonio.Decode(r, &in); err != nil && !errors.Is(err, jsonio.ErrEmptyBody) {
		h.ErrLog.LogBadRequest(w, r, "decode rejection failed", err, "Invalid request body.")
		return
	}
	in.Reason = htmlsanitize.Text(in.Reason)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.BadRequest(w, res.First())
		return
	}
	h.moderate(w, r, models.ResourceRejected, in.Reason)
}

func (h *Handler) moderate(w http.ResponseWriter, r *http.Request, status, reason string) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid resource id")
		return
	}
	actor, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Store.Moderate(ctx, id, status, actor.ID, reason)
	if err != nil {
		h.storeError(w, r, "moderate resource failed", err)
		return
	}

	event := audit.EventResourceApproved
	details := map[string]string{"title": res.Title}
	if status == models.ResourceRejected {
		event = audit.EventResourceRejected
		details["reason"] = reason
	}
	h.AuditLog.AdminAction(ctx, r, actor.ID, event, id, details)
	jsonio.Write(w, http.StatusOK, res)
}

// Delete handles DELETE /api/admin/resources/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid resource id")
		return
	}
	actor, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		h.storeError(w, r, "delete resource failed", err)
		return
	}
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventResourceDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}
