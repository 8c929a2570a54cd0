package companies

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/placementhub/internal/app/store/audit"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/app/system/txn"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (h *Handler) decodeCompany(w http.ResponseWriter, r *http.Request) (models.Company, bool) {
	var c models.Company
	if err := jsonio.Decode(r, &c); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode company failed", err, "Invalid request body.")
		return models.Company{}, false
	}
	c.Status = normalize.Status(c.Status)
	for _, ev := range c.Events {
		if ev.Kind != "" && !inputval.OneOf(ev.Kind, models.EventKinds) {
			h.ErrLog.BadRequest(w, "unknown event kind "+ev.Kind)
			return models.Company{}, false
		}
	}
	return c, true
}

// Create handles POST /api/admin/companies.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := h.decodeCompany(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Store.Create(ctx, c)
	if err != nil {
		h.storeError(w, r, "create company failed", err)
		return
	}

	actor, _ := auth.CurrentPrincipal(r)
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventCompanyCreated, created.ID, map[string]string{"name": created.Name})
	jsonio.Write(w, http.StatusCreated, created)
}

// Update handles PUT /api/admin/companies/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid company id")
		return
	}
	c, ok := h.decodeCompany(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Store.Update(ctx, id, c)
	if err != nil {
		h.storeError(w, r, "update company failed", err)
		return
	}

	actor, _ := auth.CurrentPrincipal(r)
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventCompanyUpdated, id, map[string]string{"name": updated.Name})
	jsonio.Write(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/companies/{id}. Applications, messages
// and resources of the company are removed in the same transaction when the
// deployment supports one; any failure is returned as a 500.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid company id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err = txn.Run(ctx, h.DB.Client(), h.Log, func(ctx context.Context) error {
		if err := h.Store.Delete(ctx, id); err != nil {
			return err
		}
		return h.deleteDependents(ctx, id)
	})
	if err != nil {
		h.storeError(w, r, "delete company failed", err)
		return
	}

	actor, _ := auth.CurrentPrincipal(r)
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventCompanyDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteDependents(ctx context.Context, id primitive.ObjectID) error {
	n, err := h.Applications.DeleteByCompany(ctx, id)
	if err != nil {
		return fmt.Errorf("delete company applications: %w", err)
	}
	if n > 0 {
		h.Log.Info("deleted company applications", zap.Int64("count", n), zap.String("company_id", id.Hex()))
	}
	if _, err := h.Discussions.DeleteByCompany(ctx, id); err != nil {
		return fmt.Errorf("delete company discussions: %w", err)
	}
	if _, err := h.Resources.DeleteByCompany(ctx, id); err != nil {
		return fmt.Errorf("delete company resources: %w", err)
	}
	return nil
}

// AddEvent handles POST /api/admin/companies/{id}/events.
func (h *Handler) AddEvent(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid company id")
		return
	}
	var ev models.CompanyEvent
	if err := jsonio.Decode(r, &ev); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode event failed", err, "Invalid request body.")
		return
	}
	if ev.Kind != "" && !inputval.OneOf(ev.Kind, models.EventKinds) {
		h.ErrLog.BadRequest(w, "unknown event kind "+ev.Kind)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	added, err := h.Store.AddEvent(ctx, id, ev)
	if err != nil {
		h.storeError(w, r, "add company event failed", err)
		return
	}

	actor, _ := auth.CurrentPrincipal(r)
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventCompanyEventAdded, id, map[string]string{
		"event_id": added.ID.Hex(), "title": added.Title,
	})
	jsonio.Write(w, http.StatusCreated, added)
}

// RemoveEvent handles DELETE /api/admin/companies/{id}/events/{eventID}.
func (h *Handler) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid company id")
		return
	}
	eventID, err := inputval.URLObjectID(r, "eventID")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid event id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.RemoveEvent(ctx, id, eventID); err != nil {
		h.storeError(w, r, "remove company event failed", err)
		return
	}

	actor, _ := auth.CurrentPrincipal(r)
	h.AuditLog.AdminAction(ctx, r, actor.ID, audit.EventCompanyEventRemove, id, map[string]string{"event_id": eventID.Hex()})
	w.WriteHeader(http.StatusNoContent)
}

// Applications handles GET /api/admin/companies/{id}/applications?status=.
func (h *Handler) Applications(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid company id")
		return
	}
	status := normalize.Status(query.Get(r, "status"))
	if status != "" && !inputval.OneOf(status, models.ApplicationStatuses) {
		h.ErrLog.BadRequest(w, "unknown application status "+status)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Store.GetByID(ctx, id); err != nil {
		h.storeError(w, r, "load company failed", err)
		return
	}
	apps, err := h.Applications.ListByCompany(ctx, id, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list company applications failed", err)
		return
	}
	jsonio.Write(w, http.StatusOK, apps)
}
