package applications

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/placementhub/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/placementhub/internal/app/policy/pipelinepolicy"
	"github.com/dalemusser/placementhub/internal/app/store/audit"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.uber.org/zap"
)

type stageInput struct {
	Stage  string `json:"stage" validate:"required,max=100"`
	Result string `json:"result" validate:"required"`
	Note   string `json:"note" validate:"max=1000"`
}

// RecordStage handles POST /api/applications/{id}/stage.
func (h *Handler) RecordStage(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid application id")
		return
	}
	var in stageInput
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode stage failed", err, "Invalid request body.")
		return
	}
	in.Stage = strings.TrimSpace(in.Stage)
	in.Result = strings.ToLower(strings.TrimSpace(in.Result))
	in.Note = strings.TrimSpace(in.Note)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.BadRequest(w, res.First())
		return
	}

	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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
	c, err := h.Companies.GetByID(ctx, app.CompanyID)
	if err != nil {
		h.storeError(w, r, "load company failed", err)
		return
	}

	status, err := pipelinepolicy.NextStatus(&c, in.Stage, in.Result)
	if err != nil {
		if errors.Is(err, pipelinepolicy.ErrInvalidResult) || errors.Is(err, pipelinepolicy.ErrStageRequired) {
			h.ErrLog.BadRequest(w, err.Error())
			return
		}
		h.ErrLog.LogServerError(w, r, "compute status failed", err)
		return
	}

	recorder := p.ID
	updated, err := h.Store.RecordStage(ctx, id, models.StageEntry{
		Stage:      in.Stage,
		Result:     in.Result,
		Note:       in.Note,
		RecordedBy: &recorder,
		RecordedAt: h.now().UTC(),
	}, status)
	if err != nil {
		h.storeError(w, r, "record stage failed", err)
		return
	}

	if p.IsAdmin() {
		h.AuditLog.AdminAction(ctx, r, p.ID, audit.EventStageRecorded, id, map[string]string{
			"stage": in.Stage, "result": in.Result, "status": status,
		})
	}
	h.Log.Info("stage recorded",
		zap.String("application_id", id.Hex()),
		zap.String("stage", in.Stage),
		zap.String("result", in.Result),
		zap.String("status", status))
	jsonio.Write(w, http.StatusOK, updated)
}

// Withdraw handles POST /api/applications/{id}/withdraw. Only the owning
// student may withdraw.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid application id")
		return
	}
	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	app, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.storeError(w, r, "load application failed", err)
		return
	}
	if !ownerpolicy.Owns(p, app.StudentID) {
		h.ErrLog.NotFound(w, "application not found")
		return
	}
	if err := pipelinepolicy.CheckWithdraw(app.Status); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}

	updated, err := h.Store.SetStatus(ctx, id, models.ApplicationWithdrawn)
	if err != nil {
		h.storeError(w, r, "withdraw application failed", err)
		return
	}
	if err := h.Companies.RecordWithdrawal(ctx, app.CompanyID, app.StudentID); err != nil {
		h.Log.Error("remove company participant failed",
			zap.Error(err),
			zap.String("company_id", app.CompanyID.Hex()),
			zap.String("application_id", id.Hex()))
	}
	jsonio.Write(w, http.StatusOK, updated)
}
