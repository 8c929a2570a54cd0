package applications

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/placementhub/internal/app/policy/eligibilitypolicy"
	profilestore "github.com/dalemusser/placementhub/internal/app/store/profiles"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type applyInput struct {
	CompanyID string `json:"company_id" validate:"required,objectid"`
}

// Apply handles POST /api/applications.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var in applyInput
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode application failed", err, "Invalid request body.")
		return
	}
	in.CompanyID = strings.TrimSpace(in.CompanyID)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.BadRequest(w, res.First())
		return
	}
	companyID, _ := primitive.ObjectIDFromHex(in.CompanyID)

	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Companies.GetByID(ctx, companyID)
	if err != nil {
		h.storeError(w, r, "load company failed", err)
		return
	}
	if c.Status != models.CompanyStatusOpen {
		h.ErrLog.BadRequest(w, "company is not accepting applications")
		return
	}
	if c.ApplyDeadline != nil && h.now().After(*c.ApplyDeadline) {
		h.ErrLog.BadRequest(w, "application deadline has passed")
		return
	}

	st, err := h.Students.GetByID(ctx, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load student failed", err)
		return
	}
	cand := eligibilitypolicy.FromStudent(st)
	prof, err := h.Profiles.GetByStudent(ctx, p.ID)
	switch {
	case err == nil:
		cand = eligibilitypolicy.FromProfile(prof)
	case !errors.Is(err, profilestore.ErrNotFound):
		h.ErrLog.LogServerError(w, r, "load profile failed", err)
		return
	}
	if reasons := eligibilitypolicy.Check(cand, c.Eligibility); len(reasons) > 0 {
		h.ErrLog.BadRequest(w, "not eligible: "+strings.Join(reasons, "; "))
		return
	}

	stage := c.FirstStage()
	if stage == "" {
		stage = models.ApplicationApplied
	}
	app, err := h.Store.Create(ctx, models.StudentApplication{
		StudentID:    st.ID,
		CompanyID:    c.ID,
		CompanyName:  c.Name,
		StudentName:  st.Name,
		CurrentStage: stage,
	})
	if err != nil {
		h.storeError(w, r, "create application failed", err)
		return
	}

	// The participant entry is a separate write; a failure here leaves the
	// application in place and is only logged.
	if err := h.Companies.RecordApplication(ctx, c.ID, models.Participant{
		StudentID:    st.ID,
		Name:         st.Name,
		Email:        st.Email,
		RegisteredAt: app.AppliedAt,
	}); err != nil {
		h.Log.Error("record company participant failed",
			zap.Error(err),
			zap.String("company_id", c.ID.Hex()),
			zap.String("application_id", app.ID.Hex()))
	}

	h.Log.Info("application created",
		zap.String("application_id", app.ID.Hex()),
		zap.String("company", c.Name),
		zap.String("student_id", st.ID.Hex()))
	jsonio.Write(w, http.StatusCreated, app)
}
