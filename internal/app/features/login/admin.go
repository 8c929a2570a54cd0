package login

import (
	"context"
	"errors"
	"net/http"

	adminstore "github.com/dalemusser/placementhub/internal/app/store/admins"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.uber.org/zap"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	sessionResponse
	Admin models.Admin `json:"admin"`
}

// AdminLogin handles POST /api/admin/login.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var in adminLoginRequest
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode admin login failed", err, "Invalid request body.")
		return
	}
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		h.ErrLog.BadRequest(w, "Email and password are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if h.Limiter != nil {
		if ok, limitType, msg := h.Limiter.Check(r, email); !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r, email, limitType)
			h.ErrLog.TooManyRequests(w, msg)
			return
		}
	}

	a, err := h.Admins.Authenticate(ctx, email, in.Password)
	if errors.Is(err, adminstore.ErrInvalidCredentials) {
		h.AuditLog.AdminLoginFailed(ctx, r, email, "invalid credentials")
		h.ErrLog.Unauthorized(w, "Invalid email or password.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "authenticate admin failed", err)
		return
	}

	tok, exp, err := h.Tokens.Issue(auth.Principal{ID: a.ID, Role: auth.RoleAdmin, Name: a.Name, Email: a.Email})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue session token failed", err)
		return
	}
	if err := h.Admins.TouchLogin(ctx, a.ID, h.now()); err != nil {
		h.Log.Warn("touch admin login failed", zap.Error(err), zap.String("admin_id", a.ID.Hex()))
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.AdminLoginSuccess(ctx, r, a.ID, a.Email)

	jsonio.Write(w, http.StatusOK, adminLoginResponse{
		sessionResponse: sessionResponse{Token: tok, ExpiresAt: exp, Role: auth.RoleAdmin},
		Admin:           a,
	})
}
