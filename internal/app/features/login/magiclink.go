package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	magiclinkstore "github.com/dalemusser/placementhub/internal/app/store/magiclinks"
	studentstore "github.com/dalemusser/placementhub/internal/app/store/students"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/mailer"
	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/app/system/ratelimit"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type magicLinkRequest struct {
	Email          string `json:"email" validate:"required,bareemail" label:"Email"`
	Name           string `json:"name" validate:"omitempty,max=120" label:"Name"`
	RegisterNumber string `json:"register_number" validate:"omitempty,max=30" label:"Register number"`
	Department     string `json:"department" validate:"omitempty,max=20" label:"Department"`
	Batch          int    `json:"batch" validate:"omitempty,gte=2000,lte=2100" label:"Batch"`
}

type magicLinkResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// RequestMagicLink handles POST /api/auth/magic-link.
//
// The student is created on the first request for an email address. The
// token only ever leaves the server inside the email.
func (h *Handler) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var in magicLinkRequest
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode magic-link request failed", err, "Invalid request body.")
		return
	}
	in.Email = normalize.Email(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.BadRequest(w, res.First())
		return
	}
	if !inputval.EmailInDomain(in.Email, h.AllowedDomain) {
		h.ErrLog.BadRequest(w, fmt.Sprintf("Please use your @%s email address.", strings.TrimPrefix(h.AllowedDomain, "@")))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if h.Limiter != nil {
		if ok, limitType, msg := h.Limiter.Check(r, in.Email); !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r, in.Email, limitType)
			h.ErrLog.TooManyRequests(w, msg)
			return
		}
	}

	st, created, err := h.Students.FindOrCreate(ctx, models.Student{
		Email:          in.Email,
		Name:           in.Name,
		RegisterNumber: in.RegisterNumber,
		Department:     in.Department,
		Batch:          in.Batch,
	})
	if errors.Is(err, studentstore.ErrDuplicateRegisterNumber) {
		h.ErrLog.Conflict(w, err.Error())
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find or create student failed", err)
		return
	}

	ml, err := h.MagicLinks.Create(ctx, st.ID, st.Email, ratelimit.ClientIP(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create magic link failed", err)
		return
	}

	msg, err := mailer.BuildMagicLinkEmail(mailer.MagicLinkEmailData{
		SiteName:  h.SiteName,
		Name:      st.Name,
		MagicLink: h.verifyURL(ml.Token),
		ExpiresIn: mailer.FormatExpiry(h.MagicLinks.Expiry()),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build magic link email failed", err)
		return
	}
	msg.To = st.Email
	if err := h.Mailer.Send(msg); err != nil {
		h.ErrLog.LogServerError(w, r, "send magic link email failed", err)
		return
	}

	h.Log.Info("magic link sent",
		zap.String("student_id", st.ID.Hex()),
		zap.String("email", st.Email),
		zap.Bool("new_student", created))
	h.AuditLog.MagicLinkRequested(ctx, r, st.ID, st.Email, created)

	jsonio.Write(w, http.StatusOK, magicLinkResponse{
		Message:   "Check your email for a sign-in link.",
		ExpiresIn: int(h.MagicLinks.Expiry().Seconds()),
	})
}

func (h *Handler) verifyURL(token string) string {
	return strings.TrimRight(h.BaseURL, "/") + "/auth/verify?token=" + url.QueryEscape(token)
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	sessionResponse
	Student    *models.Student        `json:"student"`
	Profile    *models.StudentProfile `json:"profile"`
	FirstLogin bool                   `json:"first_login"`
}

// Verify handles GET and POST /api/auth/verify. The token comes from
// ?token= or, for POST, from the JSON body.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	token := query.Get(r, "token")
	if token == "" && r.Method == http.MethodPost {
		var in verifyRequest
		if err := jsonio.Decode(r, &in); err != nil && !errors.Is(err, jsonio.ErrEmptyBody) {
			h.ErrLog.LogBadRequest(w, r, "decode verify request failed", err, "Invalid request body.")
			return
		}
		token = strings.TrimSpace(in.Token)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ml, err := h.MagicLinks.Consume(ctx, token, h.now())
	switch {
	case errors.Is(err, magiclinkstore.ErrNotFound),
		errors.Is(err, magiclinkstore.ErrExpired),
		errors.Is(err, magiclinkstore.ErrUsed):
		h.AuditLog.MagicLinkFailed(ctx, r, err.Error())
		h.ErrLog.BadRequest(w, err.Error())
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "consume magic link failed", err)
		return
	}

	st, err := h.Students.GetByID(ctx, ml.StudentID)
	if errors.Is(err, studentstore.ErrNotFound) {
		h.AuditLog.MagicLinkFailed(ctx, r, "student no longer exists")
		h.ErrLog.BadRequest(w, magiclinkstore.ErrNotFound.Error())
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load student failed", err)
		return
	}

	profile, firstLogin, err := h.Profiles.EnsureForStudent(ctx, st)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "ensure profile failed", err)
		return
	}

	tok, exp, err := h.Tokens.Issue(auth.Principal{ID: st.ID, Role: auth.RoleStudent, Name: st.Name, Email: st.Email})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue session token failed", err)
		return
	}

	if err := h.Students.TouchLogin(ctx, st.ID, h.now()); err != nil {
		h.Log.Warn("touch student login failed", zap.Error(err), zap.String("student_id", st.ID.Hex()))
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(st.Email)
	}
	h.Log.Info("student signed in via magic link", zap.String("student_id", st.ID.Hex()), zap.Bool("first_login", firstLogin))
	h.AuditLog.MagicLinkUsed(ctx, r, st.ID, st.Email)

	jsonio.Write(w, http.StatusOK, verifyResponse{
		sessionResponse: sessionResponse{Token: tok, ExpiresAt: exp, Role: auth.RoleStudent},
		Student:         st,
		Profile:         profile,
		FirstLogin:      firstLogin,
	})
}
