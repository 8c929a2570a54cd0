// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/placementhub/internal/app/store/audit"
	"github.com/dalemusser/placementhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls magic-link and admin sign-in events.
	Auth string
	// Admin controls admin actions (companies, moderation, notices, tickets).
	Admin string
}

// Logger writes audit events to MongoDB (via audit.Store) and to zap,
// as configured per category.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// IsValidSetting reports whether s is a known destination setting.
func IsValidSetting(s string) bool {
	switch s {
	case All, DB, Log, Off:
		return true
	}
	return false
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = All
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if setting == All || setting == DB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// MagicLinkRequested logs that a login link was emailed to a student.
func (l *Logger) MagicLinkRequested(ctx context.Context, r *http.Request, studentID primitive.ObjectID, email string, newStudent bool) {
	e := base(r, audit.CategoryAuth, audit.EventMagicLinkRequested, true)
	e.UserID = &studentID
	e.Details = map[string]string{"email": email}
	if newStudent {
		e.Details["new_student"] = "true"
	}
	l.Log(ctx, e)
}

// MagicLinkUsed logs a successful magic-link verification.
func (l *Logger) MagicLinkUsed(ctx context.Context, r *http.Request, studentID primitive.ObjectID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventMagicLinkUsed, true)
	e.UserID = &studentID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// MagicLinkFailed logs a rejected verification (unknown, expired, used).
func (l *Logger) MagicLinkFailed(ctx context.Context, r *http.Request, reason string) {
	e := base(r, audit.CategoryAuth, audit.EventMagicLinkFailed, false)
	e.FailureReason = reason
	l.Log(ctx, e)
}

// LoginFailedRateLimit logs a sign-in request refused by the rate limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, email, limitType string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit, false)
	e.FailureReason = "rate limit exceeded"
	e.Details = map[string]string{"email": email, "limit_type": limitType}
	l.Log(ctx, e)
}

// AdminLoginSuccess logs a successful admin password login.
func (l *Logger) AdminLoginSuccess(ctx context.Context, r *http.Request, adminID primitive.ObjectID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventAdminLoginSuccess, true)
	e.UserID = &adminID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// AdminLoginFailed logs a rejected admin password login.
func (l *Logger) AdminLoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	e := base(r, audit.CategoryAuth, audit.EventAdminLoginFailed, false)
	e.FailureReason = reason
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// --- Admin Events ---

// AdminAction logs an action taken by an admin on a target document.
// details may be nil.
func (l *Logger) AdminAction(ctx context.Context, r *http.Request, actorID primitive.ObjectID, eventType string, targetID primitive.ObjectID, details map[string]string) {
	e := base(r, audit.CategoryAdmin, eventType, true)
	e.ActorID = &actorID
	if details == nil {
		details = map[string]string{}
	}
	if !targetID.IsZero() {
		details["target_id"] = targetID.Hex()
	}
	e.Details = details
	l.Log(ctx, e)
}

// AdminBootstrapped logs creation of the configured admin at startup.
func (l *Logger) AdminBootstrapped(ctx context.Context, adminID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminBootstrapped,
		UserID:    &adminID,
		IP:        "startup",
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}
