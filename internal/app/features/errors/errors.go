// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Error codes carried in the "error" field of JSON error bodies.
const (
	CodeBadRequest      = "bad_request"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeTooManyRequests = "too_many_requests"
	CodeServerError     = "server_error"
	CodeUnavailable     = "service_unavailable"
)

// ErrorLogger writes uniform JSON error responses and logs the cause with
// request context. Handlers hold one as ErrLog.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fs = append(fs, zap.String("request_id", id))
	}
	if p, ok := auth.CurrentPrincipal(r); ok {
		fs = append(fs, zap.String("principal_id", p.ID.Hex()), zap.String("role", p.Role))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return fs
}

// LogServerError logs msg and err at error level and responds 500. The
// response message is the raw error text.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg, e.fields(r, err)...)
	text := msg
	if err != nil {
		text = err.Error()
	}
	jsonio.Error(w, http.StatusInternalServerError, CodeServerError, text)
}

// LogBadRequest logs at debug level and responds 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Debug(msg, e.fields(r, err)...)
	jsonio.Error(w, http.StatusBadRequest, CodeBadRequest, userMsg)
}

// LogForbidden logs at warn level and responds 403 with userMsg.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, userMsg string) {
	e.log.Warn(msg, e.fields(r, nil)...)
	jsonio.Error(w, http.StatusForbidden, CodeForbidden, userMsg)
}

// BadRequest responds 400.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, userMsg string) {
	jsonio.Error(w, http.StatusBadRequest, CodeBadRequest, userMsg)
}

// Unauthorized responds 401.
func (e *ErrorLogger) Unauthorized(w http.ResponseWriter, userMsg string) {
	jsonio.Error(w, http.StatusUnauthorized, CodeUnauthorized, userMsg)
}

// Forbidden responds 403.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter, userMsg string) {
	jsonio.Error(w, http.StatusForbidden, CodeForbidden, userMsg)
}

// NotFound responds 404.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, userMsg string) {
	jsonio.Error(w, http.StatusNotFound, CodeNotFound, userMsg)
}

// Conflict responds 409.
func (e *ErrorLogger) Conflict(w http.ResponseWriter, userMsg string) {
	jsonio.Error(w, http.StatusConflict, CodeConflict, userMsg)
}

// TooManyRequests responds 429.
func (e *ErrorLogger) TooManyRequests(w http.ResponseWriter, userMsg string) {
	jsonio.Error(w, http.StatusTooManyRequests, CodeTooManyRequests, userMsg)
}

// NotFoundHandler answers unmatched routes.
func (e *ErrorLogger) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	e.NotFound(w, "route not found")
}

// MethodNotAllowedHandler answers routes hit with the wrong method.
func (e *ErrorLogger) MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	jsonio.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}
