// internal/app/features/discussions/handler.go
package discussions

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	companystore "github.com/dalemusser/placementhub/internal/app/store/companies"
	discussionstore "github.com/dalemusser/placementhub/internal/app/store/discussions"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/placementhub/internal/app/system/realtime"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxContentLength bounds message and reply content, in characters, after
// sanitizing.
const MaxContentLength = 4000

// Handler serves company discussion channels.
type Handler struct {
	DB        *mongo.Database
	Store     *discussionstore.Store
	Companies *companystore.Store
	Hub       *realtime.Hub
	Upgrader  *websocket.Upgrader
	AuditLog  *auditlog.Logger
	Log       *zap.Logger
	ErrLog    *apierrors.ErrorLogger
}

// NewHandler constructs a discussions Handler. hub may be nil, in which
// case nothing is pushed and the websocket route is unavailable.
func NewHandler(db *mongo.Database, hub *realtime.Hub, up *websocket.Upgrader, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Store:     discussionstore.New(db),
		Companies: companystore.New(db),
		Hub:       hub,
		Upgrader:  up,
		AuditLog:  audit,
		Log:       logger,
		ErrLog:    errLog,
	}
}

var (
	errEmptyContent = errors.New("content is required")
	errLongContent  = errors.New("content must be at most 4000 characters")
)

// cleanContent sanitizes user HTML and enforces the length bounds.
func cleanContent(raw string) (string, error) {
	s := strings.TrimSpace(htmlsanitize.Sanitize(strings.TrimSpace(raw)))
	if s == "" || htmlsanitize.Text(s) == "" {
		return "", errEmptyContent
	}
	if utf8.RuneCountInString(s) > MaxContentLength {
		return "", errLongContent
	}
	return s, nil
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, discussionstore.ErrNotFound), errors.Is(err, companystore.ErrNotFound):
		h.ErrLog.NotFound(w, err.Error())
	case errors.Is(err, discussionstore.ErrContended):
		h.ErrLog.Conflict(w, err.Error())
	default:
		h.ErrLog.LogServerError(w, r, op, err)
	}
}
