// internal/app/features/support/handler.go
package support

import (
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	ticketstore "github.com/dalemusser/placementhub/internal/app/store/tickets"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves support tickets, bug reports, feature requests, help
// requests and feedback. The kind comes from the URL.
type Handler struct {
	DB       *mongo.Database
	Store    *ticketstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Store:    ticketstore.New(db),
		AuditLog: audit,
		Log:      logger,
		ErrLog:   errLog,
	}
}

// kind parses the {kind} URL parameter, writing a 400 when it is unknown.
func (h *Handler) kind(w http.ResponseWriter, r *http.Request) (models.TicketKind, bool) {
	k, ok := ticketstore.ParseKind(strings.ToLower(chi.URLParam(r, "kind")))
	if !ok {
		names := make([]string, len(models.TicketKinds))
		for i, tk := range models.TicketKinds {
			names[i] = string(tk)
		}
		h.ErrLog.BadRequest(w, "unknown ticket kind; expected one of "+strings.Join(names, ", "))
		return "", false
	}
	return k, true
}

func number(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "number")))
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ticketstore.ErrNotFound):
		h.ErrLog.NotFound(w, err.Error())
	case errors.Is(err, ticketstore.ErrUnknownKind):
		h.ErrLog.BadRequest(w, err.Error())
	default:
		h.ErrLog.LogServerError(w, r, op, err)
	}
}
