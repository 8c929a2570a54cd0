// internal/app/features/companies/handler.go
package companies

import (
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	applicationstore "github.com/dalemusser/placementhub/internal/app/store/applications"
	companystore "github.com/dalemusser/placementhub/internal/app/store/companies"
	discussionstore "github.com/dalemusser/placementhub/internal/app/store/discussions"
	profilestore "github.com/dalemusser/placementhub/internal/app/store/profiles"
	resourcestore "github.com/dalemusser/placementhub/internal/app/store/resources"
	studentstore "github.com/dalemusser/placementhub/internal/app/store/students"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the company catalogue handlers, public and admin.
type Handler struct {
	DB           *mongo.Database
	Store        *companystore.Store
	Applications *applicationstore.Store
	Discussions  *discussionstore.Store
	Resources    *resourcestore.Store
	Profiles     *profilestore.Store
	Students     *studentstore.Store
	AuditLog     *auditlog.Logger
	Log          *zap.Logger
	ErrLog       *apierrors.ErrorLogger
}

// NewHandler constructs a companies Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Store:        companystore.New(db),
		Applications: applicationstore.New(db),
		Discussions:  discussionstore.New(db),
		Resources:    resourcestore.New(db),
		Profiles:     profilestore.New(db),
		Students:     studentstore.New(db),
		AuditLog:     audit,
		Log:          logger,
		ErrLog:       errLog,
	}
}

// storeError maps companystore errors onto HTTP responses.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, companystore.ErrNotFound), errors.Is(err, companystore.ErrEventNotFound):
		h.ErrLog.NotFound(w, err.Error())
	case errors.Is(err, companystore.ErrDuplicateName):
		h.ErrLog.Conflict(w, err.Error())
	case errors.Is(err, companystore.ErrInvalid):
		h.ErrLog.BadRequest(w, err.Error())
	default:
		h.ErrLog.LogServerError(w, r, op, err)
	}
}
