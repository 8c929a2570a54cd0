// internal/app/features/applications/handler.go
package applications

import (
	"errors"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	"github.com/dalemusser/placementhub/internal/app/policy/ownerpolicy"
	applicationstore "github.com/dalemusser/placementhub/internal/app/store/applications"
	companystore "github.com/dalemusser/placementhub/internal/app/store/companies"
	profilestore "github.com/dalemusser/placementhub/internal/app/store/profiles"
	studentstore "github.com/dalemusser/placementhub/internal/app/store/students"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the application pipeline.
type Handler struct {
	DB        *mongo.Database
	Store     *applicationstore.Store
	Companies *companystore.Store
	Profiles  *profilestore.Store
	Students  *studentstore.Store
	AuditLog  *auditlog.Logger
	Log       *zap.Logger
	ErrLog    *apierrors.ErrorLogger

	now func() time.Time
}

// NewHandler constructs an applications Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Store:     applicationstore.New(db),
		Companies: companystore.New(db),
		Profiles:  profilestore.New(db),
		Students:  studentstore.New(db),
		AuditLog:  audit,
		Log:       logger,
		ErrLog:    errLog,
		now:       time.Now,
	}
}

// visible reports whether p may see a. Others get a 404 rather than a 403 so
// application IDs cannot be enumerated.
func visible(p *auth.Principal, a models.StudentApplication) bool {
	return ownerpolicy.OwnsOrAdmin(p, a.StudentID)
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, applicationstore.ErrNotFound):
		h.ErrLog.NotFound(w, err.Error())
	case errors.Is(err, companystore.ErrNotFound):
		h.ErrLog.NotFound(w, err.Error())
	case errors.Is(err, applicationstore.ErrAlreadyApplied):
		h.ErrLog.BadRequest(w, err.Error())
	default:
		h.ErrLog.LogServerError(w, r, op, err)
	}
}
