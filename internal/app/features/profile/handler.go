// internal/app/features/profile/handler.go
package profile

import (
	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	applicationstore "github.com/dalemusser/placementhub/internal/app/store/applications"
	profilestore "github.com/dalemusser/placementhub/internal/app/store/profiles"
	studentstore "github.com/dalemusser/placementhub/internal/app/store/students"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the student profile handlers.
type Handler struct {
	DB           *mongo.Database
	Profiles     *profilestore.Store
	Students     *studentstore.Store
	Applications *applicationstore.Store
	Log          *zap.Logger
	ErrLog       *apierrors.ErrorLogger
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Profiles:     profilestore.New(db),
		Students:     studentstore.New(db),
		Applications: applicationstore.New(db),
		Log:          logger,
		ErrLog:       errLog,
	}
}
