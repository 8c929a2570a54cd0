// internal/app/features/login/handler.go
package login

import (
	"time"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	adminstore "github.com/dalemusser/placementhub/internal/app/store/admins"
	magiclinkstore "github.com/dalemusser/placementhub/internal/app/store/magiclinks"
	profilestore "github.com/dalemusser/placementhub/internal/app/store/profiles"
	studentstore "github.com/dalemusser/placementhub/internal/app/store/students"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/mailer"
	"github.com/dalemusser/placementhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Config carries the settings the sign-in flow needs from app config.
type Config struct {
	BaseURL         string        // links are built as <BaseURL>/auth/verify?token=...
	SiteName        string        // shown in the email subject and body
	AllowedDomain   string        // when set, only <user>@<domain> may sign in
	MagicLinkExpiry time.Duration // 0 means magiclinkstore.DefaultExpiry
}

type Handler struct {
	DB         *mongo.Database
	Students   *studentstore.Store
	Profiles   *profilestore.Store
	MagicLinks *magiclinkstore.Store
	Admins     *adminstore.Store
	Tokens     *auth.TokenService
	Mailer     mailer.Sender
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
	ErrLog     *apierrors.ErrorLogger

	BaseURL       string
	SiteName      string
	AllowedDomain string

	now func() time.Time
}

func NewHandler(
	db *mongo.Database,
	tokens *auth.TokenService,
	mail mailer.Sender,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	cfg Config,
	errLog *apierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	expiry := cfg.MagicLinkExpiry
	if expiry <= 0 {
		expiry = magiclinkstore.DefaultExpiry
	}
	siteName := cfg.SiteName
	if siteName == "" {
		siteName = "PlacementHub"
	}
	return &Handler{
		DB:            db,
		Students:      studentstore.New(db),
		Profiles:      profilestore.New(db),
		MagicLinks:    magiclinkstore.New(db, expiry),
		Admins:        adminstore.New(db),
		Tokens:        tokens,
		Mailer:        mail,
		AuditLog:      audit,
		Limiter:       limiter,
		Log:           logger,
		ErrLog:        errLog,
		BaseURL:       cfg.BaseURL,
		SiteName:      siteName,
		AllowedDomain: cfg.AllowedDomain,
		now:           time.Now,
	}
}

// sessionResponse is returned after any successful sign-in.
type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
}
