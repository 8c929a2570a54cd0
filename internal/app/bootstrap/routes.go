// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	applicationsfeature "github.com/dalemusser/placementhub/internal/app/features/applications"
	auditlogfeature "github.com/dalemusser/placementhub/internal/app/features/auditlog"
	calendarfeature "github.com/dalemusser/placementhub/internal/app/features/calendar"
	companiesfeature "github.com/dalemusser/placementhub/internal/app/features/companies"
	discussionsfeature "github.com/dalemusser/placementhub/internal/app/features/discussions"
	errorsfeature "github.com/dalemusser/placementhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/placementhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/placementhub/internal/app/features/login"
	noticesfeature "github.com/dalemusser/placementhub/internal/app/features/notices"
	profilefeature "github.com/dalemusser/placementhub/internal/app/features/profile"
	resourcesfeature "github.com/dalemusser/placementhub/internal/app/features/resources"
	supportfeature "github.com/dalemusser/placementhub/internal/app/features/support"
	studentstore "github.com/dalemusser/placementhub/internal/app/store/students"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/mailer"
	"github.com/dalemusser/placementhub/internal/app/system/ratelimit"
	"github.com/dalemusser/placementhub/internal/app/system/wsauth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for PlacementHub.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. Everything except /health lives under /api and
// speaks JSON; callers authenticate with "Authorization: Bearer <token>".
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.PlacementHubMongoDatabase

	tokens, err := auth.NewTokenService(appCfg.JWTSecret, appCfg.JWTIssuer, appCfg.SessionTTL)
	if err != nil {
		logger.Error("token service init failed", zap.Error(err))
		return nil, err
	}
	// Fetching fresh principal data on each request makes disabled admins
	// and deleted students lose access before their token expires.
	authn := auth.NewAuthenticator(tokens, studentstore.NewFetcher(db), logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := newAuditLogger(db, appCfg, logger)

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	if !mail.Enabled() {
		logger.Warn("mail_smtp_host not set; magic-link emails will be logged, not sent")
	}

	limiter := ratelimit.NewLoginLimiter()

	rt := deps.Runtime
	if rt == nil {
		rt = &Runtime{}
	}
	rt.limiter = limiter

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Loads the Principal into context when a valid bearer token is present.
	r.Use(authn.LoadPrincipal)

	r.NotFound(errLog.NotFoundHandler)
	r.MethodNotAllowed(errLog.MethodNotAllowedHandler)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.PlacementHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	loginHandler := loginfeature.NewHandler(db, tokens, mail, auditLog, limiter, loginfeature.Config{
		BaseURL:         appCfg.BaseURL,
		SiteName:        appCfg.SiteName,
		AllowedDomain:   appCfg.AllowedEmailDomain,
		MagicLinkExpiry: appCfg.MagicLinkExpiry,
	}, errLog, logger)
	profileHandler := profilefeature.NewHandler(db, errLog, logger)
	companiesHandler := companiesfeature.NewHandler(db, auditLog, errLog, logger)
	applicationsHandler := applicationsfeature.NewHandler(db, auditLog, errLog, logger)
	resourcesHandler := resourcesfeature.NewHandler(db, auditLog, errLog, logger)
	calendarHandler := calendarfeature.NewHandler(db, errLog, logger)
	supportHandler := supportfeature.NewHandler(db, auditLog, errLog, logger)
	noticesHandler := noticesfeature.NewHandler(db, auditLog, errLog, logger)
	auditHandler := auditlogfeature.NewHandler(db, errLog, logger)

	// Without a running hub the websocket route answers 404 and posts are
	// not pushed.
	var upgrader *websocket.Upgrader
	if rt.Hub != nil {
		upgrader = wsauth.NewUpgrader(appCfg.WSAllowedOrigins)
	}
	discussionsHandler := discussionsfeature.NewHandler(db, rt.Hub, upgrader, auditLog, errLog, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", loginHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Route("/profile", profileHandler.MountRoutes)

			r.Route("/companies", func(r chi.Router) {
				companiesHandler.MountRoutes(r)
				r.Route("/{id}/discussions", discussionsHandler.MountChannelRoutes)
				r.Route("/{id}/resources", resourcesHandler.MountCompanyRoutes)
			})

			r.Route("/applications", applicationsHandler.MountRoutes)
			r.Route("/discussions", discussionsHandler.MountRoutes)
			r.Route("/resources", resourcesHandler.MountRoutes)
			r.Route("/calendar", calendarHandler.MountRoutes)
			r.Route("/support", supportHandler.MountRoutes)
			r.Route("/notices", noticesHandler.MountRoutes)
		})

		r.Route("/admin", func(r chi.Router) {
			// Password login is the one admin route open to anonymous callers.
			loginHandler.MountAdminRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleAdmin))
				r.Route("/companies", companiesHandler.MountAdminRoutes)
				r.Route("/resources", resourcesHandler.MountAdminRoutes)
				r.Route("/support", supportHandler.MountAdminRoutes)
				r.Route("/notices", noticesHandler.MountAdminRoutes)
				r.Route("/audit", auditHandler.MountAdminRoutes)
			})
		})
	})

	return r, nil
}

// requestID assigns a UUID to requests that arrive without X-Request-ID
// and echoes the id on the response. middleware.RequestID picks it up from
// the request header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(middleware.RequestIDHeader, id)
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
