// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	adminstore "github.com/dalemusser/placementhub/internal/app/store/admins"
	"github.com/dalemusser/placementhub/internal/app/store/audit"
	magiclinkstore "github.com/dalemusser/placementhub/internal/app/store/magiclinks"
	noticestore "github.com/dalemusser/placementhub/internal/app/store/notices"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/app/system/realtime"
	"github.com/dalemusser/placementhub/internal/app/system/tasks"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the schema is in place and
// before the HTTP handler is built: the admin bootstrap, the background
// sweep jobs and the discussion websocket hub.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.PlacementHubMongoDatabase

	if appCfg.AdminEmail != "" {
		bootCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		err := ensureAdmin(bootCtx, db, appCfg, newAuditLogger(db, appCfg, logger), logger)
		cancel()
		if err != nil {
			return err
		}
	}

	rt := deps.Runtime
	if rt == nil {
		return fmt.Errorf("startup: runtime not initialized")
	}

	rt.Jobs = workers.NewRunner(logger,
		tasks.NoticeExpiryJob(noticestore.New(db), logger, appCfg.NoticeSweepInterval),
		tasks.MagicLinkCleanupJob(magiclinkstore.New(db, appCfg.MagicLinkExpiry), logger, appCfg.MagicLinkSweepInterval),
	)
	rt.Jobs.Start()

	// The hub outlives the Startup context, so it gets its own.
	hubCtx, stopHub := context.WithCancel(context.Background())
	rt.Hub = realtime.NewHub(logger)
	rt.stopHub = stopHub
	go rt.Hub.Run(hubCtx)

	return nil
}

// ensureAdmin creates the configured admin account when it does not exist.
// An existing account is left untouched, including its password.
func ensureAdmin(ctx context.Context, db *mongo.Database, appCfg AppConfig, auditLog *auditlog.Logger, logger *zap.Logger) error {
	admin, created, err := adminstore.New(db).EnsureAdmin(ctx, appCfg.AdminName, appCfg.AdminEmail, appCfg.AdminPassword)
	if err != nil {
		logger.Error("admin bootstrap failed", zap.String("email", appCfg.AdminEmail), zap.Error(err))
		return fmt.Errorf("admin bootstrap: %w", err)
	}
	if !created {
		logger.Debug("admin already present", zap.String("email", admin.Email))
		return nil
	}
	logger.Info("bootstrapped admin account", zap.String("email", admin.Email))
	auditLog.AdminBootstrapped(ctx, admin.ID, admin.Email)
	return nil
}

func newAuditLogger(db *mongo.Database, appCfg AppConfig, logger *zap.Logger) *auditlog.Logger {
	return auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
}
