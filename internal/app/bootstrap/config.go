// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	adminstore "github.com/dalemusser/placementhub/internal/app/store/admins"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for PlacementHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: PLACEMENTHUB_MONGO_URI, PLACEMENTHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "placement_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Session tokens
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing secret (at least 32 characters)"},
	{Name: "jwt_issuer", Default: "placementhub", Desc: "JWT issuer claim"},
	{Name: "session_ttl", Default: "168h", Desc: "Session token lifetime (e.g., 168h, 24h)"},

	// Magic links
	{Name: "magic_link_expiry", Default: "15m", Desc: "Magic link lifetime (e.g., 15m, 1h)"},
	{Name: "allowed_email_domain", Default: "", Desc: "Restrict sign-in to this email domain (blank allows any)"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email links"},
	{Name: "site_name", Default: "PlacementHub", Desc: "Site name used in emails"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank logs mail instead of sending)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@placementhub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "PlacementHub", Desc: "From display name"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin (created on startup if missing)"},
	{Name: "admin_password", Default: "", Desc: "Password for the bootstrap admin"},
	{Name: "admin_name", Default: "Placement Admin", Desc: "Display name for the bootstrap admin"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Background jobs
	{Name: "notice_sweep_interval", Default: "5m", Desc: "How often expired notices are deactivated"},
	{Name: "magic_link_sweep_interval", Default: "1h", Desc: "How often spent or expired magic links are removed"},

	// Websockets
	{Name: "ws_allowed_origins", Default: "", Desc: "Comma-separated origins allowed to open discussion websockets ('*' for any)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// PLACEMENTHUB_* environment variables and flags, merged with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PLACEMENTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:  appValues.String("jwt_secret"),
		JWTIssuer:  appValues.String("jwt_issuer"),
		SessionTTL: appValues.Duration("session_ttl", 7*24*time.Hour),

		MagicLinkExpiry:    appValues.Duration("magic_link_expiry", 15*time.Minute),
		AllowedEmailDomain: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(appValues.String("allowed_email_domain")), "@")),
		BaseURL:            strings.TrimRight(appValues.String("base_url"), "/"),
		SiteName:           appValues.String("site_name"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		AdminEmail:    strings.TrimSpace(appValues.String("admin_email")),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		NoticeSweepInterval:    appValues.Duration("notice_sweep_interval", 5*time.Minute),
		MagicLinkSweepInterval: appValues.Duration("magic_link_sweep_interval", time.Hour),

		WSAllowedOrigins: splitList(appValues.String("ws_allowed_origins")),
	}

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("count", n))
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if len(appCfg.JWTSecret) < auth.MinSecretLength {
		return fmt.Errorf("jwt_secret must be at least %d characters", auth.MinSecretLength)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.JWTSecret, "dev-only-") {
		return fmt.Errorf("jwt_secret must be changed from the development default in prod")
	}
	if appCfg.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if appCfg.MagicLinkExpiry <= 0 {
		return fmt.Errorf("magic_link_expiry must be positive")
	}

	if (appCfg.AdminEmail == "") != (appCfg.AdminPassword == "") {
		return fmt.Errorf("admin_email and admin_password must be set together")
	}
	if appCfg.AdminPassword != "" && len(appCfg.AdminPassword) < adminstore.MinPasswordLength {
		return fmt.Errorf("admin_password must be at least %d characters", adminstore.MinPasswordLength)
	}

	if !auditlog.IsValidSetting(appCfg.AuditLogAuth) {
		return fmt.Errorf("audit_log_auth must be one of all, db, log, off (got %q)", appCfg.AuditLogAuth)
	}
	if !auditlog.IsValidSetting(appCfg.AuditLogAdmin) {
		return fmt.Errorf("audit_log_admin must be one of all, db, log, off (got %q)", appCfg.AuditLogAdmin)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
