// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for PlacementHub.
//
// Values come from environment variables (PLACEMENTHUB_*), config files, or
// command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig still owns
// ports, TLS, log level, CORS and body limits; everything here is specific
// to the placement domain.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session tokens
	JWTSecret  string        // HS256 signing key, at least 32 bytes
	JWTIssuer  string        // iss claim written and required on every token
	SessionTTL time.Duration // lifetime of an issued session token

	// Magic-link sign-in
	MagicLinkExpiry    time.Duration
	AllowedEmailDomain string // when set, only <user>@<domain> may request a link
	BaseURL            string // e.g., "https://placements.example.edu" or "http://localhost:3000"
	SiteName           string // shown in email subjects and bodies

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (blank logs messages instead of sending)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// Admin bootstrap
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Audit logging: all | db | log | off
	AuditLogAuth  string
	AuditLogAdmin string

	// Background sweeps
	NoticeSweepInterval    time.Duration
	MagicLinkSweepInterval time.Duration

	// Websocket origins allowed to subscribe to discussion channels.
	// Empty means same host only; "*" allows any origin.
	WSAllowedOrigins []string
}
