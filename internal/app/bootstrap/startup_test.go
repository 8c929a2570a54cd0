package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adminstore "github.com/dalemusser/placementhub/internal/app/store/admins"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "placement_hub",
		JWTSecret:       "test-secret-0123456789abcdef0123456789",
		JWTIssuer:       "placementhub",
		SessionTTL:      24 * time.Hour,
		MagicLinkExpiry: 15 * time.Minute,
		AuditLogAuth:    auditlog.Off,
		AuditLogAdmin:   auditlog.Off,
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", dev, func(*AppConfig) {}, false},
		{"bad mongo uri", dev, func(c *AppConfig) { c.MongoURI = "postgres://nope" }, true},
		{"short jwt secret", dev, func(c *AppConfig) { c.JWTSecret = "short" }, true},
		{"dev secret in prod", prod, func(c *AppConfig) { c.JWTSecret = "dev-only-change-me-please-0123456789ABCDEF" }, true},
		{"dev secret in dev", dev, func(c *AppConfig) { c.JWTSecret = "dev-only-change-me-please-0123456789ABCDEF" }, false},
		{"zero session ttl", dev, func(c *AppConfig) { c.SessionTTL = 0 }, true},
		{"zero magic link expiry", dev, func(c *AppConfig) { c.MagicLinkExpiry = 0 }, true},
		{"admin email without password", dev, func(c *AppConfig) { c.AdminEmail = "tpo@college.edu" }, true},
		{"admin password too short", dev, func(c *AppConfig) {
			c.AdminEmail = "tpo@college.edu"
			c.AdminPassword = "short"
		}, true},
		{"admin configured", dev, func(c *AppConfig) {
			c.AdminEmail = "tpo@college.edu"
			c.AdminPassword = "correct-horse"
		}, false},
		{"bad audit setting", dev, func(c *AppConfig) { c.AuditLogAdmin = "everything" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example.edu, ,https://b.example.edu ")
	if len(got) != 2 || got[0] != "https://a.example.edu" || got[1] != "https://b.example.edu" {
		t.Errorf("splitList() = %v", got)
	}
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %v, want nil", got)
	}
}

func TestEnsureAdmin_CreatesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validConfig()
	cfg.AdminEmail = "TPO@College.edu"
	cfg.AdminPassword = "correct-horse"
	cfg.AdminName = "Placement Officer"
	cfg.AuditLogAdmin = auditlog.DB
	audit := newAuditLogger(db, cfg, testLogger())

	if err := ensureAdmin(ctx, db, cfg, audit, testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}
	// Second run must not create a duplicate or change the password.
	cfg.AdminPassword = "another-password"
	if err := ensureAdmin(ctx, db, cfg, audit, testLogger()); err != nil {
		t.Fatalf("ensureAdmin (second run) failed: %v", err)
	}

	n, err := db.Collection("admins").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 admin, got %d", n)
	}

	if _, err := adminstore.New(db).Authenticate(ctx, "tpo@college.edu", "correct-horse"); err != nil {
		t.Errorf("expected original password to still work: %v", err)
	}

	events, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": "admin_bootstrapped"})
	if err != nil {
		t.Fatalf("count audit events: %v", err)
	}
	if events != 1 {
		t.Errorf("expected 1 admin_bootstrapped event, got %d", events)
	}
}

func TestBuildHandler_Routing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{
		PlacementHubMongoClient:   db.Client(),
		PlacementHubMongoDatabase: db,
		Runtime:                   &Runtime{},
	}

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, validConfig(), deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}
	t.Cleanup(deps.Runtime.limiter.Stop)

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/companies", http.StatusUnauthorized},
		{http.MethodGet, "/api/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/companies", http.StatusUnauthorized},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
		{http.MethodDelete, "/api/auth/magic-link", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if rec.Header().Get("X-Request-Id") == "" {
				t.Error("expected X-Request-Id response header")
			}
		})
	}
}

func TestRequestID_KeepsIncomingID(t *testing.T) {
	h := requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("X-Request-Id = %q, want abc-123", got)
	}
}
