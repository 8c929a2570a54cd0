package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret-that-is-at-least-32-chars!!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret, "placementhub-test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short", "x", time.Hour); err == nil {
		t.Fatal("NewTokenService() should reject short secrets")
	}
}

func TestNewTokenService_ZeroTTL(t *testing.T) {
	if _, err := NewTokenService(testSecret, "x", 0); err == nil {
		t.Fatal("NewTokenService() should reject a zero ttl")
	}
}

func TestIssueAndParse_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)
	p := Principal{ID: primitive.NewObjectID(), Role: RoleStudent, Name: "Asha", Email: "asha@uni.edu"}

	tok, exp, err := ts.Issue(p)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Errorf("token %q is not a three-part JWT", tok)
	}
	if d := time.Until(exp); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expiry %v not about one hour out", exp)
	}

	got, err := ts.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.ID != p.ID || got.Role != p.Role || got.Email != p.Email || got.Name != p.Name {
		t.Errorf("Parse() = %+v, want %+v", got, p)
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	ts := newTestTokenService(t)
	p := Principal{ID: primitive.NewObjectID(), Role: RoleAdmin}

	a, _, _ := ts.Issue(p)
	b, _, _ := ts.Issue(p)
	if a == b {
		t.Error("two tokens issued in the same second should differ by jti")
	}
}

func TestParse_Expired(t *testing.T) {
	ts := newTestTokenService(t)
	ts.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := ts.Issue(Principal{ID: primitive.NewObjectID(), Role: RoleStudent})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	ts.now = time.Now

	if _, err := ts.Parse(tok); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Parse() error = %v, want ErrTokenExpired", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService("another-secret-that-is-32-characters-long", "placementhub-test", time.Hour)

	tok, _, _ := other.Issue(Principal{ID: primitive.NewObjectID(), Role: RoleStudent})
	if _, err := ts.Parse(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Parse() error = %v, want ErrTokenInvalid", err)
	}
}

func TestParse_WrongIssuer(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService(testSecret, "someone-else", time.Hour)

	tok, _, _ := other.Issue(Principal{ID: primitive.NewObjectID(), Role: RoleStudent})
	if _, err := ts.Parse(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Parse() error = %v, want ErrTokenInvalid", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	ts := newTestTokenService(t)
	if _, err := ts.Parse("not.a.jwt"); err == nil {
		t.Error("Parse() should fail for garbage input")
	}
}
