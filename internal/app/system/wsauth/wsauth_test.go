package wsauth_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/placementhub/internal/app/system/wsauth"
)

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		host    string
		origin  string
		want    bool
	}{
		{"no origin header", []string{"https://app.test.edu"}, "api.test.edu", "", true},
		{"listed origin", []string{"https://app.test.edu/"}, "api.test.edu", "https://app.test.edu", true},
		{"listed origin case", []string{"https://App.Test.edu"}, "api.test.edu", "https://app.test.edu", true},
		{"unlisted origin", []string{"https://app.test.edu"}, "api.test.edu", "https://evil.example", false},
		{"scheme matters", []string{"https://app.test.edu"}, "api.test.edu", "http://app.test.edu", false},
		{"wildcard", []string{"*"}, "api.test.edu", "https://anything.example", true},
		{"same host default", nil, "api.test.edu", "https://api.test.edu", true},
		{"cross host default", nil, "api.test.edu", "https://app.test.edu", false},
		{"garbage origin", nil, "api.test.edu", "::::", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := wsauth.OriginChecker(tt.allowed)(r); got != tt.want {
				t.Errorf("OriginChecker(%v)(%q) = %v, want %v", tt.allowed, tt.origin, got, tt.want)
			}
		})
	}
}

func TestNewUpgrader(t *testing.T) {
	up := wsauth.NewUpgrader([]string{"https://app.test.edu"})
	if up.CheckOrigin == nil {
		t.Fatal("upgrader has no origin check")
	}
}
