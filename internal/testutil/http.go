package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentUser returns a student principal with a fresh ID.
func StudentUser() *auth.Principal {
	return &auth.Principal{
		ID:    primitive.NewObjectID(),
		Role:  auth.RoleStudent,
		Name:  "Test Student",
		Email: "student@test.edu",
	}
}

// StudentPrincipal returns a student principal for an existing student ID.
func StudentPrincipal(id primitive.ObjectID, name, email string) *auth.Principal {
	return &auth.Principal{ID: id, Role: auth.RoleStudent, Name: name, Email: email}
}

// AdminUser returns an admin principal with a fresh ID.
func AdminUser() *auth.Principal {
	return &auth.Principal{
		ID:    primitive.NewObjectID(),
		Role:  auth.RoleAdmin,
		Name:  "Test Admin",
		Email: "admin@test.edu",
	}
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
// A string or []byte body is sent verbatim.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var body io.Reader
	switch b := v.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	case []byte:
		body = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithUser adds a principal to the request context for testing
// authenticated handlers.
func WithUser(r *http.Request, p *auth.Principal) *http.Request {
	return auth.WithTestUser(r, p)
}

// NewAuthenticatedRequest creates an HTTP request with a principal in context.
func NewAuthenticatedRequest(method, target string, p *auth.Principal) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), p)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q: %s", expected, r.Body.String())
	}
}

// DecodeJSON unmarshals the response body into v.
func (r *ResponseRecorder) DecodeJSON(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, r.Body.String())
	}
}

// ErrorCode returns the "error" field of a JSON error response.
func (r *ResponseRecorder) ErrorCode(t *testing.T) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	r.DecodeJSON(t, &body)
	return body.Error
}
