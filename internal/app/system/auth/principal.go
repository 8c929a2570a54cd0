package auth

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles carried in session tokens.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Principal is the authenticated caller. It is rebuilt from the bearer
// token (and optionally refreshed from the database) on every request.
type Principal struct {
	ID    primitive.ObjectID `json:"id"`
	Role  string             `json:"role"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// IsAdmin reports whether the principal has the admin role.
func (p *Principal) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }

// IsStudent reports whether the principal has the student role.
func (p *Principal) IsStudent() bool { return p != nil && p.Role == RoleStudent }

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal stored in ctx.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// CurrentPrincipal returns the caller and a "found?" flag.
func CurrentPrincipal(r *http.Request) (*Principal, bool) {
	return FromContext(r.Context())
}

// WithTestUser injects p into the request context, bypassing token parsing.
// Handler tests use it to simulate a signed-in caller.
func WithTestUser(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(WithPrincipal(r.Context(), p))
}
