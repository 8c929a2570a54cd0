package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PrincipalFetcher reloads a principal from storage so that deleted or
// disabled accounts lose access before their token expires. It returns nil
// when the account should be treated as signed out.
type PrincipalFetcher interface {
	FetchPrincipal(ctx context.Context, id primitive.ObjectID, role string) *Principal
}

// Authenticator turns bearer tokens into a Principal on the request context.
type Authenticator struct {
	tokens  *TokenService
	fetcher PrincipalFetcher
	log     *zap.Logger
}

// NewAuthenticator builds an Authenticator. fetcher may be nil, in which case
// token claims are trusted as-is.
func NewAuthenticator(tokens *TokenService, fetcher PrincipalFetcher, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, fetcher: fetcher, log: logger}
}

// Tokens returns the underlying token service.
func (a *Authenticator) Tokens() *TokenService { return a.tokens }

// BearerToken extracts the token from "Authorization: Bearer <token>".
// Browsers cannot set headers on a websocket handshake, so upgrade requests
// may pass it as ?token= instead. Other requests must use the header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if r.Method == http.MethodGet && websocket.IsWebSocketUpgrade(r) {
		return strings.TrimSpace(r.URL.Query().Get("token"))
	}
	return ""
}

// LoadPrincipal injects the caller into the context when a valid token is
// present. Requests without a token continue anonymously.
func (a *Authenticator) LoadPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := BearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		p, err := a.tokens.Parse(raw)
		if err != nil {
			a.log.Debug("rejecting bearer token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if a.fetcher != nil {
			p = a.fetcher.FetchPrincipal(r.Context(), p.ID, p.Role)
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentPrincipal(r); !ok {
			jsonio.Error(w, http.StatusUnauthorized, "unauthorized", "valid authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous callers with 401 and callers outside the
// allowed roles with 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := CurrentPrincipal(r)
			if !ok {
				jsonio.Error(w, http.StatusUnauthorized, "unauthorized", "valid authentication required")
				return
			}
			if _, has := set[strings.ToLower(p.Role)]; !has {
				jsonio.Error(w, http.StatusForbidden, "forbidden", "you do not have access to this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
