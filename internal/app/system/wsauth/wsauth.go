// internal/app/system/wsauth/wsauth.go
// Package wsauth decides which browser origins may open websocket
// connections.
package wsauth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// OriginChecker returns a CheckOrigin func for allowed. A "*" entry allows
// any origin. With an empty list only same-host origins are accepted.
// Requests without an Origin header (non-browser clients) are always allowed.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	anyOrigin := false
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimRight(strings.TrimSpace(a), "/"))
		if a == "" {
			continue
		}
		if a == "*" {
			anyOrigin = true
		}
		set[a] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || anyOrigin {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		if len(set) == 0 {
			return strings.EqualFold(u.Host, r.Host)
		}
		_, ok := set[strings.ToLower(u.Scheme+"://"+u.Host)]
		return ok
	}
}

// NewUpgrader returns an upgrader restricted to allowed origins.
func NewUpgrader(allowed []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     OriginChecker(allowed),
	}
}
