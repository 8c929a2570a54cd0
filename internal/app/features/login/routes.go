// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the sign-in routes; bootstrap mounts them under /api/auth.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/magic-link", h.RequestMagicLink)
	r.Get("/verify", h.Verify)
	r.Post("/verify", h.Verify)
	r.With(auth.RequireAuth).Get("/me", h.Me)
}

// MountAdminRoutes mounts the admin password login; bootstrap mounts it
// under /api/admin.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Post("/login", h.AdminLogin)
}
