// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the profile routes; bootstrap mounts them under
// /api/profile. Every route is for students only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(auth.RequireRole(auth.RoleStudent))
	r.Get("/", h.Get)
	r.Put("/", h.Update)
	r.Get("/summary", h.Summary)
}
