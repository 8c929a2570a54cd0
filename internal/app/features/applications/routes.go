// internal/app/features/applications/routes.go
package applications

import (
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the pipeline under /api/applications.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(auth.RequireAuth)
	r.With(auth.RequireRole(auth.RoleStudent)).Post("/", h.Apply)
	r.With(auth.RequireRole(auth.RoleStudent)).Get("/mine", h.Mine)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/stage", h.RecordStage)
	r.With(auth.RequireRole(auth.RoleStudent)).Post("/{id}/withdraw", h.Withdraw)
}
