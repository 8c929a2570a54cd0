// internal/app/features/support/routes.go
package support

import (
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts under /api/support.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(auth.RequireRole(auth.RoleStudent)).Post("/{kind}", h.Create)
	r.With(auth.RequireRole(auth.RoleStudent)).Get("/{kind}/mine", h.Mine)
	r.Get("/{kind}/{number}", h.Get)
}

// MountAdminRoutes mounts under /api/admin/support.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/{kind}", h.AdminList)
	r.Patch("/{kind}/{number}", h.AdminUpdate)
}
