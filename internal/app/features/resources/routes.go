// internal/app/features/resources/routes.go
package resources

import (
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountCompanyRoutes mounts under /api/companies/{id}/resources.
func (h *Handler) MountCompanyRoutes(r chi.Router) {
	r.Get("/", h.ListForCompany)
	r.With(auth.RequireRole(auth.RoleStudent)).Post("/", h.Submit)
}

// MountRoutes mounts under /api/resources.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(auth.RequireRole(auth.RoleStudent)).Get("/mine", h.Mine)
}

// MountAdminRoutes mounts moderation under /api/admin/resources.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.AdminList)
	r.Post("/{id}/approve", h.Approve)
	r.Post("/{id}/reject", h.Reject)
	r.Delete("/{id}", h.Delete)
}
