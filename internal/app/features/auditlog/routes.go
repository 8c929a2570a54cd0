// internal/app/features/auditlog/routes.go
package auditlog

import "github.com/go-chi/chi/v5"

// MountAdminRoutes mounts the audit log under /api/admin/audit. The caller
// applies the admin role check.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
}
