// internal/app/features/companies/routes.go
package companies

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the read-only catalogue under /api/companies. Any
// signed-in caller may use it.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// MountAdminRoutes mounts catalogue management under /api/admin/companies.
// The caller applies the admin role check.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/events", h.AddEvent)
	r.Delete("/{id}/events/{eventID}", h.RemoveEvent)
	r.Get("/{id}/applications", h.Applications)
}
