// internal/app/features/discussions/routes.go
package discussions

import "github.com/go-chi/chi/v5"

// MountChannelRoutes mounts channel routes under
// /api/companies/{id}/discussions.
func (h *Handler) MountChannelRoutes(r chi.Router) {
	r.Get("/{channel}", h.List)
	r.Post("/{channel}", h.Create)
	r.Get("/{channel}/ws", h.Subscribe)
}

// MountRoutes mounts per-message routes under /api/discussions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{msgID}/replies", h.Reply)
	r.Post("/{msgID}/reactions", h.React)
	r.Delete("/{msgID}", h.Delete)
}
