package authz

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/locagest/locagest/internal/platform/httpx"
)

// Handler exposes the capability registry to the console's role screen.
type Handler struct {
	middleware Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(middleware Middleware) *Handler {
	return &Handler{middleware: middleware}
}

// MountRoutes registers permission registry routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequireAuthenticated())
		r.Get("/registry", h.listRegistry)
		r.Get("/me", h.currentGrant)
	})
}

func (h *Handler) listRegistry(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"sections": Sections()})
}

// currentGrant returns the caller's own grant so the console can gate its
// widgets. An unresolvable grant comes back as role-less with no capabilities.
func (h *Handler) currentGrant(w http.ResponseWriter, r *http.Request) {
	grant := GrantFromContext(r.Context())
	if grant == nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"role": "", "permissions": []string{}})
		return
	}
	caps := grant.Capabilities
	if caps == nil {
		caps = []string{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"role": grant.Role, "permissions": caps})
}
