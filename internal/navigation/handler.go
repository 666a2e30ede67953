package navigation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/platform/httpx"
)

// Handler serves the filtered menu for the current user.
type Handler struct{}

// NewHandler builds a Handler instance.
func NewHandler() *Handler {
	return &Handler{}
}

// MountRoutes registers navigation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.menu)
}

// menu re-filters the static tree on every request, so a permission edit is
// reflected on the user's next fetch. When the grant could not be resolved
// (anonymous, or authorization data unavailable) the nil grant produces the
// locked minimal menu. Gated items are never shown optimistically.
func (h *Handler) menu(w http.ResponseWriter, r *http.Request) {
	grant := authz.GrantFromContext(r.Context())
	items := Filter(grant, Tree())
	if items == nil {
		items = []Item{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}
