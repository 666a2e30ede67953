package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/locagest/locagest/internal/agents"
	"github.com/locagest/locagest/internal/auth"
	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/catalog/brands"
	"github.com/locagest/locagest/internal/catalog/categories"
	"github.com/locagest/locagest/internal/catalog/products"
	"github.com/locagest/locagest/internal/catalog/units"
	"github.com/locagest/locagest/internal/navigation"
	"github.com/locagest/locagest/internal/notify"
	"github.com/locagest/locagest/internal/observability"
	"github.com/locagest/locagest/internal/rentals"
	"github.com/locagest/locagest/internal/shared"
	"github.com/locagest/locagest/internal/suppliers"
	"github.com/locagest/locagest/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Authz          authz.Middleware

	AuthHandler       *auth.Handler
	AuthzHandler      *authz.Handler
	NavigationHandler *navigation.Handler
	ProductsHandler   *products.Handler
	CategoriesHandler *categories.Handler
	BrandsHandler     *brands.Handler
	UnitsHandler      *units.Handler
	SuppliersHandler  *suppliers.Handler
	RentalsHandler    *rentals.Handler
	NotifyHandler     *notify.Handler
	AgentsHandler     *agents.Handler
	JobHandler        *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with LocaGest defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Authz:          params.Authz,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/authz", params.AuthzHandler.MountRoutes)
	r.Route("/menu", params.NavigationHandler.MountRoutes)
	r.Route("/products", params.ProductsHandler.MountRoutes)
	r.Route("/categories", params.CategoriesHandler.MountRoutes)
	r.Route("/brands", params.BrandsHandler.MountRoutes)
	r.Route("/units", params.UnitsHandler.MountRoutes)
	r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
	r.Route("/rentals", params.RentalsHandler.MountRoutes)
	r.Route("/notifications", params.NotifyHandler.MountRoutes)
	r.Route("/agents", params.AgentsHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.Config != nil && params.Config.UploadDir != "" {
		// Product images are written by the products handler and served
		// read-only from here.
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(params.Config.UploadDir)))
		r.Handle("/uploads/*", uploadCacheHandler(fileServer))
	}

	return r
}

// uploadCacheHandler wraps the upload file server with Cache-Control headers.
func uploadCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
