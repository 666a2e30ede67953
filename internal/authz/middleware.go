package authz

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/locagest/locagest/internal/shared"
)

type grantContextKey struct{}

// ContextWithGrant stores a resolved grant in context.
func ContextWithGrant(ctx context.Context, grant *Grant) context.Context {
	return context.WithValue(ctx, grantContextKey{}, grant)
}

// GrantFromContext returns the grant resolved by the middleware, nil when the
// request is anonymous or resolution failed.
func GrantFromContext(ctx context.Context) *Grant {
	grant, _ := ctx.Value(grantContextKey{}).(*Grant)
	return grant
}

// Middleware wires authorization checks into HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Resolve loads the current user's grant into the request context without
// enforcing anything. Resolution failures are logged and leave the grant nil,
// so downstream checks fail closed.
func (m Middleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.currentUserID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		grant, err := m.Service.GrantFor(r.Context(), userID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("resolve grant", slog.Int64("user_id", userID), slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithGrant(r.Context(), grant)))
	})
}

// RequireCapability ensures the current user holds the capability.
func (m Middleware) RequireCapability(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsAllowed(GrantFromContext(r.Context()), capability) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequireAdmin ensures the current user is an administrator.
func (m Middleware) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GrantFromContext(r.Context()).IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequireAuthenticated ensures a logged-in session, without capability checks.
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := m.currentUserID(r); !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) currentUserID(r *http.Request) (int64, bool) {
	return shared.CurrentUserID(r.Context())
}
