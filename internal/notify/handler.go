package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/platform/httpx"
	"github.com/locagest/locagest/internal/shared"
)

const heartbeatInterval = 25 * time.Second

type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, authz authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAuthenticated())
		r.Get("/", h.List)
		r.Post("/read-all", h.MarkAllRead)
		r.Post("/{id}/read", h.MarkRead)
		r.Get("/stream", h.Stream)
	})
}

// List serves the feed. A Redis failure degrades to an empty list so the
// console keeps working; the error is logged, never surfaced as an outage.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.CurrentUserID(r.Context())
	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list notifications", "error", err, "user_id", userID)
		list = []Notification{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"notifications": list})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.CurrentUserID(r.Context())
	if err := h.service.MarkRead(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.logger.Error("mark notification read", "error", err, "user_id", userID)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.CurrentUserID(r.Context())
	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		h.logger.Error("mark all notifications read", "error", err, "user_id", userID)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// Stream serves the live feed over SSE. The subscription is closed when the
// client disconnects, so no Redis subscription ever outlives its request.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "streaming unsupported")
		return
	}
	userID, _ := shared.CurrentUserID(r.Context())

	sub, err := h.service.Subscribe(r.Context(), userID)
	if err != nil {
		h.logger.Error("subscribe notifications", "error", err, "user_id", userID)
		httpx.Problem(w, http.StatusServiceUnavailable, "Stream Unavailable", "could not open the notification stream")
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case n, open := <-sub.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(n)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
