package rentals

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/platform/httpx"
	"github.com/locagest/locagest/internal/shared"
)

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
		r.Post("/rent", h.Rent)
		r.Post("/{id}/return", h.Return)
		r.Get("/mine", h.Mine)
		r.With(h.authz.RequireAdmin()).Get("/", h.List)
	})
}

type rentRequest struct {
	ProductID int64 `json:"productId"`
}

type returnRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Rent(w http.ResponseWriter, r *http.Request) {
	var req rentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	userID, _ := shared.CurrentUserID(r.Context())

	rental, err := h.service.Rent(r.Context(), req.ProductID, userID)
	if err != nil {
		h.logger.Error("rent product", "error", err, "product_id", req.ProductID, "user_id", userID)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rental)
}

func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	rentalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid rental id")
		return
	}
	var req returnRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	userID, _ := shared.CurrentUserID(r.Context())
	admin := authz.GrantFromContext(r.Context()).IsAdmin()

	rental, err := h.service.Return(r.Context(), rentalID, userID, admin, req.Reason)
	if err != nil {
		h.logger.Error("return rental", "error", err, "rental_id", rentalID, "user_id", userID)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rental)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.CurrentUserID(r.Context())
	filters := catalog.FiltersFromQuery(r)

	list, total, err := h.service.HistoryFor(r.Context(), userID, filters)
	if err != nil {
		h.logger.Error("list user rentals", "error", err, "user_id", userID)
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Rental{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"rentals":    list,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := catalog.FiltersFromQuery(r)

	list, total, err := h.service.History(r.Context(), filters)
	if err != nil {
		h.logger.Error("list rentals", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Rental{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"rentals":    list,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}
