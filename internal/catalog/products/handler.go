package products

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/platform/httpx"
	"github.com/locagest/locagest/internal/shared"
)

const maxUploadSize = 8 << 20

type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	uploadDir string
}

func NewHandler(logger *slog.Logger, service *Service, authz authz.Middleware, uploadDir string) *Handler {
	return &Handler{logger: logger, service: service, authz: authz, uploadDir: uploadDir}
}

// MountRoutes registers product routes. Each mutation is gated by its own
// capability so a grant can allow creating without deleting.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAuthenticated())
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
		r.With(h.authz.RequireCapability(authz.CapCreateProduct)).Post("/", h.Create)
		r.With(h.authz.RequireCapability(authz.CapModifyProduct)).Put("/{id}", h.Update)
		r.With(h.authz.RequireCapability(authz.CapModifyProduct)).Post("/{id}/image", h.UploadImage)
		r.With(h.authz.RequireCapability(authz.CapDeleteProduct)).Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := catalog.FiltersFromQuery(r)
	list, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Product{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"products":   list,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// Create accepts either a JSON body or a multipart form with an optional
// image part named "image".
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, imagePath, err := h.decodeForm(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.respondServiceError(w, err, "create product")
		return
	}
	if imagePath != "" {
		if err := h.service.AttachImage(r.Context(), created.ID, imagePath); err != nil {
			h.logger.Error("attach product image", "error", err, "id", created.ID)
		} else {
			created.ImagePath = imagePath
		}
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.service.Update(r.Context(), id, form); err != nil {
		h.respondServiceError(w, err, "update product")
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "expected multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing image part")
		return
	}
	defer file.Close()

	path, err := h.storeImage(file, header)
	if err != nil {
		h.logger.Error("store product image", "error", err, "id", id)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if err := h.service.AttachImage(r.Context(), id, path); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"imagePath": path})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete product", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decodeForm(r *http.Request) (ProductForm, string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var form ProductForm
		if err := httpx.DecodeJSON(r, &form); err != nil {
			return ProductForm{}, "", errors.New("malformed JSON body")
		}
		return form, "", nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return ProductForm{}, "", errors.New("malformed multipart form")
	}
	categoryID, _ := strconv.ParseInt(r.FormValue("categoryId"), 10, 64)
	brandID, _ := strconv.ParseInt(r.FormValue("brandId"), 10, 64)
	unitID, _ := strconv.ParseInt(r.FormValue("unitId"), 10, 64)
	cost, _ := strconv.ParseFloat(r.FormValue("cost"), 64)
	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	stock, _ := strconv.Atoi(r.FormValue("stock"))
	stockAlert, _ := strconv.Atoi(r.FormValue("stockAlert"))
	form := ProductForm{
		Code:             r.FormValue("code"),
		Name:             r.FormValue("name"),
		BarcodeSymbology: r.FormValue("barcodeSymbology"),
		CategoryID:       categoryID,
		BrandID:          brandID,
		UnitID:           unitID,
		Cost:             cost,
		Price:            price,
		Stock:            stock,
		StockAlert:       stockAlert,
		Description:      r.FormValue("description"),
		ForSale:          r.FormValue("forSale") == "true",
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		// The image part is optional.
		return form, "", nil
	}
	defer file.Close()

	path, err := h.storeImage(file, header)
	if err != nil {
		return ProductForm{}, "", errors.New("could not store uploaded image")
	}
	return form, path, nil
}

// storeImage writes the upload under the configured directory with a random
// name, keeping only the original extension.
func (h *Handler) storeImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(h.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return name, nil
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, action string) {
	var fields FieldErrors
	if errors.As(err, &fields) {
		httpx.FieldErrors(w, fields)
		return
	}
	h.logger.Error(action, "error", err)
	httpx.RespondError(w, err)
}
