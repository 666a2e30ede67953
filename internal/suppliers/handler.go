package suppliers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/intake"
	"github.com/locagest/locagest/internal/platform/httpx"
	"github.com/locagest/locagest/internal/shared"
)

const maxScanSize = 10 << 20

// Scanner is the OCR boundary, satisfied by intake.OCRClient.
type Scanner interface {
	Parse(ctx context.Context, filename string, file io.Reader) (intake.OCRResult, error)
}

// ImportEnqueuer hands a CSV payload to the background worker.
type ImportEnqueuer interface {
	EnqueueSupplierImport(ctx context.Context, payload []byte) error
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	scanner  Scanner
	enqueuer ImportEnqueuer
	authz    authz.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, scanner Scanner, enqueuer ImportEnqueuer, authz authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, scanner: scanner, enqueuer: enqueuer, authz: authz}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAuthenticated())
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/intake/scan", h.Scan)
		r.Post("/import", h.Import)
		r.With(h.authz.RequireAdmin()).Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := catalog.FiltersFromQuery(r)
	list, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list suppliers", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Supplier{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"suppliers":  list,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid supplier id")
		return
	}
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

// Create persists the (possibly user-corrected) intake record. On validation
// failure the submitted record is echoed back so the console keeps its state.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var supplier Supplier
	if err := httpx.DecodeJSON(r, &supplier); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	created, err := h.service.Create(r.Context(), supplier)
	if err != nil {
		h.logger.Error("create supplier", "error", err)
		if errors.Is(err, httpx.ErrValidation) {
			httpx.JSON(w, http.StatusBadRequest, map[string]any{
				"error":     reason(err),
				"submitted": supplier,
			})
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid supplier id")
		return
	}
	var supplier Supplier
	if err := httpx.DecodeJSON(r, &supplier); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.service.Update(r.Context(), id, supplier); err != nil {
		h.logger.Error("update supplier", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid supplier id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete supplier", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// Scan runs the uploaded invoice through OCR and field extraction. The draft
// is returned for review, never persisted. An OCR provider failure yields a
// 200 with success=false so the console can show the message inline.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxScanSize); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "expected multipart form")
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing document part")
		return
	}
	defer file.Close()

	result, err := h.scanner.Parse(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("ocr request", "error", err, "filename", header.Filename)
		httpx.Problem(w, http.StatusBadGateway, "OCR Unavailable", "the document service did not respond")
		return
	}
	if !result.Success {
		httpx.JSON(w, http.StatusOK, ScanResult{Success: false, ErrorMessage: result.ErrorMessage})
		return
	}
	httpx.JSON(w, http.StatusOK, ScanResult{
		Success: true,
		Text:    result.ExtractedText,
		Draft:   intake.Extract(result.ExtractedText),
	})
}

// Import maps CSV rows onto supplier records. With async=true the file is
// handed to the background worker and the endpoint answers 202.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxScanSize); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "expected multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing file part")
		return
	}
	defer file.Close()

	if r.URL.Query().Get("async") == "true" && h.enqueuer != nil {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unreadable file")
			return
		}
		if err := h.enqueuer.EnqueueSupplierImport(r.Context(), buf.Bytes()); err != nil {
			h.logger.Error("enqueue supplier import", "error", err)
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	report, err := h.service.ImportCSV(r.Context(), file)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
