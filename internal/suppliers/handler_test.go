package suppliers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/intake"
)

type stubScanner struct {
	result intake.OCRResult
	err    error
}

func (s stubScanner) Parse(ctx context.Context, filename string, file io.Reader) (intake.OCRResult, error) {
	return s.result, s.err
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func newTestHandler(scanner Scanner) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(&stubRepo{}), scanner, nil, authz.Middleware{})
}

func TestScanReturnsDraftRecord(t *testing.T) {
	scanner := stubScanner{result: intake.OCRResult{
		Success:       true,
		ExtractedText: "Societe El Amen\nPhone: +216 22 334 455\nQuantity: 12",
	}}
	h := newTestHandler(scanner)

	body, contentType := multipartBody(t, "document", "facture.png", "fake-image")
	req := httptest.NewRequest(http.MethodPost, "/suppliers/intake/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Scan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.Success)
	require.Equal(t, "Societe El Amen", result.Draft.Name)
	require.Equal(t, "+216 22 334 455", result.Draft.Phone)
	require.Equal(t, 12, result.Draft.Quantity)
}

func TestScanSurfacesProviderFailureInline(t *testing.T) {
	scanner := stubScanner{result: intake.OCRResult{
		Success:      false,
		ErrorMessage: "Unable to recognize the file type",
	}}
	h := newTestHandler(scanner)

	body, contentType := multipartBody(t, "document", "scan.bmp", "payload")
	req := httptest.NewRequest(http.MethodPost, "/suppliers/intake/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Scan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.False(t, result.Success)
	require.Equal(t, "Unable to recognize the file type", result.ErrorMessage)
	require.Equal(t, intake.Record{}, result.Draft)
}

func TestScanMissingDocumentPart(t *testing.T) {
	h := newTestHandler(stubScanner{})

	body, contentType := multipartBody(t, "wrongfield", "facture.png", "x")
	req := httptest.NewRequest(http.MethodPost, "/suppliers/intake/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Scan(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEchoesSubmittedOnValidationFailure(t *testing.T) {
	h := newTestHandler(stubScanner{})

	req := httptest.NewRequest(http.MethodPost, "/suppliers", strings.NewReader(`{"name":"  "}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error     string   `json:"error"`
		Submitted Supplier `json:"submitted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Error)
	require.Equal(t, "  ", body.Submitted.Name)
}

func TestCreateRepositoryFailureIsNotClientError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &stubRepo{createErr: errors.New("connection reset")}
	h := NewHandler(logger, NewService(repo), stubScanner{}, nil, authz.Middleware{})

	req := httptest.NewRequest(http.MethodPost, "/suppliers", strings.NewReader(`{"name":"Fournisseur Ouest"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "submitted")
}

func TestImportEndpointRunsInline(t *testing.T) {
	h := newTestHandler(stubScanner{})

	csvData := "Nom,Prix\nFournisseur Est,4.20\n"
	body, contentType := multipartBody(t, "file", "fournisseurs.csv", csvData)
	req := httptest.NewRequest(http.MethodPost, "/suppliers/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var report ImportReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, 1, report.Created)
	require.Empty(t, report.Failures)
}
