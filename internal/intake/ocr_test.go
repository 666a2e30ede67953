package intake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOCRClientParseSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		require.Equal(t, "test-key", r.FormValue("apikey"))
		require.Equal(t, "2", r.FormValue("OCREngine"))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		require.Equal(t, "facture.png", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"IsErroredOnProcessing":false,"ParsedResults":[{"ParsedText":"Phone: +216 22 334 455"}]}`))
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL, "test-key", 5*time.Second)
	result, err := client.Parse(context.Background(), "facture.png", strings.NewReader("not-a-real-png"))

	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "Phone: +216 22 334 455", result.ExtractedText)
}

func TestOCRClientProviderFailureIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"IsErroredOnProcessing":true,"ParsedResults":[],"ErrorMessage":["Unable to recognize the file type","E216"]}`))
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL, "test-key", 5*time.Second)
	result, err := client.Parse(context.Background(), "scan.pdf", strings.NewReader("payload"))

	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Unable to recognize the file type; E216", result.ErrorMessage)
}

func TestOCRClientEmptyResultsFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IsErroredOnProcessing":false,"ParsedResults":[]}`))
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL, "k", time.Second)
	result, err := client.Parse(context.Background(), "a.png", strings.NewReader("x"))

	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "could not extract text from document", result.ErrorMessage)
}

func TestOCRClientUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL, "k", time.Second)
	_, err := client.Parse(context.Background(), "a.png", strings.NewReader("x"))

	require.Error(t, err)
}
