package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// OCRResult is the boundary contract with the OCR service. The extractor only
// ever consumes ExtractedText.
type OCRResult struct {
	Success       bool   `json:"success"`
	ExtractedText string `json:"extractedText"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// OCRClient uploads invoice images to the external OCR HTTP service.
type OCRClient struct {
	url    string
	apiKey string
	client *http.Client
}

// NewOCRClient constructs an OCRClient. Timeout bounds the whole upload and
// parse round trip; there is no retry layer.
func NewOCRClient(url, apiKey string, timeout time.Duration) *OCRClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OCRClient{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

// ocrResponse mirrors the wire format of the OCR provider.
type ocrResponse struct {
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	ParsedResults         []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	ErrorMessage flexibleMessage `json:"ErrorMessage"`
}

// flexibleMessage tolerates the provider returning either a string or a list
// of strings in its error field.
type flexibleMessage string

func (m *flexibleMessage) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = flexibleMessage(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*m = flexibleMessage(strings.Join(many, "; "))
		return nil
	}
	*m = flexibleMessage(string(data))
	return nil
}

// Parse uploads the document and returns the recognized text. Transport and
// decoding failures return an error; a provider-side processing failure comes
// back as a non-successful result instead, so callers can surface the message
// inline without treating it as an outage.
func (c *OCRClient) Parse(ctx context.Context, filename string, file io.Reader) (OCRResult, error) {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return OCRResult{}, fmt.Errorf("intake/ocr: build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return OCRResult{}, fmt.Errorf("intake/ocr: copy upload: %w", err)
	}
	fields := map[string]string{
		"apikey":            c.apiKey,
		"language":          "eng",
		"isOverlayRequired": "false",
		"detectOrientation": "true",
		"scale":             "true",
		"OCREngine":         "2",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return OCRResult{}, fmt.Errorf("intake/ocr: write field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return OCRResult{}, fmt.Errorf("intake/ocr: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(body.String()))
	if err != nil {
		return OCRResult{}, fmt.Errorf("intake/ocr: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return OCRResult{}, fmt.Errorf("intake/ocr: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return OCRResult{}, fmt.Errorf("intake/ocr: unexpected status %d", resp.StatusCode)
	}

	var decoded ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return OCRResult{}, fmt.Errorf("intake/ocr: decode response: %w", err)
	}

	if decoded.IsErroredOnProcessing || len(decoded.ParsedResults) == 0 {
		message := string(decoded.ErrorMessage)
		if message == "" {
			message = "could not extract text from document"
		}
		return OCRResult{Success: false, ErrorMessage: message}, nil
	}
	return OCRResult{Success: true, ExtractedText: decoded.ParsedResults[0].ParsedText}, nil
}
