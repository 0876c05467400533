package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/livetl"
)

// TranslatePath is the endpoint the HTTP provider posts to.
const TranslatePath = "/api/translate"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPProvider implements Translator against a remote /api/translate endpoint.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// HTTPConfig holds configuration for the HTTP provider.
type HTTPConfig struct {
	BaseURL string        // Service base URL (e.g., "http://localhost:8080")
	Timeout time.Duration // Per-request timeout (default: 10s)
	Client  *http.Client  // Custom client (optional, Timeout is ignored when set)
}

// translateRequest is the JSON body sent to the service.
type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
}

// translateResponse covers both the success and the failure payload.
type translateResponse struct {
	Translation *string `json:"translation"`
	Error       string  `json:"error"`
}

// NewHTTPProvider creates a new HTTP provider.
func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}
}

// Translate posts the request and maps the outcome onto the livetl error taxonomy.
func (p *HTTPProvider) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	body, err := json.Marshal(translateRequest{
		Text:           req.Text,
		TargetLanguage: req.TargetLanguage,
	})
	if err != nil {
		return "", &livetl.NetworkError{Message: "encoding request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+TranslatePath, bytes.NewReader(body))
	if err != nil {
		return "", &livetl.NetworkError{Message: "building request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", livetl.UserAgent())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &livetl.NetworkError{Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &livetl.NetworkError{Message: "reading response", Cause: err}
	}

	var decoded translateResponse
	decodeErr := json.Unmarshal(data, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The error message is optional; a failure status is enough.
		return "", &livetl.ServiceError{
			StatusCode: resp.StatusCode,
			Message:    decoded.Error,
		}
	}

	if decodeErr != nil {
		return "", &livetl.NetworkError{Message: "malformed response", Cause: decodeErr}
	}
	if decoded.Translation == nil {
		return "", &livetl.NetworkError{
			Message: "malformed response",
			Cause:   errors.New(`missing "translation" field`),
		}
	}

	return *decoded.Translation, nil
}

// BaseURL returns the configured service base URL.
func (p *HTTPProvider) BaseURL() string {
	return p.baseURL
}

// String implements fmt.Stringer for diagnostics.
func (p *HTTPProvider) String() string {
	return fmt.Sprintf("http(%s)", p.baseURL)
}

// Verify HTTPProvider implements Translator
var _ Translator = (*HTTPProvider)(nil)
