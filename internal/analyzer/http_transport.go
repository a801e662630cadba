package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sitesage/sitesage/backend/internal/model"
	"github.com/sitesage/sitesage/backend/internal/platform/errs"
)

const (
	analyzeTimeout = 60 * time.Second
	batchTimeout   = 300 * time.Second
)

var (
	errURLRequired  = errors.New("the \"url\" field is required")
	errURLsRequired = errors.New("the \"urls\" field must contain at least one URL")
)

// Transport handles HTTP requests for SEO analysis.
type Transport struct {
	service      *Service
	logger       *slog.Logger
	batchMaxURLs int
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger, batchMaxURLs int) *Transport {
	return &Transport{service: service, logger: logger, batchMaxURLs: batchMaxURLs}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", t.handleAnalyze)
	mux.HandleFunc("POST /analyze/batch", t.handleAnalyzeBatch)
	mux.HandleFunc("GET /healthz", t.handleHealth)
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

// validateURL is the system boundary for malformed URLs: nothing past this
// point treats a bad URL as a hard error.
func validateURL(raw string) *errs.AppError {
	invalid := &errs.AppError{
		Kind:    errs.InvalidInput,
		Message: "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com).",
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		invalid.Cause = err
		return invalid
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return invalid
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Only http and https URLs are supported.",
		}
	}
	return nil
}

func (t *Transport) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !t.decode(w, r, &req) {
		return
	}

	if req.URL == "" {
		t.renderError(w, http.StatusBadRequest, errURLRequired.Error())
		return
	}
	if appErr := validateURL(req.URL); appErr != nil {
		t.renderAppError(w, appErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	t.renderJSON(w, http.StatusOK, t.service.Analyze(ctx, req.URL))
}

func (t *Transport) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !t.decode(w, r, &req) {
		return
	}

	if len(req.URLs) == 0 {
		t.renderError(w, http.StatusBadRequest, errURLsRequired.Error())
		return
	}
	if len(req.URLs) > t.batchMaxURLs {
		t.renderError(w, http.StatusBadRequest,
			fmt.Sprintf("Too many URLs: at most %d per batch.", t.batchMaxURLs))
		return
	}
	for _, u := range req.URLs {
		if appErr := validateURL(u); appErr != nil {
			t.renderAppError(w, appErr)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), batchTimeout)
	defer cancel()

	t.renderJSON(w, http.StatusOK, t.service.AnalyzeBatch(ctx, req.URLs))
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a size-capped JSON request body into dst, rendering a 400 on
// failure. It reports whether decoding succeeded.
func (t *Transport) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a valid JSON object.")
		return false
	}
	return true
}

func (t *Transport) renderAppError(w http.ResponseWriter, appErr *errs.AppError) {
	status := http.StatusInternalServerError
	switch appErr.Kind {
	case errs.InvalidInput:
		status = http.StatusBadRequest
	case errs.Timeout:
		status = http.StatusGatewayTimeout
	case errs.Unknown:
		// 500 Internal Server Error
	}
	t.renderError(w, status, appErr.Message)
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
