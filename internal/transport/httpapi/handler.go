// Package httpapi exposes the query engine over the "GET /{index}?query=
// ...&limit=...&offset=..." endpoint named in the external interfaces.
// Stdlib net/http only: no component in this repository pulls in a web
// framework for its ambient HTTP surface.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	pickyerrors "github.com/Aman-CERP/picky/internal/errors"
	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/Aman-CERP/picky/internal/transport"
)

// Response is the JSON body returned for a successful query.
type Response struct {
	IDs         []posting.ID `json:"ids"`
	Truncated   bool         `json:"truncated"`
	Allocations int          `json:"allocations_evaluated"`
}

// Handler serves the per-index search endpoint.
type Handler struct {
	engine *transport.Engine
	logger *slog.Logger
}

// NewHandler builds a Handler over engine. A nil logger falls back to
// slog.Default().
func NewHandler(engine *transport.Engine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// ServeHTTP implements http.Handler. The index name is the request path
// stripped of its leading slash; "query", "limit", and "offset" are
// query-string parameters.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	index := strings.Trim(r.URL.Path, "/")
	if index == "" {
		writeErrorJSON(w, http.StatusBadRequest, pickyerrors.New(pickyerrors.ErrCodeMalformedQuery,
			"index name is required in the request path", nil))
		return
	}

	q := r.URL.Query()
	limit := parseIntDefault(q.Get("limit"), 0)
	offset := parseIntDefault(q.Get("offset"), 0)

	result, err := h.engine.Search(r.Context(), index, q.Get("query"), limit, offset)
	if err != nil {
		h.logger.Warn("query failed", "index", index, "attrs", pickyerrors.FormatForLog(err))
		writeErrorJSON(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		IDs:         result.IDs,
		Truncated:   result.Truncated,
		Allocations: len(result.Allocations),
	})
}

func statusFor(err error) int {
	if pickyerrors.GetCode(err) == "" {
		return http.StatusInternalServerError
	}
	switch pickyerrors.GetCategory(err) {
	case pickyerrors.CategoryQuery:
		return http.StatusNotFound
	case pickyerrors.CategoryConfig:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeErrorJSON writes err's structured JSON representation (code,
// category, severity, suggestion, ...) as the response body.
func writeErrorJSON(w http.ResponseWriter, status int, err error) {
	body, marshalErr := pickyerrors.FormatJSON(err)
	if marshalErr != nil {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
