// Package handler provides the HTTP handlers for the gateway API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"nop-gateway/internal/gateway"
	"nop-gateway/internal/model"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	gw     gateway.Gateway
	logger *slog.Logger
}

// New creates a Handler over the given gateway.
func New(gw gateway.Gateway, logger *slog.Logger) *Handler {
	return &Handler{gw: gw, logger: logger}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Session lifecycle
	mux.HandleFunc("POST /vf/login", h.handleLogin)
	mux.HandleFunc("POST /vf/session/assert", h.handleAssertSession)
	mux.HandleFunc("POST /vf/logout", h.handleLogout)

	// Pricing
	mux.HandleFunc("POST /vf/prices", h.handlePrices)

	// Orders and returns
	mux.HandleFunc("GET /vf/orders", h.handleListOrders)
	mux.HandleFunc("GET /vf/orders/{number}", h.handleGetOrder)
	mux.HandleFunc("POST /vf/orders/{number}/returns", h.handleCreateReturn)

	// Cart and wishlist
	mux.HandleFunc("POST /vf/cart/items", h.handleAddToCart)
	mux.HandleFunc("PUT /vf/cart/items/{id}", h.handleUpdateCartItem)
	mux.HandleFunc("GET /vf/cart", h.handleGetCart)
	mux.HandleFunc("GET /vf/wishlist", h.handleGetWishlist)
	mux.HandleFunc("POST /vf/wishlist/sync", h.handleSyncWishlist)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// sessionToken extracts the caller's session token: the X-Session-Token
// header, falling back to a bearer Authorization header.
func sessionToken(r *http.Request) string {
	if tok := r.Header.Get("X-Session-Token"); tok != "" {
		return tok
	}
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
