// Package gateway defines the operations the gateway exposes to callers and
// their composition over sessions, credentials, and the upstream store.
package gateway

import (
	"context"
	"time"

	"nop-gateway/internal/fulfillment"
	"nop-gateway/internal/model"
	"nop-gateway/internal/pricing"
)

// LoginResult is returned to a caller after a successful login. The session
// id is the only credential the caller holds from then on.
type LoginResult struct {
	SessionID  string    `json:"session_id"`
	CustomerID int64     `json:"customer_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// SessionInfo describes a live session without exposing its upstream token.
type SessionInfo struct {
	CustomerID int64     `json:"customer_id"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// PriceReport is the outcome of a pricing fan-out. Every requested product
// id appears in exactly one of the two maps.
type PriceReport struct {
	CustomerID int64             `json:"customer_id"`
	Prices     map[int64]float64 `json:"prices"`
	Failures   map[int64]string  `json:"failures,omitempty"`
}

// Gateway is the full caller-facing operation surface. Both the REST
// handlers and the MCP tools are thin shells over this interface.
type Gateway interface {
	// Login authenticates a customer and opens a session.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// AssertSession validates a session id and extends its expiry.
	AssertSession(ctx context.Context, sessionID string) (*SessionInfo, error)

	// Logout destroys a session. Idempotent.
	Logout(ctx context.Context, sessionID string) error

	// Prices fetches customer-specific final prices for a product batch.
	Prices(ctx context.Context, sessionID string, productIDs []int64, opts pricing.Options) (*PriceReport, error)

	// ListOrders lists the caller's orders, optionally filtered by a
	// natural-language date expression.
	ListOrders(ctx context.Context, sessionID, whenText string) ([]model.OrderSummary, error)

	// GetOrder returns one order with per-line fulfillment state.
	GetOrder(ctx context.Context, sessionID, orderNumber string) (*model.OrderDetails, error)

	// CreateReturn runs the return creation workflow for one order line.
	CreateReturn(ctx context.Context, sessionID, orderNumber string, in fulfillment.ReturnInput) (*fulfillment.CreatedReturn, error)

	// AddToCart puts a product in the caller's cart or wishlist.
	AddToCart(ctx context.Context, sessionID string, productID int64, quantity int, cartType model.CartType) (model.Cart, error)

	// UpdateCartItem changes one cart line's quantity; zero removes it.
	UpdateCartItem(ctx context.Context, sessionID string, itemID int64, quantity int) (model.Cart, error)

	// GetCart returns the caller's cart or wishlist.
	GetCart(ctx context.Context, sessionID string, cartType model.CartType) (model.Cart, error)

	// SyncWishlist copies missing cart products into the wishlist.
	SyncWishlist(ctx context.Context, sessionID string) (model.SyncResult, error)
}
