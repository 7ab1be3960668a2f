// MCP transport for the gateway using the official MCP Go SDK. Exposes the
// same operations as the REST surface as tools an assistant can call.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"nop-gateway/internal/fulfillment"
	"nop-gateway/internal/gateway"
	"nop-gateway/internal/model"
	"nop-gateway/internal/pricing"
)

// === Tool Input Types ===
// Every tool except login carries the caller's session token explicitly:
// MCP calls have no header channel to smuggle it through.

type LoginInput struct {
	Email    string `json:"email" jsonschema:"customer email,required"`
	Password string `json:"password" jsonschema:"customer password,required"`
}

type GetPricesInput struct {
	SessionToken     string  `json:"session_token" jsonschema:"session token from login,required"`
	ProductIDs       []int64 `json:"product_ids" jsonschema:"product ids to price (1-20),required"`
	Quantity         int     `json:"quantity,omitempty" jsonschema:"quantity per product, default 1"`
	IncludeDiscounts bool    `json:"include_discounts,omitempty" jsonschema:"apply customer discounts"`
	AdditionalCharge float64 `json:"additional_charge,omitempty" jsonschema:"additional charge per unit"`
}

type ListOrdersInput struct {
	SessionToken string `json:"session_token" jsonschema:"session token from login,required"`
	When         string `json:"when,omitempty" jsonschema:"natural-language date filter, e.g. 'last month'"`
}

type GetOrderInput struct {
	SessionToken string `json:"session_token" jsonschema:"session token from login,required"`
	OrderNumber  string `json:"order_number" jsonschema:"order display number,required"`
}

type CreateReturnInput struct {
	SessionToken string `json:"session_token" jsonschema:"session token from login,required"`
	OrderNumber  string `json:"order_number" jsonschema:"order display number,required"`
	OrderLineID  int64  `json:"order_line_id" jsonschema:"order line id from the order view,required"`
	Quantity     int    `json:"quantity" jsonschema:"units to return,required"`
	Reason       string `json:"reason" jsonschema:"reason for the return"`
	Action       string `json:"action" jsonschema:"requested action, e.g. Refund"`
	Comments     string `json:"comments,omitempty" jsonschema:"free-form customer comments"`
}

type AddToCartInput struct {
	SessionToken string `json:"session_token" jsonschema:"session token from login,required"`
	ProductID    int64  `json:"product_id" jsonschema:"product id to add,required"`
	Quantity     int    `json:"quantity" jsonschema:"quantity to add,required"`
	CartType     string `json:"cart_type,omitempty" jsonschema:"cart or wishlist, default cart"`
}

type UpdateCartItemInput struct {
	SessionToken string `json:"session_token" jsonschema:"session token from login,required"`
	CartItemID   int64  `json:"cart_item_id" jsonschema:"cart line id,required"`
	Quantity     int    `json:"quantity" jsonschema:"new quantity, 0 removes the line,required"`
}

type SessionOnlyInput struct {
	SessionToken string `json:"session_token" jsonschema:"session token from login,required"`
}

// ListOrdersOutput wraps the order list so the tool result is an object.
type ListOrdersOutput struct {
	Orders []model.OrderSummary `json:"orders"`
}

// NewMCPServer creates an MCP server with the gateway tools registered.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nop-gateway",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Storefront gateway for a nopCommerce shop. Log in first; " +
				"every other tool needs the session token the login tool returns.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "login",
		Description: "Authenticate a customer and open a session. Returns the session token the other tools require.",
	}, h.mcpLogin)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_prices",
		Description: "Get customer-specific final prices for up to 20 products. Products that fail to price are reported separately.",
	}, h.mcpGetPrices)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_orders",
		Description: "List the customer's orders, optionally filtered by a date expression like 'last month' or 'yesterday'.",
	}, h.mcpListOrders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_order",
		Description: "Get one order with per-line fulfillment status, shipments, tracking numbers, and return history.",
	}, h.mcpGetOrder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_return",
		Description: "Request a return (RMA) for part of an order line. Quantity must not exceed what has shipped.",
	}, h.mcpCreateReturn)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add a product to the customer's cart or wishlist and return the updated contents.",
	}, h.mcpAddToCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_cart_item",
		Description: "Change one cart line's quantity. Quantity 0 removes the line; other lines are untouched.",
	}, h.mcpUpdateCartItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_cart",
		Description: "Get the customer's current shopping cart with line totals.",
	}, h.mcpGetCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_wishlist",
		Description: "Get the customer's current wishlist.",
	}, h.mcpGetWishlist)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_wishlist",
		Description: "Copy cart products the wishlist is missing into the wishlist. Best effort; reports added and already-present counts.",
	}, h.mcpSyncWishlist)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpLogin(ctx context.Context, req *mcp.CallToolRequest, input LoginInput) (*mcp.CallToolResult, *gateway.LoginResult, error) {
	result, err := h.gw.Login(ctx, input.Email, input.Password)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, result, nil
}

func (h *Handler) mcpGetPrices(ctx context.Context, req *mcp.CallToolRequest, input GetPricesInput) (*mcp.CallToolResult, *gateway.PriceReport, error) {
	report, err := h.gw.Prices(ctx, input.SessionToken, input.ProductIDs, pricing.Options{
		Quantity:         input.Quantity,
		IncludeDiscounts: input.IncludeDiscounts,
		AdditionalCharge: input.AdditionalCharge,
	})
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, report, nil
}

func (h *Handler) mcpListOrders(ctx context.Context, req *mcp.CallToolRequest, input ListOrdersInput) (*mcp.CallToolResult, *ListOrdersOutput, error) {
	orders, err := h.gw.ListOrders(ctx, input.SessionToken, input.When)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, &ListOrdersOutput{Orders: orders}, nil
}

func (h *Handler) mcpGetOrder(ctx context.Context, req *mcp.CallToolRequest, input GetOrderInput) (*mcp.CallToolResult, *model.OrderDetails, error) {
	details, err := h.gw.GetOrder(ctx, input.SessionToken, input.OrderNumber)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, details, nil
}

func (h *Handler) mcpCreateReturn(ctx context.Context, req *mcp.CallToolRequest, input CreateReturnInput) (*mcp.CallToolResult, *fulfillment.CreatedReturn, error) {
	created, err := h.gw.CreateReturn(ctx, input.SessionToken, input.OrderNumber, fulfillment.ReturnInput{
		OrderItemID: input.OrderLineID,
		Quantity:    input.Quantity,
		Reason:      input.Reason,
		Action:      input.Action,
		Comments:    input.Comments,
	})
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, created, nil
}

func (h *Handler) mcpAddToCart(ctx context.Context, req *mcp.CallToolRequest, input AddToCartInput) (*mcp.CallToolResult, *model.Cart, error) {
	cartType, err := parseCartType(input.CartType)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}

	cart, err := h.gw.AddToCart(ctx, input.SessionToken, input.ProductID, input.Quantity, cartType)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, &cart, nil
}

func (h *Handler) mcpUpdateCartItem(ctx context.Context, req *mcp.CallToolRequest, input UpdateCartItemInput) (*mcp.CallToolResult, *model.Cart, error) {
	cart, err := h.gw.UpdateCartItem(ctx, input.SessionToken, input.CartItemID, input.Quantity)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, &cart, nil
}

func (h *Handler) mcpGetCart(ctx context.Context, req *mcp.CallToolRequest, input SessionOnlyInput) (*mcp.CallToolResult, *model.Cart, error) {
	cart, err := h.gw.GetCart(ctx, input.SessionToken, model.CartTypeShoppingCart)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, &cart, nil
}

func (h *Handler) mcpGetWishlist(ctx context.Context, req *mcp.CallToolRequest, input SessionOnlyInput) (*mcp.CallToolResult, *model.Cart, error) {
	cart, err := h.gw.GetCart(ctx, input.SessionToken, model.CartTypeWishlist)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, &cart, nil
}

func (h *Handler) mcpSyncWishlist(ctx context.Context, req *mcp.CallToolRequest, input SessionOnlyInput) (*mcp.CallToolResult, *model.SyncResult, error) {
	result, err := h.gw.SyncWishlist(ctx, input.SessionToken)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, &result, nil
}

// mcpError flattens an APIError into a tool error string without leaking
// internals.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
