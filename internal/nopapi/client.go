package nopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nop-gateway/internal/config"
	"nop-gateway/internal/model"
	"nop-gateway/internal/transport"
)

const (
	serviceName = "nopCommerce"
	userAgent   = "nop-gateway/1.0"
)

// Client is the HTTP client for a nopCommerce store's frontend and backend
// API surfaces. It is credential-agnostic: every call takes the token to
// present, so the same client serves the shared admin credential and any
// number of per-customer frontend tokens.
type Client struct {
	httpClient *http.Client
	baseURL    string
	paths      config.PathConfig
}

// Config carries the store endpoint settings for NewClient.
type Config struct {
	BaseURL string
	Paths   config.PathConfig
	Timeout time.Duration
}

// NewClient creates a nopCommerce API client. Every request runs under the
// configured timeout; a call without a deadline is not permitted.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport.NewChromeTransport(timeout),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		paths:   cfg.Paths,
	}
}

// === Authentication ===

// AdminToken authenticates the shared service account against the backend
// token endpoint. The response must carry a token; a 200 without one is an
// auth failure, not a success with defaults.
func (c *Client) AdminToken(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := &tokenRequest{IsGuest: true, Email: email, Username: email, Password: password}

	var resp TokenResponse
	if err := c.post(ctx, c.paths.BackendToken, nil, body, "", &resp); err != nil {
		return nil, fmt.Errorf("backend token: %w", err)
	}
	if resp.Token == "" {
		return nil, model.NewUpstreamAuthError("backend token response carried no token")
	}
	return &resp, nil
}

// CustomerToken authenticates a customer against the frontend token endpoint.
// Both the token and the customer id must be present for the login to count.
func (c *Client) CustomerToken(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := &tokenRequest{IsGuest: false, Email: email, Username: email, Password: password}

	var resp TokenResponse
	if err := c.post(ctx, c.paths.FrontendToken, nil, body, "", &resp); err != nil {
		return nil, fmt.Errorf("frontend token: %w", err)
	}
	if resp.Token == "" || resp.CustomerID == 0 {
		return nil, model.NewUpstreamAuthError("frontend token response incomplete")
	}
	return &resp, nil
}

// === Pricing ===

// PriceQuery holds the optional parameters of a price lookup.
type PriceQuery struct {
	Quantity         int
	IncludeDiscounts bool
	AdditionalCharge float64
}

// FinalPrice fetches the customer-specific final price of one product via the
// backend price calculation endpoint.
func (c *Client) FinalPrice(ctx context.Context, adminToken string, productID, customerID int64, q PriceQuery) (float64, error) {
	path := expand(c.paths.Price, map[string]string{
		"productId":  strconv.FormatInt(productID, 10),
		"customerId": strconv.FormatInt(customerID, 10),
	})
	query := url.Values{
		"quantity":         {strconv.Itoa(q.Quantity)},
		"includeDiscounts": {strconv.FormatBool(q.IncludeDiscounts)},
		"additionalCharge": {strconv.FormatFloat(q.AdditionalCharge, 'f', -1, 64)},
	}

	var resp priceResponse
	if err := c.get(ctx, path, query, adminToken, &resp); err != nil {
		return 0, fmt.Errorf("final price for product %d: %w", productID, err)
	}
	return resp.FinalPrice, nil
}

// === Orders ===

// CustomerOrders lists the orders of the customer owning the frontend token.
// Scoping is enforced upstream: the token decides whose orders come back.
func (c *Client) CustomerOrders(ctx context.Context, frontendToken string) ([]Order, error) {
	var resp orderListResponse
	if err := c.get(ctx, c.paths.CustomerOrders, nil, frontendToken, &resp); err != nil {
		return nil, fmt.Errorf("customer orders: %w", err)
	}
	return resp.Orders, nil
}

// OrderDetails fetches one order, with its lines, through the frontend
// surface. The store rejects ids outside the token's customer scope.
func (c *Client) OrderDetails(ctx context.Context, frontendToken string, orderID int64) (*Order, error) {
	path := expand(c.paths.OrderDetails, map[string]string{
		"orderId": strconv.FormatInt(orderID, 10),
	})

	var resp Order
	if err := c.get(ctx, path, nil, frontendToken, &resp); err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, err)
	}
	return &resp, nil
}

// BackendOrder fetches an order by its display number through the backend
// surface, yielding the backend-scoped customer id the RMA endpoints need.
func (c *Client) BackendOrder(ctx context.Context, adminToken, orderNumber string) (*Order, error) {
	path := expand(c.paths.BackendOrder, map[string]string{
		"orderNumber": url.PathEscape(orderNumber),
	})

	var resp Order
	if err := c.get(ctx, path, nil, adminToken, &resp); err != nil {
		return nil, fmt.Errorf("backend order %s: %w", orderNumber, err)
	}
	return &resp, nil
}

// === Shipments ===

// Shipments lists the shipments recorded for an order.
func (c *Client) Shipments(ctx context.Context, adminToken string, orderID int64) ([]Shipment, error) {
	path := expand(c.paths.Shipments, map[string]string{
		"orderId": strconv.FormatInt(orderID, 10),
	})

	var resp shipmentListResponse
	if err := c.get(ctx, path, nil, adminToken, &resp); err != nil {
		return nil, fmt.Errorf("shipments for order %d: %w", orderID, err)
	}
	return resp.Shipments, nil
}

// ShipmentItems lists the per-line contents of one shipment.
func (c *Client) ShipmentItems(ctx context.Context, adminToken string, shipmentID int64) ([]ShipmentItem, error) {
	path := expand(c.paths.ShipmentItems, map[string]string{
		"shipmentId": strconv.FormatInt(shipmentID, 10),
	})

	var resp shipmentItemListResponse
	if err := c.get(ctx, path, nil, adminToken, &resp); err != nil {
		return nil, fmt.Errorf("items for shipment %d: %w", shipmentID, err)
	}
	return resp.ShipmentItems, nil
}

// === Return requests ===

// ReturnRequests lists the RMAs recorded for an order. Failures here degrade
// rather than fail the caller: ok is false and the order view is served
// without return data. An empty body is a store with no RMA history, not an
// error.
func (c *Client) ReturnRequests(ctx context.Context, adminToken string, orderID int64) ([]ReturnRequest, bool) {
	path := expand(c.paths.ReturnSearch, map[string]string{
		"orderId": strconv.FormatInt(orderID, 10),
	})

	var resp returnRequestListResponse
	if err := c.get(ctx, path, nil, adminToken, &resp); err != nil {
		return nil, false
	}
	return resp.ReturnRequests, true
}

// CreateReturnRequest creates an RMA in Pending state and returns the stored
// record with its assigned id.
func (c *Client) CreateReturnRequest(ctx context.Context, adminToken string, req *ReturnRequestCreate) (*ReturnRequest, error) {
	var resp ReturnRequest
	if err := c.post(ctx, c.paths.ReturnCreate, nil, req, adminToken, &resp); err != nil {
		return nil, fmt.Errorf("create return request: %w", err)
	}
	if resp.ID == 0 {
		return nil, model.NewUpstreamError(serviceName, fmt.Errorf("return request created without id"))
	}
	return &resp, nil
}

// UpdateReturnRequest finalizes a created RMA: assigns its display number and
// advances the status.
func (c *Client) UpdateReturnRequest(ctx context.Context, adminToken string, id int64, req *ReturnRequestUpdate) error {
	path := expand(c.paths.ReturnUpdate, map[string]string{
		"returnRequestId": strconv.FormatInt(id, 10),
	})
	if err := c.put(ctx, path, req, adminToken, nil); err != nil {
		return fmt.Errorf("finalize return request %d: %w", id, err)
	}
	return nil
}

// === Cart and wishlist ===

// Cart fetches the current cart or wishlist of the token's customer.
func (c *Client) Cart(ctx context.Context, frontendToken string, cartType model.CartType) ([]CartItem, error) {
	path := expand(c.paths.Cart, map[string]string{
		"cartTypeId": strconv.Itoa(cartType.UpstreamID()),
	})

	var resp cartResponse
	if err := c.get(ctx, path, nil, frontendToken, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", cartType, err)
	}
	return resp.Items, nil
}

// AddToCart adds a product to the cart or wishlist and returns the updated
// item list.
func (c *Client) AddToCart(ctx context.Context, frontendToken string, productID int64, cartType model.CartType, quantity int) ([]CartItem, error) {
	path := expand(c.paths.CartAdd, map[string]string{
		"productId":  strconv.FormatInt(productID, 10),
		"cartTypeId": strconv.Itoa(cartType.UpstreamID()),
	})
	body := &addToCartRequest{Quantity: quantity}

	var resp cartResponse
	if err := c.post(ctx, path, nil, body, frontendToken, &resp); err != nil {
		return nil, fmt.Errorf("add product %d to %s: %w", productID, cartType, err)
	}
	return resp.Items, nil
}

// UpdateCart replaces the cart's contents with the submitted lines. Lines
// omitted from the payload are removed upstream, so callers must send the
// full desired state.
func (c *Client) UpdateCart(ctx context.Context, frontendToken string, lines []CartUpdateLine) error {
	body := &cartUpdateRequest{Items: lines}
	if err := c.post(ctx, c.paths.CartUpdate, nil, body, frontendToken, nil); err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

// AddProductsToWishlist adds the given products to the wishlist.
func (c *Client) AddProductsToWishlist(ctx context.Context, frontendToken string, productIDs []int64) error {
	body := &wishlistAddRequest{ProductIDs: productIDs}
	if err := c.post(ctx, c.paths.WishlistAdd, nil, body, frontendToken, nil); err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

// === HTTP plumbing ===

func (c *Client) get(ctx context.Context, path string, query url.Values, token string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, token)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body interface{}, token string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, query, body, token)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) put(ctx context.Context, path string, body interface{}, token string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodPut, path, nil, body, token)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}, token string) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		// The store's auth plugin expects the raw token, no Bearer prefix.
		req.Header.Set("Authorization", token)
	}

	return req, nil
}

// do executes the request and decodes the response. A success response with
// an empty or non-JSON body decodes to the zero value: several store
// endpoints answer mutations with no payload.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.parseError(resp.StatusCode, req.URL.String(), body)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return nil
		}
	}

	return nil
}

// parseError converts an upstream error response to a model.APIError.
func (c *Client) parseError(statusCode int, requestURL string, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.NewUpstreamAuthError(fmt.Sprintf("store rejected credential (status %d)", statusCode))
	case http.StatusNotFound:
		return model.NewNotFoundError("resource")
	case http.StatusTooManyRequests:
		return model.NewRateLimitError(serviceName)
	default:
		return model.NewUpstreamHTTPError(serviceName, statusCode, requestURL, truncate(body, 2048))
	}
}

// expand substitutes {name} placeholders in a path template.
func expand(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func truncate(b []byte, max int) string {
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
