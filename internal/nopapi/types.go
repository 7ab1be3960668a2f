package nopapi

import "time"

// Upstream JSON shapes for the nopCommerce api-frontend and api-backend
// surfaces. Convention used by the store: list endpoints wrap their payload
// in a named array field, single-resource endpoints return the bare object,
// money fields are decimal strings with four places.

// tokenRequest is the body for both token endpoints. The admin (service
// account) request sets is_guest true, matching the store's expectations for
// service authentication.
type tokenRequest struct {
	IsGuest  bool   `json:"is_guest"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the documented schema of both token endpoints.
// Anything that does not carry a usable token (and, for the frontend
// endpoint, a customer id) is rejected as an upstream auth failure.
// No speculative multi-shape parsing.
type TokenResponse struct {
	Token      string `json:"token"`
	ExpiresIn  int64  `json:"expires_in"`
	CustomerID int64  `json:"customer_id"`
}

// priceResponse carries the single numeric field extracted per price lookup.
type priceResponse struct {
	FinalPrice float64 `json:"final_price"`
}

// Order is the upstream order record. The frontend surface returns it scoped
// to the authenticated customer; the backend surface returns it with the
// backend-scoped customer id populated.
type Order struct {
	ID                int64       `json:"id"`
	CustomOrderNumber string      `json:"custom_order_number"`
	CustomerID        int64       `json:"customer_id"`
	OrderStatus       string      `json:"order_status"`
	OrderTotal        string      `json:"order_total"`
	CreatedOnUtc      time.Time   `json:"created_on_utc"`
	OrderItems        []OrderItem `json:"order_items"`
}

type OrderItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price_incl_tax"`
}

type orderListResponse struct {
	Orders []Order `json:"orders"`
}

// Shipment is a backend shipment record. Delivery timestamps are pointers:
// nil means the event has not happened.
type Shipment struct {
	ID              int64      `json:"id"`
	OrderID         int64      `json:"order_id"`
	TrackingNumber  string     `json:"tracking_number"`
	ShippedDateUtc  *time.Time `json:"shipped_date_utc"`
	DeliveryDateUtc *time.Time `json:"delivery_date_utc"`
}

type shipmentListResponse struct {
	Shipments []Shipment `json:"shipments"`
}

// ShipmentItem maps a shipment to an order line and the quantity it covers.
type ShipmentItem struct {
	ID          int64 `json:"id"`
	ShipmentID  int64 `json:"shipment_id"`
	OrderItemID int64 `json:"order_item_id"`
	Quantity    int   `json:"quantity"`
}

type shipmentItemListResponse struct {
	ShipmentItems []ShipmentItem `json:"shipment_items"`
}

// Return request status codes used by the gateway's two-step creation flow.
const (
	ReturnStatusPending = 0
	ReturnStatusOpen    = 10
)

// ReturnRequest is the backend RMA record.
type ReturnRequest struct {
	ID               int64     `json:"id"`
	CustomNumber     string    `json:"custom_number"`
	OrderID          int64     `json:"order_id"`
	OrderItemID      int64     `json:"order_item_id"`
	CustomerID       int64     `json:"customer_id"`
	Quantity         int       `json:"quantity"`
	ReturnedQuantity int       `json:"returned_quantity"`
	ReasonForReturn  string    `json:"reason_for_return"`
	RequestedAction  string    `json:"requested_action"`
	CustomerComments string    `json:"customer_comments"`
	StatusID         int       `json:"return_request_status_id"`
	CreatedOnUtc     time.Time `json:"created_on_utc"`
}

type returnRequestListResponse struct {
	ReturnRequests []ReturnRequest `json:"return_requests"`
}

// ReturnRequestCreate is the creation payload. Status starts at Pending; the
// display number is assigned by the follow-up update because the creation
// endpoint does not accept it.
type ReturnRequestCreate struct {
	OrderID          int64  `json:"order_id"`
	OrderItemID      int64  `json:"order_item_id"`
	CustomerID       int64  `json:"customer_id"`
	Quantity         int    `json:"quantity"`
	ReasonForReturn  string `json:"reason_for_return"`
	RequestedAction  string `json:"requested_action"`
	CustomerComments string `json:"customer_comments"`
	StatusID         int    `json:"return_request_status_id"`
}

// ReturnRequestUpdate advances a created return request to its final state.
type ReturnRequestUpdate struct {
	CustomNumber string `json:"custom_number"`
	StatusID     int    `json:"return_request_status_id"`
}

// CartItem is a frontend shopping cart (or wishlist) line.
type CartItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	SubTotal    string `json:"sub_total"`
}

type cartResponse struct {
	Items []CartItem `json:"shopping_cart_items"`
}

// CartUpdateLine is one line of the declarative cart update payload. The
// update endpoint replaces the whole cart with the submitted lines, so every
// existing line must be present.
type CartUpdateLine struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type cartUpdateRequest struct {
	Items []CartUpdateLine `json:"items"`
}

type addToCartRequest struct {
	Quantity int `json:"quantity"`
}

type wishlistAddRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}
