// Package model defines the caller-facing contract of the gateway: the
// normalized order, cart, and fulfillment shapes returned to the assistant,
// and the error taxonomy shared by all components.
package model

import "time"

// FulfillmentStatus is the derived per-order-line state computed from
// shipment line-item quantities and delivery timestamps.
type FulfillmentStatus string

const (
	StatusUnshipped        FulfillmentStatus = "unshipped"
	StatusPartiallyShipped FulfillmentStatus = "partially_shipped"
	StatusShipped          FulfillmentStatus = "shipped"
	StatusDelivered        FulfillmentStatus = "delivered"
)

// CartType distinguishes the shopping cart from the wishlist. nopCommerce
// models both as shopping cart types (1 = cart, 2 = wishlist).
type CartType string

const (
	CartTypeShoppingCart CartType = "cart"
	CartTypeWishlist     CartType = "wishlist"
)

// UpstreamID returns the nopCommerce shopping cart type id.
func (t CartType) UpstreamID() int {
	if t == CartTypeWishlist {
		return 2
	}
	return 1
}

// OrderSummary is the normalized order listing entry.
type OrderSummary struct {
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	CreatedOn   time.Time `json:"created_on"`
	OrderTotal  float64   `json:"order_total"`
}

// OrderDetails is the normalized order with per-line fulfillment and returns.
// RMADegraded is true when return data could not be fetched and the Returns
// lists are empty as a fallback rather than authoritative.
type OrderDetails struct {
	OrderSummary
	Lines       []LineFulfillment `json:"lines"`
	RMADegraded bool              `json:"rma_degraded,omitempty"`
}

// LineFulfillment is the per-order-line fulfillment view: ordered vs shipped
// quantity, the derived status, and the shipment and return detail behind it.
type LineFulfillment struct {
	OrderItemID int64             `json:"order_item_id"`
	ProductID   int64             `json:"product_id"`
	ProductName string            `json:"product_name"`
	OrderedQty  int               `json:"ordered_quantity"`
	ShippedQty  int               `json:"shipped_quantity"`
	Status      FulfillmentStatus `json:"status"`
	Shipments   []ShipmentDetail  `json:"shipments"`
	Returns     []ReturnSummary   `json:"returns"`
}

// ShipmentDetail is one shipment's contribution to an order line.
type ShipmentDetail struct {
	ShipmentID     int64      `json:"shipment_id"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	Quantity       int        `json:"quantity"`
	ShippedOn      *time.Time `json:"shipped_on,omitempty"`
	DeliveredOn    *time.Time `json:"delivered_on,omitempty"`
}

// ReturnSummary is a normalized return-merchandise-authorization record.
type ReturnSummary struct {
	ID          int64     `json:"id"`
	OrderItemID int64     `json:"order_item_id"`
	Quantity    int       `json:"quantity"`
	ReturnedQty int       `json:"returned_quantity"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	Action      string    `json:"action,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
}

// Cart is the normalized shopping cart (or wishlist) state.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   float64    `json:"subtotal"`
}

// CartItem is one cart or wishlist line.
type CartItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// SyncResult reports the outcome of a wishlist sync. Degraded is true when a
// wishlist-side failure was swallowed and the sync reported zero additions
// instead of failing the caller's request.
type SyncResult struct {
	Added          int  `json:"added"`
	AlreadyPresent int  `json:"already_present"`
	Degraded       bool `json:"degraded,omitempty"`
}
