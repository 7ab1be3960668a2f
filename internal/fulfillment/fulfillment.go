// Package fulfillment reconciles an order's shipment and return records into
// per-line fulfillment state. The store keeps orders, shipments, shipment
// contents, and RMAs in four separate endpoints across two API surfaces;
// this package is the only place that joins them.
package fulfillment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
)

type storeClient interface {
	CustomerOrders(ctx context.Context, frontendToken string) ([]nopapi.Order, error)
	OrderDetails(ctx context.Context, frontendToken string, orderID int64) (*nopapi.Order, error)
	BackendOrder(ctx context.Context, adminToken, orderNumber string) (*nopapi.Order, error)
	Shipments(ctx context.Context, adminToken string, orderID int64) ([]nopapi.Shipment, error)
	ShipmentItems(ctx context.Context, adminToken string, shipmentID int64) ([]nopapi.ShipmentItem, error)
	ReturnRequests(ctx context.Context, adminToken string, orderID int64) ([]nopapi.ReturnRequest, bool)
	CreateReturnRequest(ctx context.Context, adminToken string, req *nopapi.ReturnRequestCreate) (*nopapi.ReturnRequest, error)
	UpdateReturnRequest(ctx context.Context, adminToken string, id int64, req *nopapi.ReturnRequestUpdate) error
}

type adminTokenSource interface {
	AdminToken(ctx context.Context) (string, error)
}

// Reconciler builds caller-facing order views and drives the return
// workflow.
type Reconciler struct {
	client storeClient
	creds  adminTokenSource
}

func NewReconciler(client storeClient, creds adminTokenSource) *Reconciler {
	return &Reconciler{client: client, creds: creds}
}

// DeriveStatus computes a line's fulfillment status from ordered and shipped
// quantities. An over-shipment (corrected upstream data can produce one)
// counts as fully shipped, never as partial.
func DeriveStatus(ordered, shipped int, allDelivered bool) model.FulfillmentStatus {
	switch {
	case shipped == 0:
		return model.StatusUnshipped
	case shipped < ordered:
		return model.StatusPartiallyShipped
	case allDelivered:
		return model.StatusDelivered
	default:
		return model.StatusShipped
	}
}

// OrderByNumber resolves an order through the caller's frontend token. The
// token scopes the listing upstream, so a number belonging to another
// customer is indistinguishable from one that does not exist.
func (r *Reconciler) OrderByNumber(ctx context.Context, frontendToken, orderNumber string) (*nopapi.Order, error) {
	orders, err := r.client.CustomerOrders(ctx, frontendToken)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].CustomOrderNumber == orderNumber {
			return r.client.OrderDetails(ctx, frontendToken, orders[i].ID)
		}
	}
	return nil, model.NewNotFoundError("order")
}

// OrderView reconciles one order into its per-line fulfillment state.
// Shipment data is authoritative and any failure there fails the call; the
// RMA lookup degrades to an order view without return data.
func (r *Reconciler) OrderView(ctx context.Context, frontendToken, orderNumber string) (*model.OrderDetails, error) {
	order, err := r.OrderByNumber(ctx, frontendToken, orderNumber)
	if err != nil {
		return nil, err
	}

	adminToken, err := r.creds.AdminToken(ctx)
	if err != nil {
		return nil, err
	}

	shipments, err := r.client.Shipments(ctx, adminToken, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reconciling order %s: %w", orderNumber, err)
	}

	itemsByShipment, err := r.fetchShipmentItems(ctx, adminToken, shipments)
	if err != nil {
		return nil, fmt.Errorf("reconciling order %s: %w", orderNumber, err)
	}

	returns, ok := r.client.ReturnRequests(ctx, adminToken, order.ID)
	if !ok {
		slog.Warn("return lookup failed, serving order without RMA data",
			"order_number", orderNumber)
	}

	details := &model.OrderDetails{
		OrderSummary: nopapi.ToOrderSummary(order),
		Lines:        joinLines(order, shipments, itemsByShipment, returns),
		RMADegraded:  !ok,
	}
	return details, nil
}

// fetchShipmentItems loads every shipment's contents concurrently. Unlike
// pricing, these are not independent answers: a missing shipment manifest
// makes the whole join wrong, so the first failure cancels the rest.
func (r *Reconciler) fetchShipmentItems(ctx context.Context, adminToken string, shipments []nopapi.Shipment) (map[int64][]nopapi.ShipmentItem, error) {
	itemsByShipment := make(map[int64][]nopapi.ShipmentItem, len(shipments))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, sh := range shipments {
		sh := sh
		g.Go(func() error {
			items, err := r.client.ShipmentItems(ctx, adminToken, sh.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			itemsByShipment[sh.ID] = items
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return itemsByShipment, nil
}

// joinLines assembles the per-line view: shipped quantities and shipment
// details from the shipment join, return summaries matched by order line id.
func joinLines(order *nopapi.Order, shipments []nopapi.Shipment, itemsByShipment map[int64][]nopapi.ShipmentItem, returns []nopapi.ReturnRequest) []model.LineFulfillment {
	// Index shipment contents by order line.
	type lineShipment struct {
		shipment *nopapi.Shipment
		quantity int
	}
	byLine := make(map[int64][]lineShipment)
	for i := range shipments {
		sh := &shipments[i]
		for _, item := range itemsByShipment[sh.ID] {
			byLine[item.OrderItemID] = append(byLine[item.OrderItemID], lineShipment{shipment: sh, quantity: item.Quantity})
		}
	}

	returnsByLine := make(map[int64][]model.ReturnSummary)
	for i := range returns {
		ret := &returns[i]
		returnsByLine[ret.OrderItemID] = append(returnsByLine[ret.OrderItemID], nopapi.ToReturnSummary(ret))
	}

	lines := make([]model.LineFulfillment, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		line := model.LineFulfillment{
			OrderItemID: item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			OrderedQty:  item.Quantity,
			Returns:     returnsByLine[item.ID],
		}

		allDelivered := true
		for _, ls := range byLine[item.ID] {
			line.ShippedQty += ls.quantity
			line.Shipments = append(line.Shipments, model.ShipmentDetail{
				ShipmentID:     ls.shipment.ID,
				TrackingNumber: ls.shipment.TrackingNumber,
				Quantity:       ls.quantity,
				ShippedOn:      ls.shipment.ShippedDateUtc,
				DeliveredOn:    ls.shipment.DeliveryDateUtc,
			})
			if ls.shipment.DeliveryDateUtc == nil {
				allDelivered = false
			}
		}

		line.Status = DeriveStatus(line.OrderedQty, line.ShippedQty, allDelivered)
		lines = append(lines, line)
	}
	return lines
}

// shippedQuantity sums how many units of one order line have shipped.
func shippedQuantity(itemsByShipment map[int64][]nopapi.ShipmentItem, orderItemID int64) int {
	total := 0
	for _, items := range itemsByShipment {
		for _, item := range items {
			if item.OrderItemID == orderItemID {
				total += item.Quantity
			}
		}
	}
	return total
}
