package fulfillment

import (
	"context"
	"strconv"

	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
)

// ReturnInput is the caller's request to return part of an order line.
type ReturnInput struct {
	OrderItemID int64
	Quantity    int
	Reason      string
	Action      string
	Comments    string
}

// CreatedReturn reports the outcome of a successful return creation.
type CreatedReturn struct {
	ID           int64  `json:"id"`
	ReturnNumber string `json:"return_number"`
	Status       string `json:"status"`
	OrderItemID  int64  `json:"order_item_id"`
	Quantity     int    `json:"quantity"`
}

// CreateReturn runs the two-step RMA workflow. All validation happens before
// the first mutation; once the Pending record exists its id becomes the
// display number via the finalize update. A finalize failure leaves a
// Pending RMA upstream, which is reported rather than hidden: the error
// carries the created id so support can complete or cancel it.
func (r *Reconciler) CreateReturn(ctx context.Context, frontendToken, orderNumber string, in ReturnInput) (*CreatedReturn, error) {
	order, err := r.OrderByNumber(ctx, frontendToken, orderNumber)
	if err != nil {
		return nil, err
	}

	line, ok := findLine(order, in.OrderItemID)
	if !ok {
		return nil, model.NewNotFoundError("order line")
	}
	if in.Quantity < 1 {
		return nil, model.NewInvalidQuantityError("quantity must be at least 1")
	}
	if in.Quantity > line.Quantity {
		return nil, model.NewInvalidQuantityError(
			"quantity exceeds ordered quantity of " + strconv.Itoa(line.Quantity))
	}

	adminToken, err := r.creds.AdminToken(ctx)
	if err != nil {
		return nil, err
	}

	// The RMA endpoints key on the backend-scoped customer id, which the
	// frontend order record does not carry.
	backendOrder, err := r.client.BackendOrder(ctx, adminToken, orderNumber)
	if err != nil {
		return nil, err
	}

	shipments, err := r.client.Shipments(ctx, adminToken, order.ID)
	if err != nil {
		return nil, err
	}
	itemsByShipment, err := r.fetchShipmentItems(ctx, adminToken, shipments)
	if err != nil {
		return nil, err
	}
	shipped := shippedQuantity(itemsByShipment, in.OrderItemID)
	if in.Quantity > shipped {
		return nil, model.NewExceedsShippedError(in.Quantity, shipped)
	}

	created, err := r.client.CreateReturnRequest(ctx, adminToken, &nopapi.ReturnRequestCreate{
		OrderID:          order.ID,
		OrderItemID:      in.OrderItemID,
		CustomerID:       backendOrder.CustomerID,
		Quantity:         in.Quantity,
		ReasonForReturn:  in.Reason,
		RequestedAction:  in.Action,
		CustomerComments: in.Comments,
		StatusID:         nopapi.ReturnStatusPending,
	})
	if err != nil {
		return nil, err
	}

	number := strconv.FormatInt(created.ID, 10)
	err = r.client.UpdateReturnRequest(ctx, adminToken, created.ID, &nopapi.ReturnRequestUpdate{
		CustomNumber: number,
		StatusID:     nopapi.ReturnStatusOpen,
	})
	if err != nil {
		return nil, model.NewReturnPendingFinalizeError(created.ID, err)
	}

	return &CreatedReturn{
		ID:           created.ID,
		ReturnNumber: number,
		Status:       nopapi.ReturnStatusName(nopapi.ReturnStatusOpen),
		OrderItemID:  in.OrderItemID,
		Quantity:     in.Quantity,
	}, nil
}

func findLine(order *nopapi.Order, orderItemID int64) (*nopapi.OrderItem, bool) {
	for i := range order.OrderItems {
		if order.OrderItems[i].ID == orderItemID {
			return &order.OrderItems[i], true
		}
	}
	return nil, false
}
