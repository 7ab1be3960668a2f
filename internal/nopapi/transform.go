package nopapi

import (
	"fmt"

	"nop-gateway/internal/model"
)

// Transforms from upstream nopCommerce shapes to the gateway's caller-facing
// model. No network access here; everything is a pure mapping.

// ToOrderSummary maps one upstream order to the caller-facing summary.
func ToOrderSummary(o *Order) model.OrderSummary {
	return model.OrderSummary{
		OrderID:     o.ID,
		OrderNumber: o.CustomOrderNumber,
		Status:      o.OrderStatus,
		CreatedOn:   o.CreatedOnUtc,
		OrderTotal:  model.RoundAmount(model.ParseAmount(o.OrderTotal)),
	}
}

// ToOrderSummaries maps a list of upstream orders, preserving upstream order.
func ToOrderSummaries(orders []Order) []model.OrderSummary {
	out := make([]model.OrderSummary, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderSummary(&orders[i]))
	}
	return out
}

// ToCart maps upstream cart items to the caller-facing cart with computed
// totals. TotalItems counts units, not lines.
func ToCart(items []CartItem) model.Cart {
	cart := model.Cart{Items: make([]model.CartItem, 0, len(items))}
	var subtotal float64
	for _, it := range items {
		unit := model.ParseAmount(it.UnitPrice)
		line := model.ParseAmount(it.SubTotal)
		if line == 0 {
			line = unit * float64(it.Quantity)
		}
		cart.Items = append(cart.Items, model.CartItem{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   model.RoundAmount(unit),
			LineTotal:   model.RoundAmount(line),
		})
		cart.TotalItems += it.Quantity
		subtotal += line
	}
	cart.Subtotal = model.RoundAmount(subtotal)
	return cart
}

// ToReturnSummary maps one upstream RMA record.
func ToReturnSummary(r *ReturnRequest) model.ReturnSummary {
	return model.ReturnSummary{
		ID:          r.ID,
		OrderItemID: r.OrderItemID,
		Quantity:    r.Quantity,
		ReturnedQty: r.ReturnedQuantity,
		Status:      ReturnStatusName(r.StatusID),
		Reason:      r.ReasonForReturn,
		Action:      r.RequestedAction,
		CreatedOn:   r.CreatedOnUtc,
	}
}

// ReturnStatusName renders the upstream status id for callers. Unknown ids
// pass through numerically rather than failing the whole order view.
func ReturnStatusName(id int) string {
	switch id {
	case ReturnStatusPending:
		return "pending"
	case ReturnStatusOpen:
		return "open"
	case 20:
		return "return_authorized"
	case 30:
		return "items_repaired"
	case 40:
		return "items_refunded"
	case 50:
		return "request_rejected"
	case 60:
		return "cancelled"
	default:
		return fmt.Sprintf("status_%d", id)
	}
}
