package nopapi

import (
	"testing"
	"time"

	"nop-gateway/internal/model"
)

func TestReturnStatusName(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{0, "pending"},
		{10, "open"},
		{20, "return_authorized"},
		{40, "items_refunded"},
		{60, "cancelled"},
		{75, "status_75"},
		{-1, "status_-1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ReturnStatusName(tt.id); got != tt.want {
				t.Errorf("ReturnStatusName(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestToOrderSummary(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	o := &Order{
		ID:                42,
		CustomOrderNumber: "ORD-042",
		OrderStatus:       "Processing",
		OrderTotal:        "129.9900",
		CreatedOnUtc:      created,
	}

	got := ToOrderSummary(o)
	want := model.OrderSummary{
		OrderID:     42,
		OrderNumber: "ORD-042",
		Status:      "Processing",
		CreatedOn:   created,
		OrderTotal:  129.99,
	}
	if got != want {
		t.Errorf("ToOrderSummary() = %+v, want %+v", got, want)
	}
}

func TestToCart(t *testing.T) {
	tests := []struct {
		name          string
		items         []CartItem
		wantLines     int
		wantTotal     int
		wantSubtotal  float64
		wantLineTotal float64
	}{
		{
			name:      "empty cart",
			items:     nil,
			wantLines: 0,
		},
		{
			name: "subtotal from upstream line totals",
			items: []CartItem{
				{ID: 1, ProductID: 7, Quantity: 2, UnitPrice: "10.0000", SubTotal: "20.0000"},
				{ID: 2, ProductID: 8, Quantity: 1, UnitPrice: "5.5000", SubTotal: "5.5000"},
			},
			wantLines:     2,
			wantTotal:     3,
			wantSubtotal:  25.50,
			wantLineTotal: 20,
		},
		{
			name: "missing line total computed from unit price",
			items: []CartItem{
				{ID: 3, ProductID: 9, Quantity: 3, UnitPrice: "4.2500"},
			},
			wantLines:     1,
			wantTotal:     3,
			wantSubtotal:  12.75,
			wantLineTotal: 12.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := ToCart(tt.items)
			if len(cart.Items) != tt.wantLines {
				t.Fatalf("len(Items) = %d, want %d", len(cart.Items), tt.wantLines)
			}
			if cart.TotalItems != tt.wantTotal {
				t.Errorf("TotalItems = %d, want %d", cart.TotalItems, tt.wantTotal)
			}
			if cart.Subtotal != tt.wantSubtotal {
				t.Errorf("Subtotal = %v, want %v", cart.Subtotal, tt.wantSubtotal)
			}
			if tt.wantLines > 0 && cart.Items[0].LineTotal != tt.wantLineTotal {
				t.Errorf("Items[0].LineTotal = %v, want %v", cart.Items[0].LineTotal, tt.wantLineTotal)
			}
		})
	}
}

func TestToReturnSummary(t *testing.T) {
	created := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	r := &ReturnRequest{
		ID:               17,
		OrderItemID:      301,
		Quantity:         2,
		ReturnedQuantity: 1,
		ReasonForReturn:  "Defective",
		RequestedAction:  "Refund",
		StatusID:         ReturnStatusOpen,
		CreatedOnUtc:     created,
	}

	got := ToReturnSummary(r)
	if got.Status != "open" {
		t.Errorf("Status = %q, want %q", got.Status, "open")
	}
	if got.OrderItemID != 301 || got.Quantity != 2 || got.ReturnedQty != 1 {
		t.Errorf("unexpected mapping: %+v", got)
	}
}
