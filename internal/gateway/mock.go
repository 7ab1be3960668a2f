package gateway

import (
	"context"

	"nop-gateway/internal/fulfillment"
	"nop-gateway/internal/model"
	"nop-gateway/internal/pricing"
)

// Mock implements Gateway for handler tests. Each method can be configured
// via function fields; unconfigured methods fail with an internal error.
type Mock struct {
	LoginFunc          func(ctx context.Context, email, password string) (*LoginResult, error)
	AssertSessionFunc  func(ctx context.Context, sessionID string) (*SessionInfo, error)
	LogoutFunc         func(ctx context.Context, sessionID string) error
	PricesFunc         func(ctx context.Context, sessionID string, productIDs []int64, opts pricing.Options) (*PriceReport, error)
	ListOrdersFunc     func(ctx context.Context, sessionID, whenText string) ([]model.OrderSummary, error)
	GetOrderFunc       func(ctx context.Context, sessionID, orderNumber string) (*model.OrderDetails, error)
	CreateReturnFunc   func(ctx context.Context, sessionID, orderNumber string, in fulfillment.ReturnInput) (*fulfillment.CreatedReturn, error)
	AddToCartFunc      func(ctx context.Context, sessionID string, productID int64, quantity int, cartType model.CartType) (model.Cart, error)
	UpdateCartItemFunc func(ctx context.Context, sessionID string, itemID int64, quantity int) (model.Cart, error)
	GetCartFunc        func(ctx context.Context, sessionID string, cartType model.CartType) (model.Cart, error)
	SyncWishlistFunc   func(ctx context.Context, sessionID string) (model.SyncResult, error)
}

func (m *Mock) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) AssertSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	if m.AssertSessionFunc != nil {
		return m.AssertSessionFunc(ctx, sessionID)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *Mock) Prices(ctx context.Context, sessionID string, productIDs []int64, opts pricing.Options) (*PriceReport, error) {
	if m.PricesFunc != nil {
		return m.PricesFunc(ctx, sessionID, productIDs, opts)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) ListOrders(ctx context.Context, sessionID, whenText string) ([]model.OrderSummary, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, sessionID, whenText)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) GetOrder(ctx context.Context, sessionID, orderNumber string) (*model.OrderDetails, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, sessionID, orderNumber)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) CreateReturn(ctx context.Context, sessionID, orderNumber string, in fulfillment.ReturnInput) (*fulfillment.CreatedReturn, error) {
	if m.CreateReturnFunc != nil {
		return m.CreateReturnFunc(ctx, sessionID, orderNumber, in)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) AddToCart(ctx context.Context, sessionID string, productID int64, quantity int, cartType model.CartType) (model.Cart, error) {
	if m.AddToCartFunc != nil {
		return m.AddToCartFunc(ctx, sessionID, productID, quantity, cartType)
	}
	return model.Cart{}, model.NewInternalError(nil)
}

func (m *Mock) UpdateCartItem(ctx context.Context, sessionID string, itemID int64, quantity int) (model.Cart, error) {
	if m.UpdateCartItemFunc != nil {
		return m.UpdateCartItemFunc(ctx, sessionID, itemID, quantity)
	}
	return model.Cart{}, model.NewInternalError(nil)
}

func (m *Mock) GetCart(ctx context.Context, sessionID string, cartType model.CartType) (model.Cart, error) {
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx, sessionID, cartType)
	}
	return model.Cart{}, model.NewInternalError(nil)
}

func (m *Mock) SyncWishlist(ctx context.Context, sessionID string) (model.SyncResult, error) {
	if m.SyncWishlistFunc != nil {
		return m.SyncWishlistFunc(ctx, sessionID)
	}
	return model.SyncResult{}, model.NewInternalError(nil)
}
