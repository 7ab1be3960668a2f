// Package cart implements cart and wishlist operations on top of the
// store's declarative cart API.
package cart

import (
	"context"
	"log/slog"

	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
	"nop-gateway/internal/reconcile"
)

type cartClient interface {
	Cart(ctx context.Context, frontendToken string, cartType model.CartType) ([]nopapi.CartItem, error)
	AddToCart(ctx context.Context, frontendToken string, productID int64, cartType model.CartType, quantity int) ([]nopapi.CartItem, error)
	UpdateCart(ctx context.Context, frontendToken string, lines []nopapi.CartUpdateLine) error
	AddProductsToWishlist(ctx context.Context, frontendToken string, productIDs []int64) error
}

// Manager wraps the store's cart endpoints with the read-modify-write and
// diff logic their declarative semantics require.
type Manager struct {
	client cartClient
}

func NewManager(client cartClient) *Manager {
	return &Manager{client: client}
}

// Get fetches the caller's cart or wishlist.
func (m *Manager) Get(ctx context.Context, frontendToken string, cartType model.CartType) (model.Cart, error) {
	items, err := m.client.Cart(ctx, frontendToken, cartType)
	if err != nil {
		return model.Cart{}, err
	}
	return nopapi.ToCart(items), nil
}

// AddItem adds a product and returns the updated cart.
func (m *Manager) AddItem(ctx context.Context, frontendToken string, productID int64, quantity int, cartType model.CartType) (model.Cart, error) {
	if productID < 1 {
		return model.Cart{}, model.NewValidationError("product_id", "must be a positive id")
	}
	if quantity < 1 {
		return model.Cart{}, model.NewInvalidQuantityError("quantity must be at least 1")
	}

	items, err := m.client.AddToCart(ctx, frontendToken, productID, cartType, quantity)
	if err != nil {
		return model.Cart{}, err
	}
	return nopapi.ToCart(items), nil
}

// UpdateItem changes one line's quantity (zero removes it). The upstream
// update replaces the whole cart, so the current state is fetched first and
// resubmitted with only the target line changed.
func (m *Manager) UpdateItem(ctx context.Context, frontendToken string, itemID int64, quantity int) (model.Cart, error) {
	current, err := m.client.Cart(ctx, frontendToken, model.CartTypeShoppingCart)
	if err != nil {
		return model.Cart{}, err
	}

	lines, err := reconcile.ReplacementLines(current, itemID, quantity)
	if err != nil {
		return model.Cart{}, err
	}

	if err := m.client.UpdateCart(ctx, frontendToken, lines); err != nil {
		return model.Cart{}, err
	}
	return m.Get(ctx, frontendToken, model.CartTypeShoppingCart)
}

// SyncWishlistFromCart copies cart products the wishlist is missing into the
// wishlist with one bulk call. Wishlist-side failures never fail the caller:
// the sync is best-effort and reports Degraded instead. A cart read failure
// does propagate, since without the cart there is nothing to sync.
func (m *Manager) SyncWishlistFromCart(ctx context.Context, frontendToken string) (model.SyncResult, error) {
	cartItems, err := m.client.Cart(ctx, frontendToken, model.CartTypeShoppingCart)
	if err != nil {
		return model.SyncResult{}, err
	}
	if len(cartItems) == 0 {
		return model.SyncResult{}, nil
	}

	wishlistItems, err := m.client.Cart(ctx, frontendToken, model.CartTypeWishlist)
	if err != nil {
		slog.Warn("wishlist read failed, skipping sync", "error", err)
		return model.SyncResult{Degraded: true}, nil
	}

	sync := reconcile.MissingProducts(cartItems, wishlistItems)
	if sync.IsEmpty() {
		return model.SyncResult{AlreadyPresent: sync.AlreadyPresent}, nil
	}

	if err := m.client.AddProductsToWishlist(ctx, frontendToken, sync.ToAdd); err != nil {
		slog.Warn("wishlist add failed", "count", len(sync.ToAdd), "error", err)
		return model.SyncResult{AlreadyPresent: sync.AlreadyPresent, Degraded: true}, nil
	}

	return model.SyncResult{
		Added:          len(sync.ToAdd),
		AlreadyPresent: sync.AlreadyPresent,
	}, nil
}
