// Package reconcile provides the pure diff logic behind the gateway's cart
// and wishlist mutations. The store's cart update endpoint replaces the whole
// cart with whatever is submitted, and the wishlist add endpoint happily
// duplicates entries, so every mutation is computed here first: fetch current
// state, diff against intent, submit only what keeps the rest intact.
package reconcile

import (
	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
)

// WishlistSync describes what a cart-to-wishlist sync must do.
type WishlistSync struct {
	ToAdd          []int64 // Product ids in the cart but not the wishlist
	AlreadyPresent int     // Cart products the wishlist already has
}

// IsEmpty reports whether the wishlist already covers the cart.
func (s *WishlistSync) IsEmpty() bool {
	return len(s.ToAdd) == 0
}

// MissingProducts computes the set difference between the cart and the
// wishlist by product id. Order follows the cart, so repeated syncs produce
// stable payloads. Duplicate cart lines for one product collapse into a
// single add.
func MissingProducts(cart, wishlist []nopapi.CartItem) *WishlistSync {
	inWishlist := make(map[int64]bool, len(wishlist))
	for _, item := range wishlist {
		inWishlist[item.ProductID] = true
	}

	sync := &WishlistSync{}
	seen := make(map[int64]bool, len(cart))
	for _, item := range cart {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		if inWishlist[item.ProductID] {
			sync.AlreadyPresent++
			continue
		}
		sync.ToAdd = append(sync.ToAdd, item.ProductID)
	}
	return sync
}

// ReplacementLines builds the full-cart payload for a single-line quantity
// change. Every untouched line is carried over unchanged; quantity zero
// drops the target line. Returns a NOT_FOUND error when the target id is not
// in the cart.
func ReplacementLines(current []nopapi.CartItem, itemID int64, quantity int) ([]nopapi.CartUpdateLine, error) {
	if quantity < 0 {
		return nil, model.NewInvalidQuantityError("quantity must not be negative")
	}

	found := false
	lines := make([]nopapi.CartUpdateLine, 0, len(current))
	for _, item := range current {
		if item.ID == itemID {
			found = true
			if quantity == 0 {
				continue
			}
			lines = append(lines, nopapi.CartUpdateLine{ID: item.ID, Quantity: quantity})
			continue
		}
		lines = append(lines, nopapi.CartUpdateLine{ID: item.ID, Quantity: item.Quantity})
	}
	if !found {
		return nil, model.NewNotFoundError("cart item")
	}
	return lines, nil
}
