package handler

import (
	"net/http"
	"strconv"

	"nop-gateway/internal/model"
)

type addToCartRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	CartType  string `json:"cart_type,omitempty"`
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		h.writeError(w, model.NewSessionNotFoundError())
		return
	}

	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	cartType, err := parseCartType(req.CartType)
	if err != nil {
		h.writeError(w, err)
		return
	}

	cart, err := h.gw.AddToCart(r.Context(), token, req.ProductID, req.Quantity, cartType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cart)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		h.writeError(w, model.NewSessionNotFoundError())
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, model.NewValidationError("id", "must be a numeric cart item id"))
		return
	}

	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	cart, err := h.gw.UpdateCartItem(r.Context(), token, itemID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	h.serveCart(w, r, model.CartTypeShoppingCart)
}

func (h *Handler) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	h.serveCart(w, r, model.CartTypeWishlist)
}

func (h *Handler) serveCart(w http.ResponseWriter, r *http.Request, cartType model.CartType) {
	token := sessionToken(r)
	if token == "" {
		h.writeError(w, model.NewSessionNotFoundError())
		return
	}

	cart, err := h.gw.GetCart(r.Context(), token, cartType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) handleSyncWishlist(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		h.writeError(w, model.NewSessionNotFoundError())
		return
	}

	result, err := h.gw.SyncWishlist(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// parseCartType maps the optional wire value to a cart type. Empty means the
// shopping cart.
func parseCartType(s string) (model.CartType, error) {
	switch s {
	case "", string(model.CartTypeShoppingCart):
		return model.CartTypeShoppingCart, nil
	case string(model.CartTypeWishlist):
		return model.CartTypeWishlist, nil
	default:
		return "", model.NewValidationError("cart_type", `must be "cart" or "wishlist"`)
	}
}
