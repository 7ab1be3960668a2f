package handler

import (
	"net/http"

	"nop-gateway/internal/fulfillment"
	"nop-gateway/internal/model"
	"nop-gateway/internal/pricing"
)

type pricesRequest struct {
	ProductIDs       []int64 `json:"product_ids"`
	Quantity         int     `json:"quantity,omitempty"`
	IncludeDiscounts bool    `json:"include_discounts,omitempty"`
	AdditionalCharge float64 `json:"additional_charge,omitempty"`
}

func (h *Handler) handlePrices(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		h.writeError(w, model.NewSessionNotFoundError())
		return
	}

	var req pricesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	report, err := h.gw.Prices(r.Context(), token, req.ProductIDs, pricing.Options{
		Quantity:         req.Quantity,
		IncludeDiscounts: req.IncludeDiscounts,
		AdditionalCharge: req.AdditionalCharge,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		h.writeError(w, model.NewSessionNotFoundError())
		return
	}

	orders, err := h.gw.ListOrders(r.Context(), token, r.URL.Query().Get("when"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		h.writeError(w, model.NewSessionNotFoundError())
		return
	}

	details, err := h.gw.GetOrder(r.Context(), token, r.PathValue("number"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, details)
}

type createReturnRequest struct {
	OrderLineID int64  `json:"order_line_id"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	Action      string `json:"action"`
	Comments    string `json:"comments,omitempty"`
}

func (h *Handler) handleCreateReturn(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		h.writeError(w, model.NewSessionNotFoundError())
		return
	}

	var req createReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.gw.CreateReturn(r.Context(), token, r.PathValue("number"), fulfillment.ReturnInput{
		OrderItemID: req.OrderLineID,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		Action:      req.Action,
		Comments:    req.Comments,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}
