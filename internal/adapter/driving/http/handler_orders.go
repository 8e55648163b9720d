package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/bookstore/internal/application"
	"github.com/ericfisherdev/bookstore/internal/domain/model"
)

// ListOrders returns the caller's orders, or every order for admins.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), principal(r))
	if err != nil {
		h.writeServiceError(w, err, "failed to list orders")
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateOrder places an order for the caller.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lines := make([]application.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, application.OrderLine{BookID: item.BookID, Quantity: item.Quantity})
	}

	order, err := h.orders.Create(r.Context(), principal(r), lines)
	if err != nil {
		h.writeServiceError(w, err, "failed to create order")
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// GetOrder returns one order owned by the caller, or any order for admins.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Get(r.Context(), principal(r), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to get order", "order_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// UpdateOrder changes the status of an order.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), principal(r), id, model.OrderStatus(req.Status))
	if err != nil {
		h.writeServiceError(w, err, "failed to update order", "order_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// DeleteOrder removes an order owned by the caller, or any order for admins.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.orders.Delete(r.Context(), principal(r), id); err != nil {
		h.writeServiceError(w, err, "failed to delete order", "order_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
