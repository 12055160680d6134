package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sandyadmin/internal/httputil"
	"sandyadmin/internal/model"
	"sandyadmin/internal/orders"
	"sandyadmin/internal/session"
)

// OrdersHandler exposes the dashboard's order operations.
type OrdersHandler struct {
	orders  *orders.Service
	session *session.Store
}

func NewOrdersHandler(ordersService *orders.Service, sessionStore *session.Store) *OrdersHandler {
	return &OrdersHandler{orders: ordersService, session: sessionStore}
}

// List returns the order list. ?refresh=1 (the tap-navigation cache-bust
// param, any non-empty value) forces a refetch.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.session.Current().Authenticated() {
		httputil.WriteUnauthorized(w, "Not signed in")
		return
	}

	refresh := r.URL.Query().Get("refresh") != ""
	list, err := h.orders.List(r.Context(), refresh)
	if err != nil {
		httputil.WriteUpstreamError(w, "Failed to load orders")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    list,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order to the requested status. Only the next forward
// step is accepted.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !h.session.Current().Authenticated() {
		httputil.WriteUnauthorized(w, "Not signed in")
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	updated, err := h.orders.UpdateStatus(r.Context(), orderID, req.Status)
	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		httputil.WriteNotFound(w, "Order not found")
	case errors.Is(err, model.ErrInvalidTransition):
		httputil.WriteConflict(w, err.Error())
	case err != nil:
		httputil.WriteUpstreamError(w, "Failed to update order status")
	default:
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    updated,
		})
	}
}
