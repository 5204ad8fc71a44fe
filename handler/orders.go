package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stevemurr/simple-shop-server/auth"
	"github.com/stevemurr/simple-shop-server/shop"
	"github.com/stevemurr/simple-shop-server/store"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.GetCollection(store.Orders)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())
	orders, err := h.store.FindWhere(store.Orders, store.Record{"username": caller["username"]})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) ordersForUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if !auth.CanAccess(auth.UserFrom(r.Context()), username) {
		writeError(w, http.StatusForbidden, "Access denied: can only access your own orders")
		return
	}
	orders, err := h.store.FindWhere(store.Orders, store.Record{"username": username})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.FindOneWhere(store.Orders, store.Record{"id": chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	owner, _ := order["username"].(string)
	if !auth.CanAccess(auth.UserFrom(r.Context()), owner) {
		writeError(w, http.StatusForbidden, "Access denied: can only access your own orders")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type checkoutRequest struct {
	Items       []shop.ItemRequest `json:"items"`
	ShipAddress string             `json:"ship_address"`
}

func (h *Handler) checkoutOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	caller := auth.UserFrom(r.Context())
	username, _ := caller["username"].(string)

	order, payment, err := h.checkout.PlaceOrder(username, req.Items, req.ShipAddress)
	if err != nil {
		var invalidErr *shop.InvalidOrderError
		var stockErr *shop.InsufficientStockError
		var declinedErr *shop.PaymentDeclinedError
		switch {
		case errors.As(err, &invalidErr), errors.As(err, &stockErr):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &declinedErr):
			writeError(w, http.StatusPaymentRequired, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Checkout failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Order placed successfully",
		"order":   order,
		"payment": payment,
	})
}

type updateOrderRequest struct {
	ShipAddress *string        `json:"ship_address"`
	Items       []store.Record `json:"items"`
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	updates := store.Record{}
	if req.ShipAddress != nil {
		updates["ship_address"] = *req.ShipAddress
	}
	if req.Items != nil {
		updates["items"] = req.Items
	}

	order, err := h.store.UpdateByID(store.Orders, chi.URLParam(r, "id"), updates)
	if err != nil {
		storeError(w, err, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteByID(store.Orders, chi.URLParam(r, "id")); err != nil {
		storeError(w, err, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}
