package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/athenareborn/pokemyheart-store/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderHandler handles admin order management requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// ListOrders handles GET /api/admin/orders?limit=N
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > service.MaxOrderLimit {
			WriteError(w, http.StatusBadRequest, "limit must be an integer between 1 and 100", h.log)
			return
		}
		limit = n
	}

	orders, err := h.orderService.ListOrders(r.Context(), limit)
	if err != nil {
		h.log.Error("failed to list orders", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// GetOrder handles GET /api/admin/orders/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, orderID, err)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// UpdateOrder handles PATCH /api/admin/orders/{orderId}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req models.UpdateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode order update", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.writeServiceError(w, orderID, err)
		return
	}

	h.log.Info("order updated", "order_id", order.ID, "status", order.Status)
	WriteJSON(w, http.StatusOK, order, h.log)
}

func (h *OrderHandler) writeServiceError(w http.ResponseWriter, orderID string, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "Order not found", h.log)
	case errors.Is(err, service.ErrInvalidStatus):
		WriteError(w, http.StatusBadRequest, "Unknown order status", h.log)
	case errors.Is(err, service.ErrInvalidTransition):
		WriteError(w, http.StatusConflict, err.Error(), h.log)
	default:
		h.log.Error("order request failed", "order_id", orderID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}
