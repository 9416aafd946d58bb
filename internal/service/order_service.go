package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/athenareborn/pokemyheart-store/internal/checkout"
	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/athenareborn/pokemyheart-store/internal/store"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrDuplicateOrder    = errors.New("order already recorded for this checkout session")
	ErrPaymentIncomplete = errors.New("checkout session is not paid")
	ErrInvalidMetadata   = errors.New("checkout session metadata is invalid")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

const (
	DefaultOrderLimit = 20
	MaxOrderLimit     = 100
)

// OrderStore interface for order data access
type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, limit int) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id string, fn func(*models.Order) error) (*models.Order, error)
}

// OrderService records paid checkouts and manages their fulfilment
type OrderService struct {
	orders OrderStore
	stock  StockStore
	log    *slog.Logger
	now    func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(orders OrderStore, stock StockStore, log *slog.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		stock:  stock,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RecordCompletedCheckout creates the order for a paid checkout session and
// takes its bundles out of stock. Each session is recorded at most once.
func (s *OrderService) RecordCompletedCheckout(ctx context.Context, c *models.CompletedCheckout) (*models.Order, error) {
	if !c.Paid {
		return nil, ErrPaymentIncomplete
	}

	items, err := checkout.ParseBundleQuantities(c.Metadata[checkout.MetaBundleQuantities])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	now := s.now()
	order := &models.Order{
		ID:           generateOrderID(),
		SessionID:    c.SessionID,
		Email:        c.Email,
		Name:         c.Name,
		Items:        items,
		Subtotal:     c.Subtotal,
		ShippingCost: c.ShippingCost,
		Total:        c.Total,
		Currency:     c.Currency,
		Status:       models.OrderStatusPaid,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateOrder
		}
		return nil, err
	}

	var stockIssues []string
	for _, bundleID := range slices.Sorted(maps.Keys(items)) {
		qty := items[bundleID]
		left, err := s.stock.DecrementStock(ctx, bundleID, qty)
		switch {
		case errors.Is(err, store.ErrNotFound):
			s.log.Warn("stock not tracked for bundle", "bundle_id", bundleID)
		case err != nil:
			s.log.Error("failed to decrement stock", "bundle_id", bundleID, "quantity", qty, "error", err)
			stockIssues = append(stockIssues, bundleID)
		default:
			s.log.Info("stock decremented", "bundle_id", bundleID, "quantity", qty, "available", left)
		}
	}

	// the order stands; flagged bundles are corrected from the admin API
	if len(stockIssues) > 0 {
		order.StockIssues = stockIssues
		if _, err := s.orders.UpdateOrder(ctx, order.ID, func(o *models.Order) error {
			o.StockIssues = stockIssues
			o.UpdatedAt = s.now()
			return nil
		}); err != nil {
			s.log.Error("failed to flag order stock issues", "order_id", order.ID, "bundle_ids", stockIssues, "error", err)
		}
	}

	return order, nil
}

// ListOrders returns the newest orders. limit is clamped to (0, MaxOrderLimit].
func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = DefaultOrderLimit
	}
	if limit > MaxOrderLimit {
		limit = MaxOrderLimit
	}
	return s.orders.ListOrders(ctx, limit)
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// UpdateStatus moves an order to status if the transition is allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.UpdateOrder(ctx, id, func(o *models.Order) error {
		if !o.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
		}
		o.Status = status
		o.UpdatedAt = s.now()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// generateOrderID generates a unique order ID using UUID
func generateOrderID() string {
	return uuid.New().String()
}
