package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/geochrs/shophub-admin/internal/domain"
	"github.com/geochrs/shophub-admin/internal/repository"
	apperrors "github.com/geochrs/shophub-admin/pkg/errors"
	"github.com/geochrs/shophub-admin/pkg/pagination"
)

// OrderService implements order placement and listing. Line items snapshot
// the product title and unit price at order time.
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		logger:   logger,
	}
}

// OrderItemInput names a product and quantity to order.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// PlaceOrder creates a pending order for the given user. Every referenced
// product must exist; a missing product fails the whole order.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []OrderItemInput) (*domain.Order, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperrors.InvalidID(userID)
	}
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one item")
	}

	var (
		lines []domain.OrderItem
		total int64
	)

	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %d quantity must be positive", i))
		}

		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve order item %d: %w", i, err)
		}

		lines = append(lines, domain.OrderItem{
			ProductID:      product.ID,
			Title:          product.Title,
			UnitPriceCents: product.PriceCents,
			Quantity:       item.Quantity,
		})
		total += product.PriceCents * int64(item.Quantity)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:         uuid.New().String(),
		UserID:     userID,
		Items:      lines,
		TotalCents: total,
		Status:     domain.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int64("total_cents", total),
	)

	return order, nil
}

// GetOrder retrieves an order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidID(id)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	return order, nil
}

// ListOrders returns a page of orders, optionally restricted to one user or
// status, along with the total count.
func (s *OrderService) ListOrders(ctx context.Context, userID, status *string, params pagination.Params) ([]domain.Order, int, error) {
	if status != nil && !domain.IsValidOrderStatus(*status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", *status))
	}

	orders, total, err := s.orders.List(ctx, repository.OrderFilter{
		UserID:  userID,
		Status:  status,
		Page:    params.Page,
		PerPage: params.PerPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// UpdateOrderStatus moves an order to the given status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.InvalidID(id)
	}
	if !domain.IsValidOrderStatus(status) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", status))
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("status", status),
	)

	return nil
}
