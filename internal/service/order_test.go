package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geochrs/shophub-admin/internal/domain"
	"github.com/geochrs/shophub-admin/internal/repository"
	apperrors "github.com/geochrs/shophub-admin/pkg/errors"
	"github.com/geochrs/shophub-admin/pkg/pagination"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func newOrderService(orders *mockOrderRepository, products *mockProductRepository) *OrderService {
	return NewOrderService(orders, products, newTestLogger())
}

func TestPlaceOrder_SnapshotsTitleAndPrice(t *testing.T) {
	orders := new(mockOrderRepository)
	products := new(mockProductRepository)
	svc := newOrderService(orders, products)

	products.On("GetByID", mock.Anything, validID).
		Return(&domain.Product{ID: validID, Title: "Phone X", PriceCents: 99999, Category: domain.CategorySmartphones}, nil)

	var created *domain.Order
	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Order)
		})

	order, err := svc.PlaceOrder(context.Background(), absentID, []OrderItemInput{
		{ProductID: validID, Quantity: 2},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Phone X", order.Items[0].Title)
	assert.Equal(t, int64(99999), order.Items[0].UnitPriceCents)
	assert.Equal(t, int64(199998), order.TotalCents)
}

func TestPlaceOrder_MissingProductFailsWholeOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	products := new(mockProductRepository)
	svc := newOrderService(orders, products)

	products.On("GetByID", mock.Anything, validID).
		Return(nil, apperrors.NotFound("product", validID))

	_, err := svc.PlaceOrder(context.Background(), absentID, []OrderItemInput{
		{ProductID: validID, Quantity: 1},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlaceOrder_EmptyOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	products := new(mockProductRepository)
	svc := newOrderService(orders, products)

	_, err := svc.PlaceOrder(context.Background(), absentID, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPlaceOrder_NonPositiveQuantity(t *testing.T) {
	orders := new(mockOrderRepository)
	products := new(mockProductRepository)
	svc := newOrderService(orders, products)

	_, err := svc.PlaceOrder(context.Background(), absentID, []OrderItemInput{
		{ProductID: validID, Quantity: 0},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListOrders_UnknownStatus(t *testing.T) {
	orders := new(mockOrderRepository)
	products := new(mockProductRepository)
	svc := newOrderService(orders, products)

	_, _, err := svc.ListOrders(context.Background(), nil, strPtr("teleported"), pagination.DefaultParams())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	orders.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListOrders_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	products := new(mockProductRepository)
	svc := newOrderService(orders, products)

	userID := absentID
	orders.On("List", mock.Anything, mock.AnythingOfType("repository.OrderFilter")).
		Return([]domain.Order{{ID: validID, UserID: userID}}, 1, nil)

	result, total, err := svc.ListOrders(context.Background(), &userID, nil, pagination.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, result, 1)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	orders := new(mockOrderRepository)
	products := new(mockProductRepository)
	svc := newOrderService(orders, products)

	err := svc.UpdateOrderStatus(context.Background(), validID, "lost")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	products := new(mockProductRepository)
	svc := newOrderService(orders, products)

	orders.On("UpdateStatus", mock.Anything, validID, domain.OrderStatusShipped).Return(nil)

	err := svc.UpdateOrderStatus(context.Background(), validID, domain.OrderStatusShipped)
	assert.NoError(t, err)
	orders.AssertExpectations(t)
}
