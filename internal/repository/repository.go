package repository

import (
	"context"

	"github.com/geochrs/shophub-admin/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	Category *string
	Featured *bool
	Search   *string
}

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product with its image set.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the given filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// Update modifies a product's scalar fields, leaving the image set as given.
	Update(ctx context.Context, product *domain.Product) error

	// UpdateImages replaces the product's entire image list.
	UpdateImages(ctx context.Context, id string, images []domain.Image) error

	// Delete removes a product by its identifier.
	Delete(ctx context.Context, id string) error

	// DeleteByIDs removes the products with the given identifiers and
	// returns the number of rows deleted.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user account.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all user accounts, newest first.
	List(ctx context.Context) ([]domain.User, error)

	// UpdateRole changes a user's role.
	UpdateRole(ctx context.Context, id, role string) error
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order with its line items.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the given filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes an order's status.
	UpdateStatus(ctx context.Context, id, status string) error
}
