package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/geochrs/shophub-admin/internal/domain"
	"github.com/geochrs/shophub-admin/internal/repository"
	"github.com/geochrs/shophub-admin/pkg/database"
	apperrors "github.com/geochrs/shophub-admin/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
// The image set is stored as a jsonb column on the product row and is always
// written as a whole list.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product with its image set.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	imagesJSON, err := marshalImages(p.Images)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, title, description, full_detail, price_cents, featured, category, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.FullDetail,
		p.PriceCents,
		p.Featured,
		p.Category,
		imagesJSON,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "id", p.ID)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, title, description, full_detail, price_cents, featured, category, images, created_at, updated_at
		FROM products
		WHERE id = $1`

	var (
		p          domain.Product
		imagesJSON []byte
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.FullDetail,
		&p.PriceCents,
		&p.Featured,
		&p.Category,
		&imagesJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if p.Images, err = unmarshalImages(imagesJSON); err != nil {
		return nil, err
	}

	return &p, nil
}

// List returns products matching the given filter, newest first.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("featured = $%d", argIndex))
		args = append(args, *filter.Featured)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, full_detail, price_cents, featured, category, images, created_at, updated_at
		FROM products
		%s
		ORDER BY created_at DESC`,
		whereClause,
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product

	for rows.Next() {
		var (
			p          domain.Product
			imagesJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.FullDetail,
			&p.PriceCents,
			&p.Featured,
			&p.Category,
			&imagesJSON,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		if p.Images, err = unmarshalImages(imagesJSON); err != nil {
			return nil, err
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// Update modifies a product's scalar fields and image set.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	imagesJSON, err := marshalImages(p.Images)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET title = $1, description = $2, full_detail = $3, price_cents = $4,
		    featured = $5, category = $6, images = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		p.Title,
		p.Description,
		p.FullDetail,
		p.PriceCents,
		p.Featured,
		p.Category,
		imagesJSON,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// UpdateImages replaces the product's entire image list.
func (r *ProductRepository) UpdateImages(ctx context.Context, id string, images []domain.Image) error {
	imagesJSON, err := marshalImages(images)
	if err != nil {
		return err
	}

	query := `UPDATE products SET images = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, imagesJSON, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update product images: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// DeleteByIDs removes the products with the given identifiers.
func (r *ProductRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM products WHERE id = ANY($1)`

	ct, err := r.db.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete products by ids: %w", err)
	}

	return ct.RowsAffected(), nil
}

func marshalImages(images []domain.Image) ([]byte, error) {
	if images == nil {
		images = []domain.Image{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("marshal images: %w", err)
	}
	return b, nil
}

func unmarshalImages(data []byte) ([]domain.Image, error) {
	images := []domain.Image{}
	if len(data) == 0 {
		return images, nil
	}
	if err := json.Unmarshal(data, &images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	return images, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
