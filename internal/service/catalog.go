package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/geochrs/shophub-admin/internal/cache"
	"github.com/geochrs/shophub-admin/internal/domain"
	"github.com/geochrs/shophub-admin/internal/event"
	"github.com/geochrs/shophub-admin/internal/repository"
	"github.com/geochrs/shophub-admin/internal/storage"
	apperrors "github.com/geochrs/shophub-admin/pkg/errors"
)

// ProductCache is the read cache used for single-product lookups. Cache
// failures never fail the operation.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	Set(ctx context.Context, p *domain.Product) error
	Invalidate(ctx context.Context, ids ...string) error
}

// CleanupFailure records one asset the store failed to destroy during a
// best-effort cleanup pass. Failures are returned alongside the primary
// result, never instead of it.
type CleanupFailure struct {
	RemoteID string
	Err      error
}

// CatalogService implements the business logic for catalog operations.
type CatalogService struct {
	repo     repository.ProductRepository
	assets   storage.AssetStore
	cache    ProductCache
	producer event.EventPublisher
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service. The cache may be nil, in
// which case all lookups go to the repository.
func NewCatalogService(
	repo repository.ProductRepository,
	assets storage.AssetStore,
	productCache ProductCache,
	producer event.EventPublisher,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		repo:     repo,
		assets:   assets,
		cache:    productCache,
		producer: producer,
		logger:   logger,
	}
}

// ImagePayload holds one uploaded image body to be stored as a product image.
type ImagePayload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Title       string
	Description string
	FullDetail  string
	PriceCents  int64
	Featured    bool
	Category    string
	Payloads    []ImagePayload
}

// UpdateProductInput holds the parameters for updating a product. Nil field
// pointers leave the current value untouched.
type UpdateProductInput struct {
	Title           *string
	Description     *string
	FullDetail      *string
	PriceCents      *int64
	Featured        *bool
	Category        *string
	Payloads        []ImagePayload
	RemoveRemoteIDs []string
}

// ListProducts returns products, optionally restricted to one category.
// A filter value outside the known categories yields an empty list.
func (s *CatalogService) ListProducts(ctx context.Context, category *string) ([]domain.Product, error) {
	if category != nil && !domain.IsValidCategory(*category) {
		return []domain.Product{}, nil
	}

	products, err := s.repo.List(ctx, repository.ProductFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// GetProduct retrieves a product by its ID. A malformed id is a distinct
// outcome from a well-formed id with no record behind it.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidID(id)
	}

	if p := s.cacheGet(ctx, id); p != nil {
		return p, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	s.cacheSet(ctx, p)

	return p, nil
}

// CreateProduct validates the fields, uploads every payload in order, and
// persists the new product with the resulting image list. Any upload failure
// aborts the whole create; nothing is persisted. Assets uploaded before the
// failing one are not destroyed and remain orphaned in the store.
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if err := validateFields(input.Title, input.PriceCents, input.Category); err != nil {
		return nil, err
	}
	if err := validatePayloads(input.Payloads); err != nil {
		return nil, err
	}

	id := uuid.New().String()

	images, err := s.uploadPayloads(ctx, id, input.Payloads)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		FullDetail:  input.FullDetail,
		PriceCents:  input.PriceCents,
		Featured:    input.Featured,
		Category:    input.Category,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product record: %w", err)
	}

	s.publish(ctx, func() error { return s.producer.PublishProductCreated(ctx, product) },
		"product.created", product.ID)

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("category", product.Category),
		slog.Int("images", len(product.Images)),
	)

	return product, nil
}

// UpdateProduct applies field changes, uploads new payloads, and removes the
// named images. Field changes are persisted before the image set is resolved.
// Removed images are dropped from the persisted list whether or not the store
// managed to destroy them; each destroy failure is returned as a diagnostic.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, []CleanupFailure, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, apperrors.InvalidID(id)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get product for update: %w", err)
	}

	applyPatch(product, input)

	if err := validateFields(product.Title, product.PriceCents, product.Category); err != nil {
		return nil, nil, err
	}
	if err := validatePayloads(input.Payloads); err != nil {
		return nil, nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, nil, fmt.Errorf("update product record: %w", err)
	}

	if len(input.Payloads) > 0 {
		uploaded, err := s.uploadPayloads(ctx, id, input.Payloads)
		if err != nil {
			return nil, nil, err
		}

		if err := product.AppendImages(uploaded); err != nil {
			return nil, nil, apperrors.InvalidInput(err.Error())
		}

		if err := s.repo.UpdateImages(ctx, id, product.Images); err != nil {
			return nil, nil, fmt.Errorf("persist appended images: %w", err)
		}
	}

	var failures []CleanupFailure
	if len(input.RemoveRemoteIDs) > 0 {
		failures = s.destroyAssets(ctx, input.RemoveRemoteIDs)

		product.RemoveImages(input.RemoveRemoteIDs)

		if err := s.repo.UpdateImages(ctx, id, product.Images); err != nil {
			return nil, failures, fmt.Errorf("persist trimmed images: %w", err)
		}
	}

	s.cacheInvalidate(ctx, id)

	s.publish(ctx, func() error { return s.producer.PublishProductUpdated(ctx, product) },
		"product.updated", product.ID)

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.Int("images", len(product.Images)),
		slog.Int("cleanup_failures", len(failures)),
	)

	return product, failures, nil
}

// DeleteProduct removes the product and destroys every attached image's
// remote asset. Destroy failures do not roll back the deletion; they are
// returned as diagnostics.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) ([]CleanupFailure, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidID(id)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for delete: %w", err)
	}

	// The record goes first: assets are only destroyed once the catalog no
	// longer references them, so a failed delete cannot leave a live product
	// pointing at destroyed assets.
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	failures := s.destroyProductAssets(ctx, product)

	s.cacheInvalidate(ctx, id)

	s.publish(ctx, func() error { return s.producer.PublishProductDeleted(ctx, id, product.Category) },
		"product.deleted", id)

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
		slog.Int("cleanup_failures", len(failures)),
	)

	return failures, nil
}

// PurgeCategory deletes every product in a category, destroying each attached
// asset, and returns the number of products removed plus any destroy
// diagnostics. The same cascade runs here as in single-product deletion.
func (s *CatalogService) PurgeCategory(ctx context.Context, category string) (int64, []CleanupFailure, error) {
	if !domain.IsValidCategory(category) {
		return 0, nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", category))
	}

	products, err := s.repo.List(ctx, repository.ProductFilter{Category: &category})
	if err != nil {
		return 0, nil, fmt.Errorf("list products for purge: %w", err)
	}

	ids := make([]string, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}

	// Delete exactly the listed rows, then cascade. Deleting by id rather
	// than by category keeps a product created after the listing from being
	// removed without its assets cascaded, and the record-before-assets
	// order matches single-product deletion.
	deleted, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, nil, fmt.Errorf("purge category: %w", err)
	}

	var failures []CleanupFailure
	for i := range products {
		failures = append(failures, s.destroyProductAssets(ctx, &products[i])...)
	}

	s.cacheInvalidate(ctx, ids...)

	s.publish(ctx, func() error { return s.producer.PublishCategoryPurged(ctx, category, deleted) },
		"category.purged", category)

	s.logger.InfoContext(ctx, "category purged",
		slog.String("category", category),
		slog.Int64("deleted", deleted),
		slog.Int("cleanup_failures", len(failures)),
	)

	return deleted, failures, nil
}

// uploadPayloads uploads every payload sequentially, preserving payload order
// in the returned image list. The first failure aborts the loop.
func (s *CatalogService) uploadPayloads(ctx context.Context, productID string, payloads []ImagePayload) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(payloads))

	for i := range payloads {
		key := fmt.Sprintf("products/%s/%s", productID, uuid.New().String())

		asset, err := s.assets.Upload(ctx, &storage.UploadInput{
			Key:         key,
			ContentType: payloads[i].ContentType,
			Size:        payloads[i].Size,
			Data:        payloads[i].Data,
		})
		if err != nil {
			return nil, apperrors.UploadFailed(fmt.Errorf("upload payload %d: %w", i, err))
		}

		images = append(images, domain.Image{RemoteID: asset.RemoteID, URL: asset.URL})
	}

	return images, nil
}

// destroyProductAssets destroys every image attached to the product.
func (s *CatalogService) destroyProductAssets(ctx context.Context, product *domain.Product) []CleanupFailure {
	remoteIDs := make([]string, len(product.Images))
	for i, img := range product.Images {
		remoteIDs[i] = img.RemoteID
	}
	return s.destroyAssets(ctx, remoteIDs)
}

// destroyAssets runs best-effort destroys. Per-call failures are logged and
// collected; the loop never aborts.
func (s *CatalogService) destroyAssets(ctx context.Context, remoteIDs []string) []CleanupFailure {
	var failures []CleanupFailure

	for _, remoteID := range remoteIDs {
		if err := s.assets.Destroy(ctx, remoteID); err != nil {
			s.logger.ErrorContext(ctx, "failed to destroy asset",
				slog.String("remote_id", remoteID),
				slog.String("error", err.Error()),
			)
			failures = append(failures, CleanupFailure{RemoteID: remoteID, Err: err})
		}
	}

	return failures
}

func (s *CatalogService) cacheGet(ctx context.Context, id string) *domain.Product {
	if s.cache == nil {
		return nil
	}

	p, err := s.cache.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	return p
}

func (s *CatalogService) cacheSet(ctx context.Context, p *domain.Product) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "product cache write failed",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CatalogService) cacheInvalidate(ctx context.Context, ids ...string) {
	if s.cache == nil || len(ids) == 0 {
		return
	}

	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}

// publish sends a domain event; errors are logged but do not fail the operation.
func (s *CatalogService) publish(ctx context.Context, fn func() error, name, key string) {
	if s.producer == nil {
		return
	}

	if err := fn(); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("event", name),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// validateFields checks the product invariants shared by create and update.
func validateFields(title string, priceCents int64, category string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.InvalidInput("title is required")
	}
	if priceCents < 0 {
		return apperrors.InvalidInput("price must not be negative")
	}
	if !domain.IsValidCategory(category) {
		return apperrors.InvalidInput(fmt.Sprintf("category must be one of %s", strings.Join(domain.ValidCategories(), ", ")))
	}
	return nil
}

// validatePayloads checks that every payload is a non-empty image body.
func validatePayloads(payloads []ImagePayload) error {
	for i := range payloads {
		if payloads[i].Size <= 0 {
			return apperrors.InvalidInput(fmt.Sprintf("image payload %d is empty", i))
		}
		if !strings.HasPrefix(payloads[i].ContentType, "image/") {
			return apperrors.InvalidInput(fmt.Sprintf("content type %q is not an image", payloads[i].ContentType))
		}
	}
	return nil
}

func applyPatch(p *domain.Product, input *UpdateProductInput) {
	if input.Title != nil {
		p.Title = *input.Title
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.FullDetail != nil {
		p.FullDetail = *input.FullDetail
	}
	if input.PriceCents != nil {
		p.PriceCents = *input.PriceCents
	}
	if input.Featured != nil {
		p.Featured = *input.Featured
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
}
