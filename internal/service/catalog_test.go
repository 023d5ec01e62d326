package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geochrs/shophub-admin/internal/domain"
	"github.com/geochrs/shophub-admin/internal/repository"
	"github.com/geochrs/shophub-admin/internal/storage"
	"github.com/geochrs/shophub-admin/internal/storage/memory"
	apperrors "github.com/geochrs/shophub-admin/pkg/errors"
)

const (
	validID   = "0b7c9d4e-2f4b-4a6e-9c7d-1a2b3c4d5e6f"
	absentID  = "9f8e7d6c-5b4a-4f3e-8d2c-1b0a99887766"
	invalidID = "not-a-valid-id-format"
)

// --- Mock Repository ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) UpdateImages(ctx context.Context, id string, images []domain.Image) error {
	args := m.Called(ctx, id, images)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock Asset Store ---

type mockAssetStore struct {
	mock.Mock
}

func (m *mockAssetStore) Upload(ctx context.Context, input *storage.UploadInput) (*storage.Asset, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Asset), args.Error(1)
}

func (m *mockAssetStore) Destroy(ctx context.Context, remoteID string) error {
	args := m.Called(ctx, remoteID)
	return args.Error(0)
}

// --- Fake Publisher ---

type fakePublisher struct {
	created []string
	updated []string
	deleted []string
	purged  []string
}

func (f *fakePublisher) PublishProductCreated(_ context.Context, p *domain.Product) error {
	f.created = append(f.created, p.ID)
	return nil
}

func (f *fakePublisher) PublishProductUpdated(_ context.Context, p *domain.Product) error {
	f.updated = append(f.updated, p.ID)
	return nil
}

func (f *fakePublisher) PublishProductDeleted(_ context.Context, id, _ string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePublisher) PublishCategoryPurged(_ context.Context, category string, _ int64) error {
	f.purged = append(f.purged, category)
	return nil
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(repo *mockProductRepository, store *mockAssetStore) (*CatalogService, *fakePublisher) {
	pub := &fakePublisher{}
	svc := NewCatalogService(repo, store, nil, pub, newTestLogger())
	return svc, pub
}

func payload(name string) ImagePayload {
	return ImagePayload{
		FileName:    name,
		ContentType: "image/jpeg",
		Size:        1024,
		Data:        strings.NewReader("fake image bytes"),
	}
}

func existingProduct() *domain.Product {
	return &domain.Product{
		ID:       validID,
		Title:    "Phone X",
		Category: domain.CategorySmartphones,
		Images: []domain.Image{
			{RemoteID: "products/img-a", URL: "https://cdn.example.com/shophub/products/img-a.jpg"},
			{RemoteID: "products/img-b", URL: "https://cdn.example.com/shophub/products/img-b.jpg"},
		},
	}
}

func strPtr(s string) *string { return &s }

// --- CreateProduct ---

func TestCreateProduct_AllValidCategories(t *testing.T) {
	for _, category := range domain.ValidCategories() {
		t.Run(category, func(t *testing.T) {
			repo := new(mockProductRepository)
			store := new(mockAssetStore)
			svc, pub := newTestService(repo, store)

			repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

			product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
				Title:      "Thing",
				PriceCents: 999,
				Category:   category,
			})
			require.NoError(t, err)
			assert.Equal(t, category, product.Category)
			assert.NotEmpty(t, product.ID)
			assert.Equal(t, []string{product.ID}, pub.created)
			repo.AssertExpectations(t)
		})
	}
}

func TestCreateProduct_UnknownCategoryNoStoreCalls(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Title:      "Thing",
		PriceCents: 999,
		Category:   "laptops",
		Payloads:   []ImagePayload{payload("a.jpg")},
	})
	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_MissingTitle(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Title:    "   ",
		Category: domain.CategoryGames,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Title:      "Thing",
		PriceCents: -1,
		Category:   domain.CategoryGames,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateProduct_NonImagePayloadRejected(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	p := payload("a.pdf")
	p.ContentType = "application/pdf"

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Title:      "Thing",
		PriceCents: 999,
		Category:   domain.CategoryGames,
		Payloads:   []ImagePayload{p},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestCreateProduct_ImagesKeepPayloadOrder(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	store.On("Upload", mock.Anything, mock.AnythingOfType("*storage.UploadInput")).
		Return(&storage.Asset{RemoteID: "products/up-1", URL: "https://cdn.example.com/products/up-1"}, nil).Once()
	store.On("Upload", mock.Anything, mock.AnythingOfType("*storage.UploadInput")).
		Return(&storage.Asset{RemoteID: "products/up-2", URL: "https://cdn.example.com/products/up-2"}, nil).Once()
	store.On("Upload", mock.Anything, mock.AnythingOfType("*storage.UploadInput")).
		Return(&storage.Asset{RemoteID: "products/up-3", URL: "https://cdn.example.com/products/up-3"}, nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Title:      "Thing",
		PriceCents: 999,
		Category:   domain.CategoryConsoles,
		Payloads:   []ImagePayload{payload("a.jpg"), payload("b.jpg"), payload("c.jpg")},
	})
	require.NoError(t, err)
	require.Len(t, product.Images, 3)

	// Append order matches payload order.
	assert.Equal(t, "products/up-1", product.Images[0].RemoteID)
	assert.Equal(t, "products/up-2", product.Images[1].RemoteID)
	assert.Equal(t, "products/up-3", product.Images[2].RemoteID)
	store.AssertExpectations(t)
}

func TestCreateProduct_UploadFailureAbortsWholeCreate(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, pub := newTestService(repo, store)

	store.On("Upload", mock.Anything, mock.AnythingOfType("*storage.UploadInput")).
		Return(&storage.Asset{RemoteID: "products/up-1", URL: "https://cdn.example.com/products/up-1"}, nil).Once()
	store.On("Upload", mock.Anything, mock.AnythingOfType("*storage.UploadInput")).
		Return(nil, errors.New("store down")).Once()

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Title:      "Thing",
		PriceCents: 999,
		Category:   domain.CategoryConsoles,
		Payloads:   []ImagePayload{payload("a.jpg"), payload("b.jpg"), payload("c.jpg")},
	})
	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrUploadFailed)

	// Nothing persisted, no upload attempted past the failing payload, and
	// the first upload is not rolled back.
	store.AssertNumberOfCalls(t, "Upload", 2)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
	assert.Empty(t, pub.created)
}

// --- GetProduct ---

func TestGetProduct_MalformedID(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	product, err := svc.GetProduct(context.Background(), invalidID)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)

	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetProduct_WellFormedButAbsent(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	repo.On("GetByID", mock.Anything, absentID).Return(nil, apperrors.NotFound("product", absentID))

	product, err := svc.GetProduct(context.Background(), absentID)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidID)
}

func TestGetProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	existing := existingProduct()
	repo.On("GetByID", mock.Anything, validID).Return(existing, nil)

	product, err := svc.GetProduct(context.Background(), validID)
	require.NoError(t, err)
	assert.Equal(t, "Phone X", product.Title)
}

// --- ListProducts ---

func TestListProducts_UnknownCategoryYieldsEmptyList(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	products, err := svc.ListProducts(context.Background(), strPtr("laptops"))
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListProducts_PassesFilter(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	category := domain.CategorySmartphones
	repo.On("List", mock.Anything, repository.ProductFilter{Category: &category}).
		Return([]domain.Product{*existingProduct()}, nil)

	products, err := svc.ListProducts(context.Background(), &category)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Phone X", products[0].Title)
	repo.AssertExpectations(t)
}

// --- UpdateProduct ---

func TestUpdateProduct_RemovalPersistsEvenWhenDestroyFails(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	existing := existingProduct()
	repo.On("GetByID", mock.Anything, validID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	store.On("Destroy", mock.Anything, "products/img-a").Return(errors.New("access denied"))

	var persisted []domain.Image
	repo.On("UpdateImages", mock.Anything, validID, mock.AnythingOfType("[]domain.Image")).
		Return(nil).
		Run(func(args mock.Arguments) {
			persisted = args.Get(2).([]domain.Image)
		})

	product, failures, err := svc.UpdateProduct(context.Background(), validID, &UpdateProductInput{
		RemoveRemoteIDs: []string{"products/img-a"},
	})
	require.NoError(t, err)

	// img-a is gone from the catalog regardless of the failed destroy, and
	// the failure surfaces as a diagnostic.
	require.Len(t, product.Images, 1)
	assert.Equal(t, "products/img-b", product.Images[0].RemoteID)
	require.Len(t, persisted, 1)
	assert.Equal(t, "products/img-b", persisted[0].RemoteID)

	require.Len(t, failures, 1)
	assert.Equal(t, "products/img-a", failures[0].RemoteID)
	assert.ErrorContains(t, failures[0].Err, "access denied")
}

func TestUpdateProduct_RemovalWithSuccessfulDestroy(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	existing := existingProduct()
	repo.On("GetByID", mock.Anything, validID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	repo.On("UpdateImages", mock.Anything, validID, mock.AnythingOfType("[]domain.Image")).Return(nil)
	store.On("Destroy", mock.Anything, "products/img-a").Return(nil)

	product, failures, err := svc.UpdateProduct(context.Background(), validID, &UpdateProductInput{
		RemoveRemoteIDs: []string{"products/img-a"},
	})
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, product.Images, 1)
	assert.Equal(t, "products/img-b", product.Images[0].RemoteID)
}

func TestUpdateProduct_FieldsPersistedBeforeImages(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	existing := existingProduct()
	repo.On("GetByID", mock.Anything, validID).Return(existing, nil)

	var titleAtFieldPersist string
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(nil).
		Run(func(args mock.Arguments) {
			titleAtFieldPersist = args.Get(1).(*domain.Product).Title
		})

	store.On("Upload", mock.Anything, mock.AnythingOfType("*storage.UploadInput")).
		Return(&storage.Asset{RemoteID: "products/img-new", URL: "https://cdn.example.com/shophub/products/img-new.jpg"}, nil)
	repo.On("UpdateImages", mock.Anything, validID, mock.AnythingOfType("[]domain.Image")).Return(nil)

	product, _, err := svc.UpdateProduct(context.Background(), validID, &UpdateProductInput{
		Title:    strPtr("Phone X Pro"),
		Payloads: []ImagePayload{payload("new.jpg")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Phone X Pro", titleAtFieldPersist)
	require.Len(t, product.Images, 3)
	assert.Equal(t, "products/img-new", product.Images[2].RemoteID)
}

func TestUpdateProduct_MalformedID(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	_, _, err := svc.UpdateProduct(context.Background(), invalidID, &UpdateProductInput{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	repo.On("GetByID", mock.Anything, absentID).Return(nil, apperrors.NotFound("product", absentID))

	_, _, err := svc.UpdateProduct(context.Background(), absentID, &UpdateProductInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateProduct_InvalidCategoryPatch(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	repo.On("GetByID", mock.Anything, validID).Return(existingProduct(), nil)

	_, _, err := svc.UpdateProduct(context.Background(), validID, &UpdateProductInput{
		Category: strPtr("laptops"),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- DeleteProduct ---

func TestDeleteProduct_DestroysEveryAttachedImage(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, pub := newTestService(repo, store)

	existing := existingProduct()
	repo.On("GetByID", mock.Anything, validID).Return(existing, nil)
	repo.On("Delete", mock.Anything, validID).Return(nil)
	store.On("Destroy", mock.Anything, "products/img-a").Return(nil).Once()
	store.On("Destroy", mock.Anything, "products/img-b").Return(nil).Once()

	failures, err := svc.DeleteProduct(context.Background(), validID)
	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Equal(t, []string{validID}, pub.deleted)
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestDeleteProduct_DestroyFailuresDoNotAbort(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	existing := existingProduct()
	repo.On("GetByID", mock.Anything, validID).Return(existing, nil)
	repo.On("Delete", mock.Anything, validID).Return(nil)
	store.On("Destroy", mock.Anything, "products/img-a").Return(errors.New("gone already"))
	store.On("Destroy", mock.Anything, "products/img-b").Return(nil)

	failures, err := svc.DeleteProduct(context.Background(), validID)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "products/img-a", failures[0].RemoteID)
	repo.AssertCalled(t, "Delete", mock.Anything, validID)
}

func TestDeleteProduct_RecordDeleteFailureLeavesAssetsAlone(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, pub := newTestService(repo, store)

	repo.On("GetByID", mock.Anything, validID).Return(existingProduct(), nil)
	repo.On("Delete", mock.Anything, validID).Return(apperrors.Internal(assert.AnError))

	_, err := svc.DeleteProduct(context.Background(), validID)
	require.Error(t, err)
	store.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
	assert.Empty(t, pub.deleted)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	repo.On("GetByID", mock.Anything, absentID).Return(nil, apperrors.NotFound("product", absentID))

	_, err := svc.DeleteProduct(context.Background(), absentID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	store.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
}

// --- PurgeCategory ---

func TestPurgeCategory_CascadesAcrossAllProducts(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, pub := newTestService(repo, store)

	first := *existingProduct()
	second := domain.Product{
		ID:       absentID,
		Title:    "Phone Y",
		Category: domain.CategorySmartphones,
		Images: []domain.Image{
			{RemoteID: "products/img-c", URL: "https://cdn.example.com/shophub/products/img-c.jpg"},
		},
	}

	category := domain.CategorySmartphones
	repo.On("List", mock.Anything, repository.ProductFilter{Category: &category}).
		Return([]domain.Product{first, second}, nil)
	repo.On("DeleteByIDs", mock.Anything, []string{first.ID, second.ID}).Return(int64(2), nil)

	store.On("Destroy", mock.Anything, "products/img-a").Return(nil).Once()
	store.On("Destroy", mock.Anything, "products/img-b").Return(nil).Once()
	store.On("Destroy", mock.Anything, "products/img-c").Return(nil).Once()

	deleted, failures, err := svc.PurgeCategory(context.Background(), category)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Empty(t, failures)
	assert.Equal(t, []string{category}, pub.purged)
	store.AssertExpectations(t)
}

func TestPurgeCategory_BulkDeleteFailureLeavesAssetsAlone(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	first := *existingProduct()
	category := domain.CategorySmartphones
	repo.On("List", mock.Anything, repository.ProductFilter{Category: &category}).
		Return([]domain.Product{first}, nil)
	repo.On("DeleteByIDs", mock.Anything, []string{first.ID}).
		Return(int64(0), apperrors.Internal(assert.AnError))

	_, _, err := svc.PurgeCategory(context.Background(), category)
	require.Error(t, err)
	store.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
}

func TestPurgeCategory_UnknownCategory(t *testing.T) {
	repo := new(mockProductRepository)
	store := new(mockAssetStore)
	svc, _ := newTestService(repo, store)

	_, _, err := svc.PurgeCategory(context.Background(), "laptops")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

// --- End to end against stateful fakes ---

// fakeRepo is a map-backed ProductRepository for lifecycle tests.
type fakeRepo struct {
	products map[string]*domain.Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]*domain.Product)}
}

func (f *fakeRepo) Create(_ context.Context, p *domain.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		out = append(out, *p)
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return apperrors.NotFound("product", p.ID)
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateImages(_ context.Context, id string, images []domain.Image) error {
	p, ok := f.products[id]
	if !ok {
		return apperrors.NotFound("product", id)
	}
	p.Images = append([]domain.Image(nil), images...)
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(f.products, id)
	return nil
}

func (f *fakeRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := f.products[id]; ok {
			delete(f.products, id)
			n++
		}
	}
	return n, nil
}

func TestCatalogLifecycle(t *testing.T) {
	repo := newFakeRepo()
	assets := memory.New("http://localhost:9000/shophub-media")
	svc := NewCatalogService(repo, assets, nil, &fakePublisher{}, newTestLogger())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &CreateProductInput{
		Title:      "Phone X",
		PriceCents: 99999,
		Category:   domain.CategorySmartphones,
		Payloads:   []ImagePayload{payload("front.jpg"), payload("back.jpg")},
	})
	require.NoError(t, err)
	require.Len(t, created.Images, 2)

	listed, err := svc.ListProducts(ctx, strPtr(domain.CategorySmartphones))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Phone X", listed[0].Title)
	assert.Len(t, listed[0].Images, 2)

	firstRemoteID := created.Images[0].RemoteID
	secondRemoteID := created.Images[1].RemoteID

	updated, failures, err := svc.UpdateProduct(ctx, created.ID, &UpdateProductInput{
		Title:           strPtr("Phone X Pro"),
		Payloads:        []ImagePayload{payload("side.jpg")},
		RemoveRemoteIDs: []string{firstRemoteID},
	})
	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Equal(t, "Phone X Pro", updated.Title)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, secondRemoteID, updated.Images[0].RemoteID)
	for _, img := range updated.Images {
		assert.NotEqual(t, firstRemoteID, img.RemoteID)
	}
	assert.False(t, assets.Has(firstRemoteID))

	remaining := []string{updated.Images[0].RemoteID, updated.Images[1].RemoteID}

	delFailures, err := svc.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, delFailures)

	// A deleted id is permanently absent.
	_, err = svc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	for _, remoteID := range remaining {
		assert.False(t, assets.Has(remoteID))
	}
}

func TestCatalogLifecycle_IDsAreValidUUIDs(t *testing.T) {
	repo := newFakeRepo()
	assets := memory.New("http://localhost:9000/shophub-media")
	svc := NewCatalogService(repo, assets, nil, &fakePublisher{}, newTestLogger())

	created, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Title:      "Console Z",
		PriceCents: 49999,
		Category:   domain.CategoryConsoles,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
}
