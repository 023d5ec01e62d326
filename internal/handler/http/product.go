package http

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/geochrs/shophub-admin/internal/domain"
	"github.com/geochrs/shophub-admin/internal/service"
	"github.com/geochrs/shophub-admin/pkg/httputil"
)

// maxUploadSize bounds the total size of one multipart product request.
const maxUploadSize = 32 << 20

var errInvalidPrice = errors.New("price_cents must be an integer")

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Response DTOs ---

type imageResponse struct {
	RemoteID     string `json:"remote_id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type productResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	FullDetail  string          `json:"full_detail"`
	PriceCents  int64           `json:"price_cents"`
	Featured    bool            `json:"featured"`
	Category    string          `json:"category"`
	Images      []imageResponse `json:"images"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type cleanupFailureResponse struct {
	RemoteID string `json:"remote_id"`
	Error    string `json:"error"`
}

type mutationResponse struct {
	Product         *productResponse         `json:"product,omitempty"`
	Deleted         *int64                   `json:"deleted,omitempty"`
	CleanupFailures []cleanupFailureResponse `json:"cleanup_failures,omitempty"`
}

func toProductResponse(p *domain.Product) *productResponse {
	images := make([]imageResponse, len(p.Images))
	for i, img := range p.Images {
		images[i] = imageResponse{
			RemoteID:     img.RemoteID,
			URL:          img.URL,
			ThumbnailURL: img.Thumbnail(),
		}
	}

	return &productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		FullDetail:  p.FullDetail,
		PriceCents:  p.PriceCents,
		Featured:    p.Featured,
		Category:    p.Category,
		Images:      images,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toProductListResponse(products []domain.Product) []*productResponse {
	out := make([]*productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out
}

func toCleanupFailureResponses(failures []service.CleanupFailure) []cleanupFailureResponse {
	if len(failures) == 0 {
		return nil
	}
	out := make([]cleanupFailureResponse, len(failures))
	for i, f := range failures {
		out[i] = cleanupFailureResponse{RemoteID: f.RemoteID, Error: f.Err.Error()}
	}
	return out
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var category *string
	if v := r.URL.Query().Get("category"); v != "" {
		category = &v
	}

	products, err := h.service.ListProducts(r.Context(), category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toProductListResponse(products)})
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toProductResponse(product)})
}

// CreateProduct handles POST /api/v1/products (multipart/form-data).
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to parse multipart form: " + err.Error()},
		})
		return
	}
	defer cleanupMultipart(r)

	priceCents, err := parsePrice(r.FormValue("price_cents"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	featured, _ := strconv.ParseBool(r.FormValue("featured"))

	payloads, closers, err := imagePayloads(r)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}
	defer closeAll(closers)

	input := &service.CreateProductInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		FullDetail:  r.FormValue("full_detail"),
		PriceCents:  priceCents,
		Featured:    featured,
		Category:    r.FormValue("category"),
		Payloads:    payloads,
	}

	product, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: toProductResponse(product)})
}

// UpdateProduct handles PUT /api/v1/products/{id} (multipart/form-data).
// Absent form fields leave the stored value untouched.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to parse multipart form: " + err.Error()},
		})
		return
	}
	defer cleanupMultipart(r)

	input := &service.UpdateProductInput{}

	if v, ok := formValue(r, "title"); ok {
		input.Title = &v
	}
	if v, ok := formValue(r, "description"); ok {
		input.Description = &v
	}
	if v, ok := formValue(r, "full_detail"); ok {
		input.FullDetail = &v
	}
	if v, ok := formValue(r, "category"); ok {
		input.Category = &v
	}
	if v, ok := formValue(r, "price_cents"); ok {
		priceCents, err := parsePrice(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
			})
			return
		}
		input.PriceCents = &priceCents
	}
	if v, ok := formValue(r, "featured"); ok {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "featured must be a boolean"},
			})
			return
		}
		input.Featured = &featured
	}

	if r.MultipartForm != nil {
		input.RemoveRemoteIDs = r.MultipartForm.Value["remove_remote_ids"]
	}

	payloads, closers, err := imagePayloads(r)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}
	defer closeAll(closers)
	input.Payloads = payloads

	product, failures, err := h.service.UpdateProduct(r.Context(), id, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: &mutationResponse{
		Product:         toProductResponse(product),
		CleanupFailures: toCleanupFailureResponses(failures),
	}})
}

// DeleteProduct handles DELETE /api/v1/products/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	failures, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: &mutationResponse{
		CleanupFailures: toCleanupFailureResponses(failures),
	}})
}

// PurgeCategory handles DELETE /api/v1/categories/{category}/products.
func (h *ProductHandler) PurgeCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	deleted, failures, err := h.service.PurgeCategory(r.Context(), category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: &mutationResponse{
		Deleted:         &deleted,
		CleanupFailures: toCleanupFailureResponses(failures),
	}})
}

// --- multipart helpers ---

// imagePayloads extracts every uploaded file under the "images" field,
// preserving form order. The returned closers must be closed by the caller.
func imagePayloads(r *http.Request) ([]service.ImagePayload, []multipart.File, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File["images"]) == 0 {
		return nil, nil, nil
	}

	var (
		payloads []service.ImagePayload
		closers  []multipart.File
	)

	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		closers = append(closers, file)

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		payloads = append(payloads, service.ImagePayload{
			FileName:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Data:        file,
		})
	}

	return payloads, closers, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func parsePrice(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	priceCents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errInvalidPrice
	}
	return priceCents, nil
}
