package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/pkg/httputil"
	"github.com/utafrali/ProductReviewGo/pkg/pagination"
	"github.com/utafrali/ProductReviewGo/pkg/validator"
)

// CatalogService is the product surface the handlers depend on.
type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error)
	GetProduct(ctx context.Context, idOrSlug string) (*domain.ProductDetail, error)
	CreateProduct(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error)
	ListReviews(ctx context.Context, productID uuid.UUID, filter repository.ReviewFilter) ([]domain.Review, int, error)
	SubmitReview(ctx context.Context, productID uuid.UUID, input domain.SubmitReviewInput) (*domain.Review, error)
	MarkHelpful(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error)
}

var productSortFields = []string{"created_at", "price", "average_rating", "review_count", "name"}

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	filter := repository.ProductFilter{
		Search:  r.URL.Query().Get("search"),
		Page:    params.Page,
		PerPage: params.PerPage,
		Sort:    pagination.SortFromRequest(r, productSortFields, "created_at"),
	}
	// "all" is the client's way of clearing the category filter.
	if category := r.URL.Query().Get("category"); category != "" && !strings.EqualFold(category, "all") {
		filter.Category = &category
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(products, total, params))
}

// GetProduct handles GET /api/v1/products/{id}. The path value may be the
// product's UUID or its slug.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "id")

	detail, err := h.service.GetProduct(r.Context(), idOrSlug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var input domain.CreateProductInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}
