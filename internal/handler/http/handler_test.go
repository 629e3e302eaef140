package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/internal/service"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
	"github.com/utafrali/ProductReviewGo/pkg/health"
)

// ---------------------------------------------------------------------------
// mocks
// ---------------------------------------------------------------------------

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockCatalog) GetProduct(ctx context.Context, idOrSlug string) (*domain.ProductDetail, error) {
	args := m.Called(ctx, idOrSlug)
	if p := args.Get(0); p != nil {
		return p.(*domain.ProductDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) CreateProduct(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	args := m.Called(ctx, input)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) ListReviews(ctx context.Context, productID uuid.UUID, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	args := m.Called(ctx, productID, filter)
	if r := args.Get(0); r != nil {
		return r.([]domain.Review), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockCatalog) SubmitReview(ctx context.Context, productID uuid.UUID, input domain.SubmitReviewInput) (*domain.Review, error) {
	args := m.Called(ctx, productID, input)
	if r := args.Get(0); r != nil {
		return r.(*domain.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) MarkHelpful(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	if r := args.Get(0); r != nil {
		return r.(*domain.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockInsights struct {
	mock.Mock
}

func (m *mockInsights) Summary(ctx context.Context, productID uuid.UUID) (*service.ReviewSummary, error) {
	args := m.Called(ctx, productID)
	if s := args.Get(0); s != nil {
		return s.(*service.ReviewSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsights) Ask(ctx context.Context, productID uuid.UUID, question string) (string, error) {
	args := m.Called(ctx, productID, question)
	return args.String(0), args.Error(1)
}

func newTestRouter(t *testing.T) (http.Handler, *mockCatalog, *mockInsights) {
	t.Helper()

	catalog := &mockCatalog{}
	insights := &mockInsights{}

	router := NewRouter(RouterConfig{
		Catalog:        catalog,
		Insights:       insights,
		Health:         health.NewHandler(),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		ServiceName:    "catalog-service",
		Environment:    "development",
		AllowedOrigins: []string{"*"},
	})
	return router, catalog, insights
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// products
// ---------------------------------------------------------------------------

func TestListProducts(t *testing.T) {
	router, catalog, _ := newTestRouter(t)

	products := []domain.Product{
		{ID: uuid.New(), Name: "iPhone 15 Pro", AverageRating: 4.5, ReviewCount: 2},
	}
	catalog.On("ListProducts", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Page == 1 && f.PerPage == 20 && f.Category == nil
	})).Return(products, 1, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []domain.Product `json:"data"`
		TotalCount int              `json:"total_count"`
		Page       int              `json:"page"`
		HasNext    bool             `json:"has_next"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.False(t, resp.HasNext)
}

func TestListProducts_CategoryAndSort(t *testing.T) {
	router, catalog, _ := newTestRouter(t)

	catalog.On("ListProducts", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Category != nil && *f.Category == "Laptops" &&
			f.Sort.Field == "price" && !f.Sort.Desc
	})).Return([]domain.Product{}, 0, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products?category=Laptops&sort=price&order=asc", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	catalog.AssertExpectations(t)
}

func TestGetProduct_BySlug(t *testing.T) {
	router, catalog, _ := newTestRouter(t)

	detail := &domain.ProductDetail{
		Product:         domain.Product{ID: uuid.New(), Name: "MacBook Air M2", Slug: "macbook-air-m2"},
		RatingBreakdown: domain.EmptyBreakdown(),
	}
	catalog.On("GetProduct", mock.Anything, "macbook-air-m2").Return(detail, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/macbook-air-m2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rating_breakdown"`)
}

func TestGetProduct_NotFound(t *testing.T) {
	router, catalog, _ := newTestRouter(t)

	catalog.On("GetProduct", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestCreateProduct_Valid(t *testing.T) {
	router, catalog, _ := newTestRouter(t)

	created := &domain.Product{ID: uuid.New(), Name: "iPad Pro 12.9", Slug: "ipad-pro-12-9"}
	catalog.On("CreateProduct", mock.Anything, mock.Anything).Return(created, nil)

	body := `{"name":"iPad Pro 12.9","description":"The ultimate iPad experience with M2 chip.","category":"Tablets","price":1099.00}`
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	router, catalog, _ := newTestRouter(t)

	body := `{"name":"x","description":"short","category":"","price":-1}`
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	catalog.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// reviews
// ---------------------------------------------------------------------------

func TestSubmitReview_Created(t *testing.T) {
	router, catalog, _ := newTestRouter(t)
	productID := uuid.New()

	review := &domain.Review{ID: uuid.New(), ProductID: productID, Rating: 5}
	catalog.On("SubmitReview", mock.Anything, productID, domain.SubmitReviewInput{
		ReviewerName: "Ada",
		Rating:       5,
		Comment:      "Amazing phone! The camera is incredible.",
	}).Return(review, nil)

	body := `{"reviewer_name":"Ada","rating":5,"comment":"Amazing phone! The camera is incredible."}`
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	catalog.AssertExpectations(t)
}

func TestSubmitReview_RatingOutOfRange(t *testing.T) {
	router, catalog, _ := newTestRouter(t)
	productID := uuid.New()

	body := `{"rating":6,"comment":"off the charts"}`
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	catalog.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReview_InvalidProductID(t *testing.T) {
	router, catalog, _ := newTestRouter(t)

	body := `{"rating":5,"comment":"Great quality product."}`
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products/not-a-uuid/reviews", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PARAMETER")
	catalog.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReview_ProductNotFound(t *testing.T) {
	router, catalog, _ := newTestRouter(t)
	productID := uuid.New()

	catalog.On("SubmitReview", mock.Anything, productID, mock.Anything).
		Return(nil, apperrors.NotFound("product", productID.String()))

	body := `{"rating":4,"comment":"Solid product overall."}`
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReviews_RatingFilter(t *testing.T) {
	router, catalog, _ := newTestRouter(t)
	productID := uuid.New()

	catalog.On("ListReviews", mock.Anything, productID, mock.MatchedBy(func(f repository.ReviewFilter) bool {
		return f.Rating != nil && *f.Rating == 5
	})).Return([]domain.Review{}, 0, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/"+productID.String()+"/reviews?rating=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	catalog.AssertExpectations(t)
}

func TestListReviews_InvalidRatingParam(t *testing.T) {
	router, catalog, _ := newTestRouter(t)
	productID := uuid.New()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/"+productID.String()+"/reviews?rating=11", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	catalog.AssertNotCalled(t, "ListReviews", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkHelpful(t *testing.T) {
	router, catalog, _ := newTestRouter(t)
	reviewID := uuid.New()

	updated := &domain.Review{ID: reviewID, HelpfulCount: 4}
	catalog.On("MarkHelpful", mock.Anything, reviewID).Return(updated, nil)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/reviews/"+reviewID.String()+"/helpful", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"helpful_count":4`)
}

// ---------------------------------------------------------------------------
// insights
// ---------------------------------------------------------------------------

func TestSummary(t *testing.T) {
	router, _, insights := newTestRouter(t)
	productID := uuid.New()

	insights.On("Summary", mock.Anything, productID).Return(&service.ReviewSummary{
		ProductID:     productID,
		Summary:       "Based on 2 customer reviews, the overall sentiment is overwhelmingly positive with an average rating of 4.5 stars.",
		Sentiment:     "overwhelmingly positive",
		ReviewCount:   2,
		AverageRating: 4.5,
	}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/"+productID.String()+"/reviews/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "overwhelmingly positive")
}

func TestAsk(t *testing.T) {
	router, _, insights := newTestRouter(t)
	productID := uuid.New()

	insights.On("Ask", mock.Anything, productID, "How many reviews?").
		Return("There are 3 reviews for this product.", nil)

	body := `{"question":"How many reviews?"}`
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews/ask", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "There are 3 reviews")
}

func TestAsk_MissingQuestion(t *testing.T) {
	router, _, insights := newTestRouter(t)
	productID := uuid.New()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews/ask", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	insights.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// infrastructure routes
// ---------------------------------------------------------------------------

func TestHealthLive(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnsupportedMediaType(t *testing.T) {
	router, _, _ := newTestRouter(t)
	productID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews", strings.NewReader("rating=5"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
