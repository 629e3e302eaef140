package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
)

func newInsightsFixture() (*InsightsService, *mockProductRepo, *mockReviewRepo) {
	products := &mockProductRepo{}
	reviews := &mockReviewRepo{}
	return NewInsightsService(products, reviews, nil), products, reviews
}

func review(rating int, comment string) domain.Review {
	return domain.Review{ID: uuid.New(), Rating: rating, Comment: comment}
}

func TestSummary_NoReviews(t *testing.T) {
	svc, products, reviews := newInsightsFixture()
	product := &domain.Product{ID: uuid.New(), Name: "Apple Watch Series 9"}

	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	reviews.On("ListByProduct", mock.Anything, product.ID, mock.Anything).Return([]domain.Review{}, 0, nil)

	summary, err := svc.Summary(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, "unknown", summary.Sentiment)
	assert.Zero(t, summary.ReviewCount)
	assert.Contains(t, summary.Summary, "no reviews yet")
}

func TestSummary_PositiveReviews(t *testing.T) {
	svc, products, reviews := newInsightsFixture()
	product := &domain.Product{ID: uuid.New(), Name: "Sony WH-1000XM5"}

	stored := []domain.Review{
		review(5, "Excellent quality and very fast pairing"),
		review(5, "Great sound, beautiful design"),
		review(4, "Good quality for the price"),
	}

	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	reviews.On("ListByProduct", mock.Anything, product.ID, mock.Anything).Return(stored, 3, nil)

	summary, err := svc.Summary(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, "overwhelmingly positive", summary.Sentiment)
	assert.Equal(t, 3, summary.ReviewCount)
	assert.Equal(t, 4.7, summary.AverageRating)
	assert.Contains(t, summary.Summary, "Based on 3 customer reviews")
	assert.Contains(t, summary.Summary, "100% of customers gave 4-5 star ratings")
	assert.Contains(t, summary.Summary, "quality")
}

func TestSummary_MixedReviews(t *testing.T) {
	svc, products, reviews := newInsightsFixture()
	product := &domain.Product{ID: uuid.New(), Name: "iPhone 15 Pro"}

	stored := []domain.Review{
		review(5, "Great camera quality"),
		review(2, "Way too expensive for what it offers"),
	}

	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	reviews.On("ListByProduct", mock.Anything, product.ID, mock.Anything).Return(stored, 2, nil)

	summary, err := svc.Summary(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, "generally positive", summary.Sentiment)
	assert.Contains(t, summary.Summary, "Opinions are mixed")
	assert.Contains(t, summary.Summary, "price point")
}

func TestSummary_Deterministic(t *testing.T) {
	svc, products, reviews := newInsightsFixture()
	product := &domain.Product{ID: uuid.New(), Name: "MacBook Air M2"}

	stored := []domain.Review{review(5, "Fast and light, perfect for my work.")}

	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	reviews.On("ListByProduct", mock.Anything, product.ID, mock.Anything).Return(stored, 1, nil)

	first, err := svc.Summary(context.Background(), product.ID)
	require.NoError(t, err)
	second, err := svc.Summary(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Sentiment, second.Sentiment)
}

func TestSummary_ProductNotFound(t *testing.T) {
	svc, products, _ := newInsightsFixture()
	id := uuid.New()

	products.On("GetByID", mock.Anything, id).Return(nil, apperrors.ErrNotFound)

	_, err := svc.Summary(context.Background(), id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAsk_RoutesByKeyword(t *testing.T) {
	svc, products, reviews := newInsightsFixture()
	product := &domain.Product{ID: uuid.New(), Name: "iPad Pro 12.9"}

	stored := []domain.Review{
		review(5, "Amazing screen"),
		review(5, "Very good tablet"),
		review(1, "Arrived with a dead pixel"),
	}

	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	reviews.On("ListByProduct", mock.Anything, product.ID, mock.Anything).Return(stored, 3, nil)

	tests := []struct {
		question string
		contains string
	}{
		{"How many reviews does this have?", "There are 3 reviews"},
		{"Is the quality good?", "2 out of 3 reviews are positive"},
		{"What are the main complaints?", "1 negative reviews"},
		{"Would my cat like it?", "interesting question"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			answer, err := svc.Ask(context.Background(), product.ID, tt.question)
			require.NoError(t, err)
			assert.Contains(t, answer, tt.contains)
		})
	}
}

func TestAsk_NoReviews(t *testing.T) {
	svc, products, reviews := newInsightsFixture()
	product := &domain.Product{ID: uuid.New(), Name: "Apple Watch Series 9"}

	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	reviews.On("ListByProduct", mock.Anything, product.ID, mock.Anything).Return([]domain.Review{}, 0, nil)

	answer, err := svc.Ask(context.Background(), product.ID, "Is it good?")
	require.NoError(t, err)
	assert.Contains(t, answer, "couldn't find any reviews")
}
