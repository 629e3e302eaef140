package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/pkg/database"
	"github.com/utafrali/ProductReviewGo/pkg/pagination"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	Category *string
	Search   string
	Page     int
	PerPage  int
	Sort     pagination.Sort
}

// ReviewFilter defines filter criteria for listing reviews of a product.
type ReviewFilter struct {
	Rating  *int
	Page    int
	PerPage int
	Sort    pagination.Sort
}

// ProductRepository defines persistence operations for products. Methods that
// take an explicit database.DBTX participate in a caller-managed transaction;
// the rest run against the pool the repository was constructed with.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// GetBySlug retrieves a product by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns products matching the filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// LockByID takes a row lock on the product, serializing concurrent
	// writers for the same product until the transaction ends.
	LockByID(ctx context.Context, q database.DBTX, id uuid.UUID) error

	// UpdateStats writes the derived review statistics for the product.
	UpdateStats(ctx context.Context, q database.DBTX, id uuid.UUID, averageRating float64, reviewCount int) error

	// Count returns the total number of products in the catalog.
	Count(ctx context.Context) (int, error)
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create inserts a new review within the given transaction.
	Create(ctx context.Context, q database.DBTX, review *domain.Review) error

	// ListByProduct returns reviews for a product matching the filter along
	// with the total count.
	ListByProduct(ctx context.Context, productID uuid.UUID, filter ReviewFilter) ([]domain.Review, int, error)

	// RatingsByProduct returns every rating value recorded for the product.
	RatingsByProduct(ctx context.Context, q database.DBTX, productID uuid.UUID) ([]int, error)

	// CountByRating returns review counts grouped by rating value. Ratings
	// with no reviews are absent from the result.
	CountByRating(ctx context.Context, productID uuid.UUID) (map[int]int, error)

	// IncrementHelpful atomically increments the helpful counter of a review
	// and returns the updated review.
	IncrementHelpful(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error)
}
