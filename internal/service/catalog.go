package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/pkg/database"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
	"github.com/utafrali/ProductReviewGo/pkg/logger"
	"github.com/utafrali/ProductReviewGo/pkg/slug"
)

// EventPublisher emits domain events after state changes commit. Failures are
// logged, never surfaced to the caller.
type EventPublisher interface {
	ReviewCreated(ctx context.Context, review *domain.Review)
	StatsUpdated(ctx context.Context, productID uuid.UUID, stats domain.Stats)
}

// Notifier delivers review notifications to external systems, best effort.
type Notifier interface {
	ReviewCreated(ctx context.Context, product *domain.Product, review *domain.Review)
}

// SummaryInvalidator drops cached review summaries after the underlying
// reviews change.
type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context, productID uuid.UUID)
}

// CatalogService implements the product catalog operations, including the
// review submission transaction.
type CatalogService struct {
	db       database.DBTX
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	stats    *StatsService

	events      EventPublisher
	notifier    Notifier
	invalidator SummaryInvalidator
}

// NewCatalogService creates a new catalog service. events, notifier, and
// invalidator may be nil when the corresponding integration is disabled.
func NewCatalogService(
	db database.DBTX,
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	stats *StatsService,
	events EventPublisher,
	notifier Notifier,
	invalidator SummaryInvalidator,
) *CatalogService {
	return &CatalogService{
		db:          db,
		products:    products,
		reviews:     reviews,
		stats:       stats,
		events:      events,
		notifier:    notifier,
		invalidator: invalidator,
	}
}

// ListProducts returns a page of products matching the filter.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return s.products.List(ctx, filter)
}

// GetProduct resolves a product by UUID or slug and attaches its rating
// histogram.
func (s *CatalogService) GetProduct(ctx context.Context, idOrSlug string) (*domain.ProductDetail, error) {
	product, err := s.resolveProduct(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.stats.Breakdown(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	return &domain.ProductDetail{Product: *product, RatingBreakdown: breakdown}, nil
}

// CreateProduct adds a new catalog entry. The slug is derived from the name;
// on collision a short random suffix is appended once.
func (s *CatalogService) CreateProduct(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Price:       input.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.products.Create(ctx, product)
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		product.Slug = fmt.Sprintf("%s-%s", product.Slug, product.ID.String()[:8])
		err = s.products.Create(ctx, product)
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}

// ListReviews returns a page of reviews for the product. The product must
// exist; an unknown ID yields ErrNotFound rather than an empty page.
func (s *CatalogService) ListReviews(ctx context.Context, productID uuid.UUID, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByProduct(ctx, productID, filter)
}

// SubmitReview records a review and recomputes the product's statistics in a
// single transaction. The product row is locked first, serializing concurrent
// submissions per product; either the review and the new stats both commit or
// neither does. Reads after a successful return always see the new stats.
func (s *CatalogService) SubmitReview(ctx context.Context, productID uuid.UUID, input domain.SubmitReviewInput) (*domain.Review, error) {
	input.Normalize()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.products.LockByID(ctx, tx, productID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:           uuid.New(),
		ProductID:    productID,
		ReviewerName: input.ReviewerName,
		Rating:       input.Rating,
		Comment:      input.Comment,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, tx, review); err != nil {
		return nil, apperrors.Storage(err)
	}

	stats, err := s.stats.Recompute(ctx, tx, productID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("commit review: %w", err))
	}

	s.afterSubmit(ctx, productID, review, stats)

	return review, nil
}

// afterSubmit runs the best-effort side effects of a committed submission.
func (s *CatalogService) afterSubmit(ctx context.Context, productID uuid.UUID, review *domain.Review, stats domain.Stats) {
	if s.events != nil {
		s.events.ReviewCreated(ctx, review)
		s.events.StatsUpdated(ctx, productID, stats)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateSummary(ctx, productID)
	}

	if s.notifier != nil {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			logger.FromContext(ctx).Warn("skip review notification, product load failed",
				slog.String("product_id", productID.String()),
				slog.String("error", err.Error()),
			)
			return
		}
		s.notifier.ReviewCreated(ctx, product, review)
	}
}

// MarkHelpful increments the helpful counter of a review.
func (s *CatalogService) MarkHelpful(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error) {
	return s.reviews.IncrementHelpful(ctx, reviewID)
}

func (s *CatalogService) resolveProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.products.GetByID(ctx, id)
	}
	return s.products.GetBySlug(ctx, idOrSlug)
}
