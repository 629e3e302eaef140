package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/pkg/database"
)

// StatsService owns the derived review statistics. It is the only writer of
// average_rating and review_count; everything else treats them as read-only.
type StatsService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(products repository.ProductRepository, reviews repository.ReviewRepository) *StatsService {
	return &StatsService{products: products, reviews: reviews}
}

// Recompute derives the product's statistics from the full set of its ratings
// and persists them. Running it twice in a row yields the same result, so a
// retried submission can never skew the stats. Pass the submission transaction
// as q to make the recompute see the uncommitted review and commit atomically
// with it.
func (s *StatsService) Recompute(ctx context.Context, q database.DBTX, productID uuid.UUID) (domain.Stats, error) {
	ratings, err := s.reviews.RatingsByProduct(ctx, q, productID)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("load ratings: %w", err)
	}

	stats := domain.ComputeStats(ratings)

	if err := s.products.UpdateStats(ctx, q, productID, stats.AverageRating, stats.ReviewCount); err != nil {
		return domain.Stats{}, fmt.Errorf("persist stats: %w", err)
	}

	return stats, nil
}

// Breakdown returns the product's rating histogram with every bucket from 1
// to 5 present, zero-filled where no reviews exist.
func (s *StatsService) Breakdown(ctx context.Context, productID uuid.UUID) (map[int]int, error) {
	counts, err := s.reviews.CountByRating(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load rating counts: %w", err)
	}

	breakdown := domain.EmptyBreakdown()
	for rating, count := range counts {
		if rating >= domain.MinRating && rating <= domain.MaxRating {
			breakdown[rating] = count
		}
	}

	return breakdown, nil
}
