package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/pkg/database"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
)

const reviewColumns = `id, product_id, reviewer_name, rating, comment, helpful_count, created_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review within the given transaction.
func (r *ReviewRepository) Create(ctx context.Context, q database.DBTX, review *domain.Review) error {
	query := `
		INSERT INTO product_reviews (
			id, product_id, reviewer_name, rating, comment, helpful_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := q.Exec(ctx, query,
		review.ID,
		review.ProductID,
		review.ReviewerName,
		review.Rating,
		review.Comment,
		review.HelpfulCount,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// ListByProduct returns reviews for a product matching the filter with the
// total count.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	args := []any{productID}
	argIndex := 2

	ratingClause := ""
	if filter.Rating != nil {
		ratingClause = fmt.Sprintf("AND rating = $%d", argIndex)
		args = append(args, *filter.Rating)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM product_reviews
		WHERE product_id = $1 %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		reviewColumns, ratingClause, orderClause(filter.Sort, "created_at"), argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	args = append(args, limit, offset)

	var (
		reviews    []domain.Review
		totalCount int
	)

	err := database.TraceQuery(ctx, "review.list_by_product", query, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("list reviews: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var rv domain.Review
			if err := rows.Scan(
				&rv.ID,
				&rv.ProductID,
				&rv.ReviewerName,
				&rv.Rating,
				&rv.Comment,
				&rv.HelpfulCount,
				&rv.CreatedAt,
				&totalCount,
			); err != nil {
				return fmt.Errorf("scan review row: %w", err)
			}
			reviews = append(reviews, rv)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// RatingsByProduct returns every rating recorded for the product. Runs on the
// given DBTX so the recompute reads its own uncommitted insert when called
// inside the submission transaction.
func (r *ReviewRepository) RatingsByProduct(ctx context.Context, q database.DBTX, productID uuid.UUID) ([]int, error) {
	query := `SELECT rating FROM product_reviews WHERE product_id = $1`

	rows, err := q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	return ratings, rows.Err()
}

// CountByRating returns review counts per rating value for the product.
func (r *ReviewRepository) CountByRating(ctx context.Context, productID uuid.UUID) (map[int]int, error) {
	query := `
		SELECT rating, count(*)
		FROM product_reviews
		WHERE product_id = $1
		GROUP BY rating`

	counts := make(map[int]int)

	err := database.TraceQuery(ctx, "review.count_by_rating", query, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, productID)
		if err != nil {
			return fmt.Errorf("query rating counts: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var rating, count int
			if err := rows.Scan(&rating, &count); err != nil {
				return fmt.Errorf("scan rating count: %w", err)
			}
			counts[rating] = count
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// IncrementHelpful atomically increments the helpful counter and returns the
// updated review.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error) {
	query := fmt.Sprintf(`
		UPDATE product_reviews
		SET helpful_count = helpful_count + 1
		WHERE id = $1
		RETURNING %s`, reviewColumns)

	var rv domain.Review
	err := database.TraceQuery(ctx, "review.increment_helpful", query, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, reviewID).Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.ReviewerName,
			&rv.Rating,
			&rv.Comment,
			&rv.HelpfulCount,
			&rv.CreatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", reviewID.String())
		}
		return nil, fmt.Errorf("increment helpful count: %w", err)
	}

	return &rv, nil
}
