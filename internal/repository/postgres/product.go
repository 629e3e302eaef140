package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/pkg/database"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
	"github.com/utafrali/ProductReviewGo/pkg/pagination"
)

const productColumns = `id, name, slug, description, category, image_url, price,
	   average_rating, review_count, created_at, updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (
			id, name, slug, description, category, image_url, price,
			average_rating, review_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	err := database.TraceQuery(ctx, "product.create", query, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			p.ID,
			p.Name,
			p.Slug,
			p.Description,
			p.Category,
			p.ImageURL,
			p.Price,
			p.AverageRating,
			p.ReviewCount,
			p.CreatedAt,
			p.UpdatedAt,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return r.scanProduct(ctx, "product.get_by_id", query, id)
}

// GetBySlug retrieves a product by its URL slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)
	return r.scanProduct(ctx, "product.get_by_slug", query, slug)
}

// List returns products matching the given filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, orderClause(filter.Sort, "created_at"), argIndex, argIndex+1,
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
		products   []domain.Product
		totalCount int
	)

	err := database.TraceQuery(ctx, "product.list", query, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var p domain.Product
			if err := rows.Scan(
				&p.ID,
				&p.Name,
				&p.Slug,
				&p.Description,
				&p.Category,
				&p.ImageURL,
				&p.Price,
				&p.AverageRating,
				&p.ReviewCount,
				&p.CreatedAt,
				&p.UpdatedAt,
				&totalCount,
			); err != nil {
				return fmt.Errorf("scan product row: %w", err)
			}
			products = append(products, p)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// LockByID takes a FOR UPDATE row lock on the product. Concurrent submissions
// for the same product queue behind the lock until the transaction ends.
func (r *ProductRepository) LockByID(ctx context.Context, q database.DBTX, id uuid.UUID) error {
	query := `SELECT id FROM products WHERE id = $1 FOR UPDATE`

	var got uuid.UUID
	err := q.QueryRow(ctx, query, id).Scan(&got)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product", id.String())
		}
		return fmt.Errorf("lock product: %w", err)
	}

	return nil
}

// UpdateStats writes the derived statistics for the product.
func (r *ProductRepository) UpdateStats(ctx context.Context, q database.DBTX, id uuid.UUID, averageRating float64, reviewCount int) error {
	query := `
		UPDATE products
		SET average_rating = $1, review_count = $2, updated_at = NOW()
		WHERE id = $3`

	ct, err := q.Exec(ctx, query, averageRating, reviewCount, id)
	if err != nil {
		return fmt.Errorf("update product stats: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id.String())
	}

	return nil
}

// Count returns the number of products in the catalog.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func (r *ProductRepository) scanProduct(ctx context.Context, operation, query string, args ...any) (*domain.Product, error) {
	var p domain.Product

	err := database.TraceQuery(ctx, operation, query, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, args...).Scan(
			&p.ID,
			&p.Name,
			&p.Slug,
			&p.Description,
			&p.Category,
			&p.ImageURL,
			&p.Price,
			&p.AverageRating,
			&p.ReviewCount,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// orderClause builds the ORDER BY expression from a sort whitelisted by the
// caller, falling back to the given column when none is set.
func orderClause(sort pagination.Sort, fallback string) string {
	field := sort.Field
	if field == "" {
		field = fallback
	}
	direction := "DESC"
	if !sort.Desc {
		direction = "ASC"
	}
	return field + " " + direction
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
