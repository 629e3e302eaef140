package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/internal/service"
)

type demoProduct struct {
	input   domain.CreateProductInput
	reviews []domain.SubmitReviewInput
}

var demoCatalog = []demoProduct{
	{
		input: domain.CreateProductInput{
			Name:        "iPhone 15 Pro",
			Description: "The latest iPhone with A17 Pro chip and Titanium design.",
			Category:    "Electronics",
			Price:       999.99,
		},
		reviews: []domain.SubmitReviewInput{
			{ReviewerName: "John Doe", Rating: 5, Comment: "Amazing phone! The camera is incredible."},
			{ReviewerName: "Jane Smith", Rating: 4, Comment: "Battery life could be better, but overall great."},
		},
	},
	{
		input: domain.CreateProductInput{
			Name:        "Sony WH-1000XM5",
			Description: "Industry-leading noise canceling headphones.",
			Category:    "Electronics",
			Price:       349.99,
		},
		reviews: []domain.SubmitReviewInput{
			{ReviewerName: "Alice Brown", Rating: 5, Comment: "Best noise canceling I've ever experienced."},
		},
	},
	{
		input: domain.CreateProductInput{
			Name:        "MacBook Air M2",
			Description: "Strikingly thin design and incredible speed.",
			Category:    "Laptops",
			Price:       1099.00,
		},
		reviews: []domain.SubmitReviewInput{
			{ReviewerName: "Bob Wilson", Rating: 5, Comment: "Fast and light, perfect for my work."},
		},
	},
	{
		input: domain.CreateProductInput{
			Name:        "iPad Pro 12.9",
			Description: "The ultimate iPad experience with M2 chip.",
			Category:    "Tablets",
			Price:       1099.00,
		},
	},
	{
		input: domain.CreateProductInput{
			Name:        "Apple Watch Series 9",
			Description: "Smarter, brighter, and more powerful.",
			Category:    "Wearables",
			Price:       399.00,
		},
	},
}

// Run populates an empty catalog with demo products and reviews. Reviews go
// through the regular submission path so the derived stats come out exactly as
// they would in production. A non-empty catalog is left untouched.
func Run(ctx context.Context, catalog *service.CatalogService, products repository.ProductRepository, logger *slog.Logger) error {
	count, err := products.Count(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		logger.Debug("catalog not empty, skipping demo seed", slog.Int("products", count))
		return nil
	}

	for _, demo := range demoCatalog {
		product, err := catalog.CreateProduct(ctx, demo.input)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", demo.input.Name, err)
		}

		for _, review := range demo.reviews {
			if _, err := catalog.SubmitReview(ctx, product.ID, review); err != nil {
				return fmt.Errorf("seed review for %q: %w", demo.input.Name, err)
			}
		}
	}

	logger.Info("demo catalog seeded", slog.Int("products", len(demoCatalog)))
	return nil
}
