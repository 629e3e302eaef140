package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry together with its derived review statistics.
// AverageRating and ReviewCount are maintained by the stats recompute and are
// never written directly by request handlers.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"image_url,omitempty"`
	Price         float64   `json:"price"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductDetail is a product enriched with its rating histogram, returned by
// the single-product endpoint.
type ProductDetail struct {
	Product
	RatingBreakdown map[int]int `json:"rating_breakdown"`
}

// CreateProductInput carries the payload for creating a catalog entry.
type CreateProductInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"required,min=10,max=5000"`
	Category    string  `json:"category" validate:"required,min=2,max=100"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	Price       float64 `json:"price" validate:"required,gt=0"`
}
