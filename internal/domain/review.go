package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousReviewer is substituted when a review arrives without a name.
const AnonymousReviewer = "Anonymous"

// Review is a single customer review for a product.
type Review struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmitReviewInput carries the payload for submitting a review.
type SubmitReviewInput struct {
	ReviewerName string `json:"reviewer_name" validate:"omitempty,max=100"`
	Rating       int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment      string `json:"comment" validate:"required,min=10,max=2000"`
}

// Normalize applies input defaults. An empty reviewer name becomes Anonymous.
func (in *SubmitReviewInput) Normalize() {
	if in.ReviewerName == "" {
		in.ReviewerName = AnonymousReviewer
	}
}
