package event

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/pkg/kafka"
	"github.com/utafrali/ProductReviewGo/pkg/logger"
)

// Kafka topics published by this service.
const (
	TopicReviewCreated       = "catalog.review.created"
	TopicProductStatsUpdated = "catalog.product.stats_updated"
)

const (
	aggregateTypeProduct = "product"
	source               = "catalog-service"
)

// ReviewCreatedPayload is the data of a review.created event.
type ReviewCreatedPayload struct {
	ReviewID     uuid.UUID `json:"review_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
}

// StatsUpdatedPayload is the data of a product.stats_updated event.
type StatsUpdatedPayload struct {
	ProductID     uuid.UUID `json:"product_id"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
}

// Publisher emits catalog domain events to Kafka. Publishing is best effort:
// failures are logged and never propagated, since the database commit already
// happened.
type Publisher struct {
	producer *kafka.Producer
}

// NewPublisher creates a new event publisher.
func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{producer: producer}
}

// ReviewCreated publishes a review.created event keyed by the product ID.
func (p *Publisher) ReviewCreated(ctx context.Context, review *domain.Review) {
	payload := ReviewCreatedPayload{
		ReviewID:     review.ID,
		ProductID:    review.ProductID,
		ReviewerName: review.ReviewerName,
		Rating:       review.Rating,
		Comment:      review.Comment,
	}
	p.publish(ctx, TopicReviewCreated, review.ProductID, payload)
}

// StatsUpdated publishes a product.stats_updated event.
func (p *Publisher) StatsUpdated(ctx context.Context, productID uuid.UUID, stats domain.Stats) {
	payload := StatsUpdatedPayload{
		ProductID:     productID,
		AverageRating: stats.AverageRating,
		ReviewCount:   stats.ReviewCount,
	}
	p.publish(ctx, TopicProductStatsUpdated, productID, payload)
}

func (p *Publisher) publish(ctx context.Context, topic string, productID uuid.UUID, payload any) {
	eventType := topic

	evt, err := kafka.NewEvent(ctx, eventType, productID.String(), aggregateTypeProduct, source, payload)
	if err != nil {
		logger.FromContext(ctx).Error("build event failed",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		logger.FromContext(ctx).Error("publish event failed",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
	}
}
