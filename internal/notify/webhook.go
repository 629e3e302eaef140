package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/pkg/httpclient"
	"github.com/utafrali/ProductReviewGo/pkg/logger"
)

// reviewNotification is the JSON body posted to the webhook endpoint.
type reviewNotification struct {
	Event         string    `json:"event"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ReviewID      string    `json:"review_id"`
	ReviewerName  string    `json:"reviewer_name"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// WebhookNotifier posts review notifications to a configured HTTP endpoint.
// Delivery is best effort behind a circuit breaker: when the receiving end is
// down, the breaker opens and submissions proceed without the notification.
type WebhookNotifier struct {
	client *httpclient.CircuitBreakerClient
	url    string
}

// NewWebhookNotifier creates a notifier targeting the given URL.
func NewWebhookNotifier(url string, log *slog.Logger) *WebhookNotifier {
	client := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("review-webhook"), log)
	return &WebhookNotifier{client: cb, url: url}
}

// ReviewCreated posts a review-created notification. Errors are logged only.
func (n *WebhookNotifier) ReviewCreated(ctx context.Context, product *domain.Product, review *domain.Review) {
	body := reviewNotification{
		Event:         "review.created",
		ProductID:     product.ID.String(),
		ProductName:   product.Name,
		ReviewID:      review.ID.String(),
		ReviewerName:  review.ReviewerName,
		Rating:        review.Rating,
		Comment:       review.Comment,
		AverageRating: product.AverageRating,
		ReviewCount:   product.ReviewCount,
		OccurredAt:    review.CreatedAt,
	}

	data, err := json.Marshal(body)
	if err != nil {
		logger.FromContext(ctx).Error("marshal webhook payload failed",
			slog.String("error", err.Error()),
		)
		return
	}

	resp, err := n.client.Post(ctx, n.url, "application/json", bytes.NewReader(data))
	if err != nil {
		logger.FromContext(ctx).Warn("review webhook delivery failed",
			slog.String("url", n.url),
			slog.String("review_id", review.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	defer resp.Body.Close()

	logger.FromContext(ctx).Debug("review webhook delivered",
		slog.String("review_id", review.ID.String()),
		slog.Int("status", resp.StatusCode),
	)
}
