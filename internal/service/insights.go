package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/pkg/logger"
)

const (
	summaryCacheTTL = time.Hour

	// maxInsightReviews caps how many reviews feed the summary. Newest first.
	maxInsightReviews = 100
)

// ReviewSummary is the generated digest of a product's reviews.
type ReviewSummary struct {
	ProductID     uuid.UUID `json:"product_id"`
	Summary       string    `json:"summary"`
	Sentiment     string    `json:"sentiment"`
	ReviewCount   int       `json:"review_count"`
	AverageRating float64   `json:"average_rating"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// InsightsService derives natural-language review summaries and answers
// questions about a product's reviews. The analysis is rule based and fully
// deterministic for a given review set. Summaries are cached in Redis for an
// hour and invalidated whenever a new review lands.
type InsightsService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	cache    *redis.Client
}

// NewInsightsService creates a new insights service. cache may be nil, which
// disables summary caching.
func NewInsightsService(products repository.ProductRepository, reviews repository.ReviewRepository, cache *redis.Client) *InsightsService {
	return &InsightsService{products: products, reviews: reviews, cache: cache}
}

func summaryCacheKey(productID uuid.UUID) string {
	return "insights:summary:" + productID.String()
}

// Summary builds (or returns the cached) review digest for the product.
func (s *InsightsService) Summary(ctx context.Context, productID uuid.UUID) (*ReviewSummary, error) {
	if cached := s.fromCache(ctx, productID); cached != nil {
		return cached, nil
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	reviews, _, err := s.reviews.ListByProduct(ctx, productID, repository.ReviewFilter{
		Page:    1,
		PerPage: maxInsightReviews,
	})
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	summary := buildSummary(product, reviews)
	s.toCache(ctx, productID, summary)

	return summary, nil
}

// Ask answers a free-form question about the product's reviews using keyword
// routing over the review statistics.
func (s *InsightsService) Ask(ctx context.Context, productID uuid.UUID, question string) (string, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return "", err
	}

	reviews, _, err := s.reviews.ListByProduct(ctx, productID, repository.ReviewFilter{
		Page:    1,
		PerPage: maxInsightReviews,
	})
	if err != nil {
		return "", fmt.Errorf("load reviews: %w", err)
	}

	return answerQuestion(question, reviews), nil
}

// InvalidateSummary drops the cached digest for the product. Called after
// every committed review submission.
func (s *InsightsService) InvalidateSummary(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, summaryCacheKey(productID)).Err(); err != nil {
		logger.FromContext(ctx).Warn("invalidate summary cache failed",
			slog.String("product_id", productID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *InsightsService) fromCache(ctx context.Context, productID uuid.UUID) *ReviewSummary {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, summaryCacheKey(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.FromContext(ctx).Warn("summary cache read failed",
				slog.String("product_id", productID.String()),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	var summary ReviewSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *InsightsService) toCache(ctx context.Context, productID uuid.UUID, summary *ReviewSummary) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, summaryCacheKey(productID), data, summaryCacheTTL).Err(); err != nil {
		logger.FromContext(ctx).Warn("summary cache write failed",
			slog.String("product_id", productID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// ---------------------------------------------------------------------------
// rule-based analysis
// ---------------------------------------------------------------------------

func buildSummary(product *domain.Product, reviews []domain.Review) *ReviewSummary {
	now := time.Now().UTC()

	if len(reviews) == 0 {
		return &ReviewSummary{
			ProductID:   product.ID,
			Summary:     fmt.Sprintf("%s has no reviews yet.", product.Name),
			Sentiment:   "unknown",
			GeneratedAt: now,
		}
	}

	ratings := make([]int, 0, len(reviews))
	positive := 0
	for _, rv := range reviews {
		ratings = append(ratings, rv.Rating)
		if rv.Rating >= 4 {
			positive++
		}
	}
	stats := domain.ComputeStats(ratings)
	positivePct := float64(positive) * 100 / float64(len(reviews))

	sentiment := sentimentFor(stats.AverageRating)

	var b strings.Builder
	fmt.Fprintf(&b, "Based on %d customer reviews, the overall sentiment is %s with an average rating of %.1f stars. ",
		len(reviews), sentiment, stats.AverageRating)

	switch {
	case positivePct >= 70:
		fmt.Fprintf(&b, "%.0f%% of customers gave 4-5 star ratings. ", positivePct)
		b.WriteString(commonThemes(reviews, true))
	case positivePct >= 40:
		b.WriteString("Opinions are mixed. ")
		b.WriteString(commonThemes(reviews, true))
		b.WriteString("However, ")
		b.WriteString(commonThemes(reviews, false))
	default:
		b.WriteString(commonThemes(reviews, false))
	}

	b.WriteString("Consider these factors when making your purchase decision.")

	return &ReviewSummary{
		ProductID:     product.ID,
		Summary:       b.String(),
		Sentiment:     sentiment,
		ReviewCount:   stats.ReviewCount,
		AverageRating: stats.AverageRating,
		GeneratedAt:   now,
	}
}

func sentimentFor(avgRating float64) string {
	switch {
	case avgRating >= 4.0:
		return "overwhelmingly positive"
	case avgRating >= 3.5:
		return "generally positive"
	case avgRating >= 2.5:
		return "mixed"
	default:
		return "generally negative"
	}
}

// commonThemes inspects the comments of positive (4-5 star) or negative
// (1-2 star) reviews for recurring topics.
func commonThemes(reviews []domain.Review, positive bool) string {
	var comments []string
	for _, rv := range reviews {
		if positive && rv.Rating >= 4 || !positive && rv.Rating <= 2 {
			comments = append(comments, strings.ToLower(rv.Comment))
		}
	}
	if len(comments) == 0 {
		return ""
	}

	mentions := func(words ...string) bool {
		for _, c := range comments {
			for _, w := range words {
				if strings.Contains(c, w) {
					return true
				}
			}
		}
		return false
	}

	if positive {
		quality := mentions("quality", "great", "excellent")
		performance := mentions("performance", "fast", "speed")
		design := mentions("design", "look", "beautiful")

		switch {
		case quality && performance:
			return "Customers praise the excellent quality and strong performance. "
		case quality && design:
			return "Users appreciate the high quality and attractive design. "
		case quality:
			return "The product quality receives consistent praise. "
		case performance:
			return "Performance is highlighted as a key strength. "
		case design:
			return "The design and aesthetics are well-received. "
		default:
			return "Most customers report positive experiences. "
		}
	}

	price := mentions("expensive", "price", "cost")
	battery := mentions("battery")
	bugs := mentions("bug", "issue", "problem")

	switch {
	case price && battery:
		return "Some customers feel the price is high and mention battery concerns. "
	case price:
		return "The main complaint centers around the price point. "
	case battery:
		return "Battery life is a common concern among users. "
	case bugs:
		return "Several users report technical issues or bugs. "
	default:
		return "Some customers have expressed concerns. "
	}
}

func answerQuestion(question string, reviews []domain.Review) string {
	if len(reviews) == 0 {
		return "I couldn't find any reviews for this product to analyze."
	}

	q := strings.ToLower(question)
	total := len(reviews)

	if strings.Contains(q, "how many") {
		return fmt.Sprintf("There are %d reviews for this product.", total)
	}

	if strings.Contains(q, "quality") || strings.Contains(q, "good") {
		positive := 0
		for _, rv := range reviews {
			if rv.Rating >= 4 {
				positive++
			}
		}
		ratio := float64(positive) / float64(total)

		switch {
		case ratio >= 0.7:
			return fmt.Sprintf("Customers are very happy with the quality! %d out of %d reviews are positive (4-5 stars).", positive, total)
		case ratio >= 0.4:
			return fmt.Sprintf("Opinions are mixed regarding quality. %d out of %d reviews are positive, but some users have concerns.", positive, total)
		default:
			return fmt.Sprintf("Many customers have concerns about the quality. Only %d out of %d reviews are positive.", positive, total)
		}
	}

	if strings.Contains(q, "complaint") || strings.Contains(q, "bad") {
		negative := 0
		for _, rv := range reviews {
			if rv.Rating <= 2 {
				negative++
			}
		}
		if negative == 0 {
			return "I didn't find any major complaints in the reviews!"
		}
		return fmt.Sprintf("There are %d negative reviews (1-2 stars). Some users mentioned issues with delivery or product defects.", negative)
	}

	return "That's an interesting question! Based on the reviews, customers generally have mixed to positive feelings about this product."
}
