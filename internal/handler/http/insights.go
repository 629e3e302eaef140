package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/utafrali/ProductReviewGo/internal/service"
	"github.com/utafrali/ProductReviewGo/pkg/httputil"
	"github.com/utafrali/ProductReviewGo/pkg/validator"
)

// InsightsService is the review analysis surface the handlers depend on.
type InsightsService interface {
	Summary(ctx context.Context, productID uuid.UUID) (*service.ReviewSummary, error)
	Ask(ctx context.Context, productID uuid.UUID, question string) (string, error)
}

// InsightsHandler handles HTTP requests for review insight endpoints.
type InsightsHandler struct {
	service InsightsService
	logger  *slog.Logger
}

// NewInsightsHandler creates a new insights HTTP handler.
func NewInsightsHandler(svc InsightsService, logger *slog.Logger) *InsightsHandler {
	return &InsightsHandler{service: svc, logger: logger}
}

// AskRequest is the JSON request body for asking about a product's reviews.
type AskRequest struct {
	Question string `json:"question" validate:"required,min=3,max=500"`
}

// AskResponse carries the generated answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// Summary handles GET /api/v1/products/{id}/reviews/summary
func (h *InsightsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// Ask handles POST /api/v1/products/{id}/reviews/ask
func (h *InsightsHandler) Ask(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AskRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	answer, err := h.service.Ask(r.Context(), productID, req.Question)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: AskResponse{Answer: answer}})
}
