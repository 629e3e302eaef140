package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/pkg/httputil"
	"github.com/utafrali/ProductReviewGo/pkg/pagination"
	"github.com/utafrali/ProductReviewGo/pkg/validator"
)

var reviewSortFields = []string{"created_at", "rating", "helpful_count"}

// ListReviews handles GET /api/v1/products/{id}/reviews
func (h *ProductHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	params := pagination.FromRequest(r)
	filter := repository.ReviewFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
		Sort:    pagination.SortFromRequest(r, reviewSortFields, "created_at"),
	}
	if raw := r.URL.Query().Get("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < domain.MinRating || rating > domain.MaxRating {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_PARAMETER",
					Message: "rating must be an integer between 1 and 5",
				},
			})
			return
		}
		filter.Rating = &rating
	}

	reviews, total, err := h.service.ListReviews(r.Context(), productID, filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(reviews, total, params))
}

// SubmitReview handles POST /api/v1/products/{id}/reviews
func (h *ProductHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var input domain.SubmitReviewInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.SubmitReview(r.Context(), productID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// MarkHelpful handles PUT /api/v1/reviews/{id}/helpful
func (h *ProductHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	review, err := h.service.MarkHelpful(r.Context(), reviewID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}
