package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	"github.com/utafrali/ProductReviewGo/pkg/database"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockProductRepo) LockByID(ctx context.Context, q database.DBTX, id uuid.UUID) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *mockProductRepo) UpdateStats(ctx context.Context, q database.DBTX, id uuid.UUID, averageRating float64, reviewCount int) error {
	args := m.Called(ctx, q, id, averageRating, reviewCount)
	return args.Error(0)
}

func (m *mockProductRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, q database.DBTX, review *domain.Review) error {
	args := m.Called(ctx, q, review)
	return args.Error(0)
}

func (m *mockReviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	args := m.Called(ctx, productID, filter)
	if r := args.Get(0); r != nil {
		return r.([]domain.Review), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) RatingsByProduct(ctx context.Context, q database.DBTX, productID uuid.UUID) ([]int, error) {
	args := m.Called(ctx, q, productID)
	if r := args.Get(0); r != nil {
		return r.([]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReviewRepo) CountByRating(ctx context.Context, productID uuid.UUID) (map[int]int, error) {
	args := m.Called(ctx, productID)
	if r := args.Get(0); r != nil {
		return r.(map[int]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReviewRepo) IncrementHelpful(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	if r := args.Get(0); r != nil {
		return r.(*domain.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) ReviewCreated(ctx context.Context, review *domain.Review) {
	m.Called(ctx, review)
}

func (m *mockEventPublisher) StatsUpdated(ctx context.Context, productID uuid.UUID, stats domain.Stats) {
	m.Called(ctx, productID, stats)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) ReviewCreated(ctx context.Context, product *domain.Product, review *domain.Review) {
	m.Called(ctx, product, review)
}

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) InvalidateSummary(ctx context.Context, productID uuid.UUID) {
	m.Called(ctx, productID)
}
