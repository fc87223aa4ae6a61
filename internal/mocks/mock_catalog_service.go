package mocks

import (
	"context"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
	domain.CatalogService
}

func (m *MockCatalogService) Film(ctx context.Context, movieID int64) (*domain.Movie, error) {
	args := m.Called(ctx, movieID)

	if movie := args.Get(0); movie != nil {
		return movie.(*domain.Movie), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCatalogService) Schedules(ctx context.Context, movieID int64, date string, studioID int64) ([]domain.Showing, error) {
	args := m.Called(ctx, movieID, date, studioID)

	if showings := args.Get(0); showings != nil {
		return showings.([]domain.Showing), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCatalogService) Studios(ctx context.Context) ([]domain.Studio, error) {
	args := m.Called(ctx)

	if studios := args.Get(0); studios != nil {
		return studios.([]domain.Studio), args.Error(1)
	}

	return nil, args.Error(1)
}
