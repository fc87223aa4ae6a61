package mocks

import (
	"context"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatService struct {
	mock.Mock
	domain.SeatService
}

func (m *MockSeatService) SeatsByStudio(ctx context.Context, studioID int64) ([]domain.Seat, error) {
	args := m.Called(ctx, studioID)

	if seats := args.Get(0); seats != nil {
		return seats.([]domain.Seat), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSeatService) GenerateSeats(ctx context.Context, studioID int64) error {
	args := m.Called(ctx, studioID)
	return args.Error(0)
}
