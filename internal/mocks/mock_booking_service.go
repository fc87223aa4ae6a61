package mocks

import (
	"context"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingService struct {
	mock.Mock
	domain.BookingService
}

func (m *MockBookingService) BookedSeats(ctx context.Context, scheduleID int64) ([]string, error) {
	args := m.Called(ctx, scheduleID)

	if codes := args.Get(0); codes != nil {
		return codes.([]string), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBookingService) Payments(ctx context.Context) ([]domain.PaymentRecord, error) {
	args := m.Called(ctx)

	if records := args.Get(0); records != nil {
		return records.([]domain.PaymentRecord), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBookingService) ProcessPayment(ctx context.Context, payload domain.CheckoutPayload) (*domain.BookingConfirmation, error) {
	args := m.Called(ctx, payload)

	if confirmation := args.Get(0); confirmation != nil {
		return confirmation.(*domain.BookingConfirmation), args.Error(1)
	}

	return nil, args.Error(1)
}
