package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bioskopid/counter-gateway/internal/domain"
)

type bookedSeatDTO struct {
	SeatCode string `json:"seat_code"`
}

type paymentRecordDTO struct {
	BookingCode string          `json:"booking_code"`
	ScheduleID  int64           `json:"schedule_id"`
	StudioID    int64           `json:"studio_id"`
	Time        string          `json:"time"`
	Status      string          `json:"status"`
	Seats       []bookedSeatDTO `json:"seats"`
}

type processPaymentRequest struct {
	ScheduleID     int64    `json:"schedule_id"`
	FilmID         int64    `json:"film_id"`
	StudioID       int64    `json:"studio_id"`
	Seats          []string `json:"seats"`
	TotalPrice     int64    `json:"total_price"`
	CustomerName   string   `json:"customer_name,omitempty"`
	CustomerPhone  string   `json:"customer_phone,omitempty"`
	PaymentMethod  string   `json:"payment_method"`
	IdempotencyKey string   `json:"idempotency_key"`
}

type confirmationDTO struct {
	BookingCode   string   `json:"booking_code"`
	FilmTitle     string   `json:"film_title"`
	StudioName    string   `json:"studio_name"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Seats         []string `json:"seats"`
	CustomerName  string   `json:"customer_name"`
	PaymentMethod string   `json:"payment_method"`
	TotalCharged  int64    `json:"total_charged"`
	CreatedAt     string   `json:"created_at"`
}

// BookedSeats queries the showing-scoped endpoint for seats already committed
// to this schedule. First and preferred overlay tier.
func (c *Client) BookedSeats(ctx context.Context, scheduleID int64) ([]string, error) {
	var dtos []bookedSeatDTO

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/schedule/%d/seats", scheduleID), nil, nil, &dtos)
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(dtos))
	for i, dto := range dtos {
		codes[i] = dto.SeatCode
	}

	return codes, nil
}

// Payments returns the general booking/payment list, the fallback source the
// overlay reconciler filters client-side.
func (c *Client) Payments(ctx context.Context) ([]domain.PaymentRecord, error) {
	var dtos []paymentRecordDTO

	err := c.do(ctx, http.MethodGet, "/bookings", nil, nil, &dtos)
	if err != nil {
		return nil, err
	}

	records := make([]domain.PaymentRecord, len(dtos))
	for i, dto := range dtos {
		seats := make([]string, len(dto.Seats))
		for j, seat := range dto.Seats {
			seats[j] = seat.SeatCode
		}

		records[i] = domain.PaymentRecord{
			BookingID:  dto.BookingCode,
			ScheduleID: dto.ScheduleID,
			StudioID:   dto.StudioID,
			Time:       dto.Time,
			Status:     dto.Status,
			Seats:      seats,
		}
	}

	return records, nil
}

// ProcessPayment submits the final booking and payment. The backend performs
// the authoritative seat-availability check here; a conflict comes back as a
// DomainError carrying the backend's message.
func (c *Client) ProcessPayment(ctx context.Context, payload domain.CheckoutPayload) (*domain.BookingConfirmation, error) {
	req := processPaymentRequest{
		ScheduleID:     payload.ScheduleID,
		FilmID:         payload.MovieID,
		StudioID:       payload.StudioID,
		Seats:          payload.Seats,
		TotalPrice:     payload.TotalPrice,
		CustomerName:   payload.CustomerName,
		CustomerPhone:  payload.CustomerPhone,
		PaymentMethod:  payload.PaymentMethod,
		IdempotencyKey: payload.IdempotencyKey,
	}

	var dto confirmationDTO

	err := c.do(ctx, http.MethodPost, "/payments/process", nil, req, &dto)
	if err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339, dto.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}

	return &domain.BookingConfirmation{
		BookingID:     dto.BookingCode,
		MovieTitle:    dto.FilmTitle,
		StudioName:    dto.StudioName,
		Date:          dto.Date,
		Time:          dto.Time,
		Seats:         dto.Seats,
		CustomerName:  dto.CustomerName,
		PaymentMethod: dto.PaymentMethod,
		TotalCharged:  dto.TotalCharged,
		CreatedAt:     createdAt,
	}, nil
}
