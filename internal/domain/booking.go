package domain

import (
	"context"
	"time"
)

// CheckoutPayload is the immutable package handed to the payment step. It is
// built only after BeginCheckout validated the flow, so every identifier in
// it is resolved.
type CheckoutPayload struct {
	MovieID        int64
	ScheduleID     int64
	StudioID       int64
	Seats          []string
	TotalPrice     int64
	CustomerName   string
	CustomerPhone  string
	PaymentMethod  string
	IdempotencyKey string
}

// PaymentRecord is one entry of the backend's general payment/booking list,
// used as the second overlay tier when no showing-scoped endpoint answers.
type PaymentRecord struct {
	BookingID  string
	ScheduleID int64
	StudioID   int64
	Time       string
	Status     string
	Seats      []string
}

// Confirmed reports whether the record represents a committed, paid booking.
func (p PaymentRecord) Confirmed() bool {
	switch p.Status {
	case "paid", "confirmed", "settled":
		return true
	}

	return false
}

// MatchesShowing compares on the server-issued schedule id when both sides
// carry one, falling back to the studio+time compat key otherwise.
func (p PaymentRecord) MatchesShowing(showing Showing) bool {
	if p.ScheduleID > 0 && showing.Resolved() {
		return p.ScheduleID == showing.ScheduleID
	}

	if p.StudioID == 0 || p.Time == "" {
		return false
	}

	return Showing{StudioID: p.StudioID, Time: p.Time}.Key() == showing.Key()
}

// BookingConfirmation is the server's authoritative record of a completed,
// paid booking. Rendered verbatim on the invoice; never modified locally.
type BookingConfirmation struct {
	BookingID     string    `json:"booking_id"`
	MovieTitle    string    `json:"movie_title"`
	StudioName    string    `json:"studio_name"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Seats         []string  `json:"seats"`
	CustomerName  string    `json:"customer_name"`
	PaymentMethod string    `json:"payment_method"`
	TotalCharged  int64     `json:"total_charged"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingService interface {
	BookedSeats(ctx context.Context, scheduleID int64) ([]string, error)
	Payments(ctx context.Context) ([]PaymentRecord, error)
	ProcessPayment(ctx context.Context, payload CheckoutPayload) (*BookingConfirmation, error)
}

type FlowStore interface {
	Get(ctx context.Context, sessionID string) (*Flow, error)
	Save(ctx context.Context, sessionID string, flow *Flow) error
	Delete(ctx context.Context, sessionID string) error
}

type InvoiceStore interface {
	Save(ctx context.Context, sessionID string, confirmation BookingConfirmation) error
	Get(ctx context.Context, sessionID, bookingID string) (*BookingConfirmation, error)
}

// BookingCache remembers the session's own recent bookings. It is the last
// overlay tier and explicitly partial: it knows nothing about other sessions.
type BookingCache interface {
	Record(ctx context.Context, sessionID string, scheduleID int64, seatCodes []string) error
	SeatCodes(ctx context.Context, sessionID string, scheduleID int64) ([]string, error)
}
