package overlay

import (
	"context"

	"github.com/bioskopid/counter-gateway/internal/domain"
)

// ShowingEndpoint asks the backend's showing-scoped booked-seats endpoint
// directly. Preferred tier.
type ShowingEndpoint struct {
	Bookings domain.BookingService
}

func (s *ShowingEndpoint) Name() string  { return "showing_endpoint" }
func (s *ShowingEndpoint) Partial() bool { return false }

func (s *ShowingEndpoint) Fetch(ctx context.Context, _ string, showing domain.Showing) ([]string, error) {
	if !showing.Resolved() {
		return nil, domain.ErrShowingUnresolved
	}

	return s.Bookings.BookedSeats(ctx, showing.ScheduleID)
}

// PaymentScan pulls the general payment list and filters it client-side to
// confirmed records of this showing, flattening their seat references.
type PaymentScan struct {
	Bookings domain.BookingService
}

func (s *PaymentScan) Name() string  { return "payment_scan" }
func (s *PaymentScan) Partial() bool { return false }

func (s *PaymentScan) Fetch(ctx context.Context, _ string, showing domain.Showing) ([]string, error) {
	records, err := s.Bookings.Payments(ctx)
	if err != nil {
		return nil, err
	}

	var codes []string
	for _, record := range records {
		if !record.Confirmed() || !record.MatchesShowing(showing) {
			continue
		}
		codes = append(codes, record.Seats...)
	}

	return codes, nil
}

// RecentBookings is the last-resort tier: the session's own cached bookings.
// It cannot see other sessions, so its result is always partial.
type RecentBookings struct {
	Cache domain.BookingCache
}

func (s *RecentBookings) Name() string  { return "recent_bookings" }
func (s *RecentBookings) Partial() bool { return true }

func (s *RecentBookings) Fetch(ctx context.Context, sessionID string, showing domain.Showing) ([]string, error) {
	return s.Cache.SeatCodes(ctx, sessionID, showing.ScheduleID)
}
