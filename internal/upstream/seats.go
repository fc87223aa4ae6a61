package upstream

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/bioskopid/counter-gateway/internal/domain"
)

type seatDTO struct {
	ID       int64  `json:"id"`
	SeatCode string `json:"seat_code"`
	Class    string `json:"class"`
	Status   string `json:"status"`
}

// SeatsByStudio returns every seat of a studio with its current status and
// class. A studio with zero generated seats yields an empty, non-error slice.
func (c *Client) SeatsByStudio(ctx context.Context, studioID int64) ([]domain.Seat, error) {
	var dtos []seatDTO

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/seats/studio/%d", studioID), nil, nil, &dtos)
	if err != nil {
		return nil, err
	}

	seats := make([]domain.Seat, len(dtos))
	for i, dto := range dtos {
		seats[i] = domain.Seat{
			ID:     dto.ID,
			Code:   dto.SeatCode,
			Row:    domain.SeatRowOf(dto.SeatCode),
			Number: domain.SeatNumberOf(dto.SeatCode),
			Class:  toSeatClass(dto.Class),
			Status: toSeatStatus(dto.Status),
		}
	}

	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Number < seats[j].Number
	})

	return seats, nil
}

// GenerateSeats materializes the seat layout for an empty studio. Only
// offered when the inventory fetch succeeded with zero rows, never on
// failure.
func (c *Client) GenerateSeats(ctx context.Context, studioID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/seats/generate/%d", studioID), nil, nil, nil)
}

func toSeatClass(class string) domain.SeatClass {
	if class == "vip" {
		return domain.SeatVIP
	}

	return domain.SeatRegular
}

func toSeatStatus(status string) domain.SeatStatus {
	// The backend is inconsistent between "occupied" and "booked".
	switch status {
	case "occupied", "booked":
		return domain.SeatOccupied
	case "maintenance":
		return domain.SeatMaintenance
	default:
		return domain.SeatAvailable
	}
}
