package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type SeatClass string

const (
	SeatRegular SeatClass = "regular"
	SeatVIP     SeatClass = "vip"
)

type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatOccupied    SeatStatus = "occupied"
	SeatMaintenance SeatStatus = "maintenance"
)

type Seat struct {
	ID     int64
	Code   string // row letter(s) + number, e.g. "A12"
	Row    string
	Number int
	Class  SeatClass
	Status SeatStatus
}

// Selectable reports whether the seat can be toggled into a selection.
// A seat qualifies only when the studio inventory says available and the
// booked overlay has no record of it. Maintenance wins unconditionally,
// overlay membership or not.
func (s Seat) Selectable(overlay Overlay) bool {
	return s.Status == SeatAvailable && !overlay.Contains(s.Code)
}

// SeatRowOf extracts the leading row letters from a seat code. "A12" -> "A".
func SeatRowOf(code string) string {
	i := 0
	for i < len(code) && code[i] >= 'A' && code[i] <= 'Z' {
		i++
	}
	return code[:i]
}

// SeatNumberOf extracts the trailing number from a seat code. "A12" -> 12.
func SeatNumberOf(code string) int {
	n, _ := strconv.Atoi(strings.TrimLeft(code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	return n
}

const (
	placeholderRows = "ABCDE"
	placeholderCols = 10
)

// PlaceholderSeats synthesizes a fixed layout used when the studio inventory
// fetch fails, so the seat map stays exercisable in a degraded mode. Callers
// must surface the layout as non-authoritative.
func PlaceholderSeats() []Seat {
	seats := make([]Seat, 0, len(placeholderRows)*placeholderCols)

	for _, row := range placeholderRows {
		for col := 1; col <= placeholderCols; col++ {
			seats = append(seats, Seat{
				Code:   fmt.Sprintf("%c%d", row, col),
				Row:    string(row),
				Number: col,
				Class:  SeatRegular,
				Status: SeatAvailable,
			})
		}
	}

	return seats
}

// Overlay is the best-effort set of seat codes already committed to a paying
// customer for one specific showing. Partial means the source could not see
// other sessions' bookings (or every source failed), so absence from the set
// proves nothing.
type Overlay struct {
	Codes   map[string]bool `json:"codes"`
	Partial bool            `json:"partial"`
	Source  string          `json:"source"`
}

func NewOverlay(codes []string, source string, partial bool) Overlay {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}

	return Overlay{Codes: set, Partial: partial, Source: source}
}

func (o Overlay) Contains(code string) bool {
	return o.Codes[code]
}

type SeatService interface {
	SeatsByStudio(ctx context.Context, studioID int64) ([]Seat, error)
	GenerateSeats(ctx context.Context, studioID int64) error
}
