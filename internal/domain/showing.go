package domain

import (
	"context"
	"fmt"
)

type Movie struct {
	ID        int64
	Title     string
	Synopsis  string
	Genre     string
	Duration  int
	Rating    string
	PosterUrl string
}

type Studio struct {
	ID        int64
	Name      string
	SeatCount int
}

// Showing is one scheduled screening. The canonical identifier is the
// server-issued schedule id; some upstream payloads omit it, in which case
// Key() provides a studio+time compat key used only for overlay matching and
// never sent back to the backend.
type Showing struct {
	ScheduleID int64
	MovieID    int64
	StudioID   int64
	StudioName string
	Date       string // calendar date, formatted 2006-01-02
	Time       string // wall-clock start, formatted 15:04
	BasePrice  int64  // smallest whole currency unit
}

func (s Showing) Key() string {
	return fmt.Sprintf("%d@%s", s.StudioID, s.Time)
}

func (s Showing) Resolved() bool {
	return s.ScheduleID > 0
}

type CatalogService interface {
	Film(ctx context.Context, movieID int64) (*Movie, error)
	Schedules(ctx context.Context, movieID int64, date string, studioID int64) ([]Showing, error)
	Studios(ctx context.Context) ([]Studio, error)
}
