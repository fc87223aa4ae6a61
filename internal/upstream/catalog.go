package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/bioskopid/counter-gateway/internal/domain"
)

type filmDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Synopsis  string `json:"synopsis"`
	Genre     string `json:"genre"`
	Duration  int    `json:"duration"`
	Rating    string `json:"rating"`
	PosterUrl string `json:"poster_url"`
}

type scheduleDTO struct {
	ID         int64  `json:"id"`
	FilmID     int64  `json:"film_id"`
	StudioID   int64  `json:"studio_id"`
	StudioName string `json:"studio_name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Price      int64  `json:"price"`
}

type studioDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SeatCount int    `json:"seat_count"`
}

func (c *Client) Film(ctx context.Context, movieID int64) (*domain.Movie, error) {
	var dto filmDTO

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/films/%d", movieID), nil, nil, &dto)
	if err != nil {
		return nil, err
	}

	return &domain.Movie{
		ID:        dto.ID,
		Title:     dto.Title,
		Synopsis:  dto.Synopsis,
		Genre:     dto.Genre,
		Duration:  dto.Duration,
		Rating:    dto.Rating,
		PosterUrl: dto.PosterUrl,
	}, nil
}

// Schedules lists the showings of one movie on one date. The backend's
// schedule endpoint is keyed by date and studio only, so the movie filter is
// applied here. An empty result is valid and distinct from failure.
func (c *Client) Schedules(ctx context.Context, movieID int64, date string, studioID int64) ([]domain.Showing, error) {
	query := url.Values{}
	query.Set("date", date)
	if studioID > 0 {
		query.Set("studio_id", strconv.FormatInt(studioID, 10))
	}

	var dtos []scheduleDTO

	err := c.do(ctx, http.MethodGet, "/jadwals/schedules", query, nil, &dtos)
	if err != nil {
		return nil, err
	}

	showings := make([]domain.Showing, 0, len(dtos))
	for _, dto := range dtos {
		if movieID > 0 && dto.FilmID != movieID {
			continue
		}

		showings = append(showings, domain.Showing{
			ScheduleID: dto.ID,
			MovieID:    dto.FilmID,
			StudioID:   dto.StudioID,
			StudioName: dto.StudioName,
			Date:       dto.Date,
			Time:       dto.Time,
			BasePrice:  dto.Price,
		})
	}

	sort.Slice(showings, func(i, j int) bool {
		if showings[i].Time != showings[j].Time {
			return showings[i].Time < showings[j].Time
		}
		return showings[i].StudioName < showings[j].StudioName
	})

	return showings, nil
}

func (c *Client) Studios(ctx context.Context) ([]domain.Studio, error) {
	var dtos []studioDTO

	err := c.do(ctx, http.MethodGet, "/studios-list", nil, nil, &dtos)
	if err != nil {
		return nil, err
	}

	studios := make([]domain.Studio, len(dtos))
	for i, dto := range dtos {
		studios[i] = domain.Studio{ID: dto.ID, Name: dto.Name, SeatCount: dto.SeatCount}
	}

	return studios, nil
}
