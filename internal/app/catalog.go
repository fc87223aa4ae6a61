package app

import (
	"net/http"
	"strconv"

	"github.com/bioskopid/counter-gateway/internal/domain"
)

type MovieResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Synopsis  string `json:"synopsis"`
	Genre     string `json:"genre"`
	Duration  int    `json:"duration"`
	Rating    string `json:"rating"`
	PosterUrl string `json:"poster_url"`
}

type ShowingResponse struct {
	ScheduleID int64  `json:"schedule_id"`
	MovieID    int64  `json:"movie_id"`
	StudioID   int64  `json:"studio_id"`
	StudioName string `json:"studio_name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	BasePrice  int64  `json:"base_price"`
}

type ShowingListResponse struct {
	Showings []ShowingResponse `json:"showings"`
}

type StudioResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SeatCount int    `json:"seat_count"`
}

type StudioListResponse struct {
	Studios []StudioResponse `json:"studios"`
}

type showingsParams struct {
	Date     string `validate:"required,show_date"`
	StudioID int64  `validate:"omitempty,gt=0"`
}

func (app *application) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.catalog.Film(r.Context(), movieID)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	resp := MovieResponse{
		ID:        movie.ID,
		Title:     movie.Title,
		Synopsis:  movie.Synopsis,
		Genre:     movie.Genre,
		Duration:  movie.Duration,
		Rating:    movie.Rating,
		PosterUrl: movie.PosterUrl,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetShowings lists the showings of a movie on a date. An empty list is a
// valid answer and renders as such; only transport and backend failures
// produce an error state with a retry affordance.
func (app *application) GetShowings(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	params := showingsParams{Date: r.URL.Query().Get("date")}
	if raw := r.URL.Query().Get("studio_id"); raw != "" {
		params.StudioID, _ = strconv.ParseInt(raw, 10, 64)
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	showings, err := app.catalog.Schedules(r.Context(), movieID, params.Date, params.StudioID)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	resp := ShowingListResponse{Showings: make([]ShowingResponse, len(showings))}
	for i, showing := range showings {
		resp.Showings[i] = toShowingResponse(showing)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetStudios(w http.ResponseWriter, r *http.Request) {
	studios, err := app.catalog.Studios(r.Context())
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	resp := StudioListResponse{Studios: make([]StudioResponse, len(studios))}
	for i, studio := range studios {
		resp.Studios[i] = StudioResponse{ID: studio.ID, Name: studio.Name, SeatCount: studio.SeatCount}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toShowingResponse(showing domain.Showing) ShowingResponse {
	return ShowingResponse{
		ScheduleID: showing.ScheduleID,
		MovieID:    showing.MovieID,
		StudioID:   showing.StudioID,
		StudioName: showing.StudioName,
		Date:       showing.Date,
		Time:       showing.Time,
		BasePrice:  showing.BasePrice,
	}
}
