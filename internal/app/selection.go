package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bioskopid/counter-gateway/internal/domain"
)

type SelectShowingRequest struct {
	MovieID    int64  `json:"movie_id" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required,show_date"`
	ScheduleID int64  `json:"schedule_id" validate:"required,gt=0"`
}

type FlowResponse struct {
	Phase      domain.FlowPhase      `json:"phase"`
	Generation uint64                `json:"generation"`
	Showing    *ShowingResponse      `json:"showing,omitempty"`
	Selection  []string              `json:"selection"`
	Breakdown  domain.PriceBreakdown `json:"breakdown"`
}

type ToggleSeatRequest struct {
	Code string `json:"code" validate:"required,seat_code"`
}

type ToggleSeatResponse struct {
	Changed   bool                  `json:"changed"`
	Phase     domain.FlowPhase      `json:"phase"`
	Selection []string              `json:"selection"`
	Breakdown domain.PriceBreakdown `json:"breakdown"`
}

// SelectShowingHandler starts (or restarts) the booking flow for one
// showing. The showing is resolved server-side from the schedule list so the
// session can never inject its own price.
func (app *application) SelectShowingHandler(w http.ResponseWriter, r *http.Request) {
	var input SelectShowingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie, err := app.catalog.Film(r.Context(), input.MovieID)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	showings, err := app.catalog.Schedules(r.Context(), input.MovieID, input.Date, 0)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	var selected *domain.Showing
	for i := range showings {
		if showings[i].ScheduleID == input.ScheduleID {
			selected = &showings[i]
			break
		}
	}

	if selected == nil {
		app.notFoundResponseWithErr(w, r, fmt.Errorf("schedule %d not found for movie %d on %s", input.ScheduleID, input.MovieID, input.Date))
		return
	}

	sessionID := app.sessionID(r)

	flow, err := app.loadFlow(r.Context(), sessionID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	flow.SelectShowing(*movie, *selected)

	err = app.flowStore.Save(r.Context(), sessionID, flow)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toFlowResponse(flow), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ToggleSeatHandler adds or removes one seat from the selection. Toggling a
// non-selectable seat responds 200 with changed:false; the seat simply stays
// unavailable on the rendered map.
func (app *application) ToggleSeatHandler(w http.ResponseWriter, r *http.Request) {
	var input ToggleSeatRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	sessionID := app.sessionID(r)

	flow, err := app.requireFlow(r.Context(), sessionID)
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	changed, err := flow.ToggleSeat(input.Code)
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	if changed {
		err = app.flowStore.Save(r.Context(), sessionID, flow)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	resp := ToggleSeatResponse{
		Changed:   changed,
		Phase:     flow.Phase,
		Selection: flow.Selection.Codes(),
		Breakdown: flow.Breakdown(),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetBreakdownHandler(w http.ResponseWriter, r *http.Request) {
	flow, err := app.requireFlow(r.Context(), app.sessionID(r))
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toFlowResponse(flow), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CancelFlowHandler abandons the flow. Nothing was ever persisted upstream,
// so this only clears local session state.
func (app *application) CancelFlowHandler(w http.ResponseWriter, r *http.Request) {
	err := app.flowStore.Delete(r.Context(), app.sessionID(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// flowErrorResponse maps flow state-machine failures onto the error
// taxonomy: missing pre-conditions are integrity errors caught before any
// network call.
func (app *application) flowErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrFlowNotFound),
		errors.Is(err, domain.ErrNoShowingSelected):
		app.notFoundResponseWithErr(w, r, domain.ErrNoShowingSelected)
	case errors.Is(err, domain.ErrSeatsNotLoaded):
		app.unprocessableEntityResponse(w, r, err)
	case errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrShowingUnresolved):
		app.unprocessableEntityResponse(w, r, err)
	case errors.Is(err, domain.ErrCheckoutInProgress):
		app.editConflictResponseWithErr(w, r, err)
	case errors.Is(err, domain.ErrStaleGeneration):
		app.editConflictResponseWithErr(w, r, err)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func toFlowResponse(flow *domain.Flow) FlowResponse {
	resp := FlowResponse{
		Phase:      flow.Phase,
		Generation: flow.Generation,
		Selection:  flow.Selection.Codes(),
		Breakdown:  flow.Breakdown(),
	}

	if flow.Showing != nil {
		showing := toShowingResponse(*flow.Showing)
		resp.Showing = &showing
	}

	return resp
}
