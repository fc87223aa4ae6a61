package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/bioskopid/counter-gateway/internal/upstream"
)

const overlayIncompleteNotice = "Booked-seat data may be incomplete; availability is confirmed at payment."

type SeatMapResponse struct {
	ScheduleID    int64     `json:"schedule_id"`
	StudioID      int64     `json:"studio_id"`
	StudioName    string    `json:"studio_name"`
	Generation    uint64    `json:"generation"`
	Placeholder   bool      `json:"placeholder"`
	CanGenerate   bool      `json:"can_generate"`
	OverlayNotice string    `json:"overlay_notice,omitempty"`
	SeatRows      []SeatRow `json:"seat_rows"`
	Selection     []string  `json:"selection"`
}

type SeatRow struct {
	Row   string        `json:"row"`
	Seats []SeatDisplay `json:"seats"`
}

type SeatDisplay struct {
	Code       string            `json:"code"`
	Number     int               `json:"number"`
	Class      domain.SeatClass  `json:"class"`
	Status     domain.SeatStatus `json:"status"`
	Selectable bool              `json:"selectable"`
	Selected   bool              `json:"selected"`
}

// GetSeatMapHandler loads the current showing's seat inventory and layers
// the booked overlay on top. The snapshot is committed into the flow only if
// the showing has not changed since the fetch started, so a slow response
// for a previously selected studio can never overwrite the current one.
func (app *application) GetSeatMapHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.logger

	sessionID := app.sessionID(r)

	flow, err := app.requireFlow(r.Context(), sessionID)
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	if flow.Showing == nil {
		app.flowErrorResponse(w, r, domain.ErrNoShowingSelected)
		return
	}

	generation := flow.Generation
	showing := *flow.Showing

	placeholder := false

	seats, err := app.seats.SeatsByStudio(r.Context(), showing.StudioID)
	if err != nil {
		switch {
		case upstream.IsTransport(err):
			// Degraded mode: keep the seat map exercisable, visibly
			// non-authoritative.
			logger.Warn("seat inventory unreachable, serving placeholder layout",
				"studio_id", showing.StudioID, "error", err)
			seats = domain.PlaceholderSeats()
			placeholder = true
		default:
			app.upstreamErrorResponse(w, r, err)
			return
		}
	}

	canGenerate := !placeholder && len(seats) == 0

	seatOverlay := domain.NewOverlay(nil, "none", true)
	if !placeholder && len(seats) > 0 {
		seatOverlay = app.reconciler.Resolve(r.Context(), sessionID, showing)
	}

	// Re-read before committing: the session may have switched showings
	// while the fetches above were in flight.
	flow, err = app.requireFlow(r.Context(), sessionID)
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	err = flow.LoadSeats(generation, seats, seatOverlay, placeholder)
	if err != nil {
		if errors.Is(err, domain.ErrStaleGeneration) {
			app.editConflictResponseWithErr(w, r, fmt.Errorf("the selected showing changed while the seat map was loading, please reload"))
			return
		}
		app.flowErrorResponse(w, r, err)
		return
	}

	err = app.flowStore.Save(r.Context(), sessionID, flow)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toSeatMapResponse(flow, canGenerate), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GenerateSeatsHandler materializes seats for a studio that genuinely has
// none. The affordance is re-checked server-side: it exists only for the
// confirmed zero-seat case, never as a response to a failed fetch.
func (app *application) GenerateSeatsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionID(r)

	flow, err := app.requireFlow(r.Context(), sessionID)
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	if flow.Showing == nil {
		app.flowErrorResponse(w, r, domain.ErrNoShowingSelected)
		return
	}

	seats, err := app.seats.SeatsByStudio(r.Context(), flow.Showing.StudioID)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	if len(seats) > 0 {
		app.badRequestResponse(w, r, fmt.Errorf("studio %d already has a seat layout", flow.Showing.StudioID))
		return
	}

	err = app.seats.GenerateSeats(r.Context(), flow.Showing.StudioID)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	app.logger.Info("generated seat layout", "studio_id", flow.Showing.StudioID)

	w.WriteHeader(http.StatusAccepted)
}

func toSeatMapResponse(flow *domain.Flow, canGenerate bool) SeatMapResponse {
	resp := SeatMapResponse{
		ScheduleID:  flow.Showing.ScheduleID,
		StudioID:    flow.Showing.StudioID,
		StudioName:  flow.Showing.StudioName,
		Generation:  flow.Generation,
		Placeholder: flow.Placeholder,
		CanGenerate: canGenerate,
		SeatRows:    toSeatRows(flow),
		Selection:   flow.Selection.Codes(),
	}

	if flow.Overlay.Partial {
		resp.OverlayNotice = overlayIncompleteNotice
	}

	return resp
}

func toSeatRows(flow *domain.Flow) []SeatRow {
	// Seats arrive pre-sorted by row and number, so a single pass groups
	// them without extra bookkeeping.

	if len(flow.Seats) == 0 {
		return nil
	}

	var seatRows []SeatRow
	currentRow := SeatRow{Row: flow.Seats[0].Row}

	for _, seat := range flow.Seats {
		if seat.Row != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = SeatRow{Row: seat.Row}
		}

		currentRow.Seats = append(currentRow.Seats, SeatDisplay{
			Code:       seat.Code,
			Number:     seat.Number,
			Class:      seat.Class,
			Status:     seat.Status,
			Selectable: seat.Selectable(flow.Overlay),
			Selected:   flow.Selection.Contains(seat.Code),
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
