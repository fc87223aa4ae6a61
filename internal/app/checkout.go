package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/bioskopid/counter-gateway/internal/upstream"
	"github.com/google/uuid"
)

const (
	CheckoutModeCounter = "counter"
	CheckoutModeSelf    = "self"
)

type CheckoutRequest struct {
	Mode          string `json:"mode" validate:"omitempty,oneof=counter self"`
	CustomerName  string `json:"customer_name" validate:"omitempty,min=2,max=100"`
	CustomerPhone string `json:"customer_phone" validate:"omitempty,phone"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash debit credit qris"`
}

type CheckoutResponse struct {
	Confirmation domain.BookingConfirmation `json:"confirmation"`
}

type CheckoutRejectedResponse struct {
	Message      string   `json:"message"`
	DroppedSeats []string `json:"dropped_seats,omitempty"`
}

// CheckoutHandler validates the flow, packages the immutable checkout
// payload, and submits the payment. The backend performs the authoritative
// seat check here; selection was only ever optimistic.
func (app *application) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.logger

	var input CheckoutRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.Mode == "" {
		input.Mode = CheckoutModeCounter
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	// Counter flows identify the customer by entered fields; self-service
	// flows by the session's own upstream credentials.
	if input.Mode == CheckoutModeCounter && (input.CustomerName == "" || input.CustomerPhone == "") {
		app.unprocessableEntityResponse(w, r, fmt.Errorf("customer name and phone are required for counter checkout"))
		return
	}

	ctx := r.Context()

	if input.Mode == CheckoutModeSelf {
		token := app.upstreamToken(r)
		if token == "" {
			app.errorResponse(w, r, http.StatusUnauthorized, "sign in before self-service checkout")
			return
		}
		ctx = upstream.ContextWithToken(ctx, token)
	}

	sessionID := app.sessionID(r)

	flow, err := app.requireFlow(ctx, sessionID)
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	err = flow.BeginCheckout()
	if err != nil {
		// Integrity errors: surfaced to the user, no network call made.
		app.flowErrorResponse(w, r, err)
		return
	}

	err = app.flowStore.Save(ctx, sessionID, flow)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	breakdown := flow.Breakdown()

	payload := domain.CheckoutPayload{
		MovieID:        flow.Showing.MovieID,
		ScheduleID:     flow.Showing.ScheduleID,
		StudioID:       flow.Showing.StudioID,
		Seats:          flow.Selection.Codes(),
		TotalPrice:     breakdown.GrandTotal,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		PaymentMethod:  input.PaymentMethod,
		IdempotencyKey: uuid.New().String(),
	}

	confirmation, err := app.bookings.ProcessPayment(ctx, payload)
	if err != nil {
		app.paymentFailed(w, r, flow, sessionID, err)
		return
	}

	flow.Complete()

	err = app.flowStore.Save(ctx, sessionID, flow)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Best-effort bookkeeping; a confirmed payment is never failed over it.
	if err := app.bookingCache.Record(ctx, sessionID, payload.ScheduleID, payload.Seats); err != nil {
		logger.Error("failed to record booking in recent-bookings cache", "error", err)
	}

	if err := app.invoiceStore.Save(ctx, sessionID, *confirmation); err != nil {
		logger.Error("failed to store invoice", "booking_id", confirmation.BookingID, "error", err)
	}

	logger.Info("booking confirmed",
		"booking_id", confirmation.BookingID,
		"schedule_id", payload.ScheduleID,
		"seats", len(payload.Seats),
		"total", confirmation.TotalCharged,
	)

	err = app.writeJSON(w, http.StatusCreated, CheckoutResponse{Confirmation: *confirmation}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// paymentFailed unwinds a rejected or failed submission. A domain rejection
// (e.g. a seat booked by another client in the meantime) returns the
// backend's message verbatim, refreshes the overlay, and drops the seats
// that are no longer selectable so the user lands back on seat selection
// with a truthful map.
func (app *application) paymentFailed(w http.ResponseWriter, r *http.Request, flow *domain.Flow, sessionID string, err error) {
	flow.CancelCheckout()

	var domainErr *upstream.DomainError

	switch {
	case errors.Is(err, upstream.ErrSessionExpired):
		if saveErr := app.flowStore.Save(r.Context(), sessionID, flow); saveErr != nil {
			app.logError(r, saveErr)
		}
		app.sessionExpiredResponse(w, r)

	case errors.As(err, &domainErr):
		flow.Overlay = app.reconciler.Resolve(r.Context(), sessionID, *flow.Showing)
		dropped := flow.PruneSelection()

		if saveErr := app.flowStore.Save(r.Context(), sessionID, flow); saveErr != nil {
			app.serverErrorResponse(w, r, saveErr)
			return
		}

		app.logger.Warn("payment rejected by backend",
			"schedule_id", flow.Showing.ScheduleID,
			"message", domainErr.Message,
			"dropped_seats", dropped,
		)

		resp := CheckoutRejectedResponse{
			Message:      domainErr.Message,
			DroppedSeats: dropped,
		}

		if writeErr := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil); writeErr != nil {
			app.serverErrorResponse(w, r, writeErr)
		}

	case upstream.IsTransport(err):
		if saveErr := app.flowStore.Save(r.Context(), sessionID, flow); saveErr != nil {
			app.logError(r, saveErr)
		}
		app.logError(r, err)
		app.retryableErrorResponse(w, r, http.StatusBadGateway, ErrUpstreamUnreachble, true)

	default:
		if saveErr := app.flowStore.Save(r.Context(), sessionID, flow); saveErr != nil {
			app.logError(r, saveErr)
		}
		app.serverErrorResponse(w, r, err)
	}
}
