package app

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/bioskopid/counter-gateway/internal/mocks"
	"github.com/bioskopid/counter-gateway/internal/upstream"
)

func seedFlowWithSelection(t *testing.T, app *application, token string, codes ...string) *domain.Flow {
	t.Helper()

	flow := seedLoadedFlow(t, app, token, domain.Overlay{})

	for _, code := range codes {
		changed, err := flow.ToggleSeat(code)
		if err != nil {
			t.Fatal(err)
		}
		if !changed {
			t.Fatalf("seat %s was not selectable in the test fixture", code)
		}
	}

	if err := app.flowStore.Save(context.Background(), token, flow); err != nil {
		t.Fatal(err)
	}

	return flow
}

func testConfirmation() *domain.BookingConfirmation {
	return &domain.BookingConfirmation{
		BookingID:     "BK-2026-0042",
		MovieTitle:    "Test Film",
		StudioName:    "Studio 1",
		Date:          "2026-09-01",
		Time:          "14:00",
		Seats:         []string{"A1", "A2"},
		CustomerName:  "Budi",
		PaymentMethod: "cash",
		TotalCharged:  120000,
		CreatedAt:     time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("confirmed payment hands the flow off and stores the invoice", func(t *testing.T) {
		app := newTestApplication(t)
		token, cookie := seedSession(t, app)
		seedFlowWithSelection(t, app, token, "A1", "A2")

		bookings := app.bookings.(*mocks.MockBookingService)
		bookings.On("ProcessPayment", mock.Anything, mock.MatchedBy(func(payload domain.CheckoutPayload) bool {
			return payload.ScheduleID == 3 &&
				payload.TotalPrice == 120000 &&
				len(payload.Seats) == 2 &&
				payload.IdempotencyKey != ""
		})).Return(testConfirmation(), nil)

		body := CheckoutRequest{CustomerName: "Budi", CustomerPhone: "081234567890", PaymentMethod: "cash"}
		rr := executeRequest(app, newJSONRequest(t, http.MethodPost, "/flow/checkout", body, cookie))

		checkStatus(t, rr, http.StatusCreated)

		var resp CheckoutResponse
		decodeResponse(t, rr, &resp)

		if resp.Confirmation.BookingID != "BK-2026-0042" {
			t.Errorf("booking id = %q, want BK-2026-0042", resp.Confirmation.BookingID)
		}

		flow, err := app.flowStore.Get(context.Background(), token)
		if err != nil {
			t.Fatal(err)
		}

		if flow.Phase != domain.PhaseHandedOff {
			t.Errorf("phase = %s, want %s", flow.Phase, domain.PhaseHandedOff)
		}

		if _, err := app.invoiceStore.Get(context.Background(), token, "BK-2026-0042"); err != nil {
			t.Errorf("invoice was not stored: %v", err)
		}

		cached, err := app.bookingCache.SeatCodes(context.Background(), token, 3)
		if err != nil {
			t.Fatal(err)
		}
		if len(cached) != 2 {
			t.Errorf("recent-bookings cache holds %d seats, want 2", len(cached))
		}
	})

	t.Run("empty selection never reaches the backend", func(t *testing.T) {
		app := newTestApplication(t)
		token, cookie := seedSession(t, app)
		seedLoadedFlow(t, app, token, domain.Overlay{})

		body := CheckoutRequest{CustomerName: "Budi", CustomerPhone: "081234567890", PaymentMethod: "cash"}
		rr := executeRequest(app, newJSONRequest(t, http.MethodPost, "/flow/checkout", body, cookie))

		checkStatus(t, rr, http.StatusUnprocessableEntity)

		app.bookings.(*mocks.MockBookingService).AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything)
	})

	t.Run("counter checkout requires customer identity", func(t *testing.T) {
		app := newTestApplication(t)
		token, cookie := seedSession(t, app)
		seedFlowWithSelection(t, app, token, "A1")

		body := CheckoutRequest{PaymentMethod: "cash"}
		rr := executeRequest(app, newJSONRequest(t, http.MethodPost, "/flow/checkout", body, cookie))

		checkStatus(t, rr, http.StatusUnprocessableEntity)

		app.bookings.(*mocks.MockBookingService).AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything)
	})

	t.Run("self checkout without a session token is unauthorized", func(t *testing.T) {
		app := newTestApplication(t)
		token, cookie := seedSession(t, app)
		seedFlowWithSelection(t, app, token, "A1")

		body := CheckoutRequest{Mode: CheckoutModeSelf, PaymentMethod: "qris"}
		rr := executeRequest(app, newJSONRequest(t, http.MethodPost, "/flow/checkout", body, cookie))

		checkStatus(t, rr, http.StatusUnauthorized)

		app.bookings.(*mocks.MockBookingService).AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything)
	})

	t.Run("backend rejection returns its message and drops the contested seats", func(t *testing.T) {
		app := newTestApplication(t)
		token, cookie := seedSession(t, app)
		seedFlowWithSelection(t, app, token, "A1", "A2")

		bookings := app.bookings.(*mocks.MockBookingService)
		bookings.On("ProcessPayment", mock.Anything, mock.Anything).
			Return(nil, &upstream.DomainError{Message: "Kursi sudah dipesan", StatusCode: http.StatusConflict})

		// The refreshed overlay shows another client now holds A2.
		bookings.On("BookedSeats", mock.Anything, int64(3)).Return([]string{"A2"}, nil)

		body := CheckoutRequest{CustomerName: "Budi", CustomerPhone: "081234567890", PaymentMethod: "cash"}
		rr := executeRequest(app, newJSONRequest(t, http.MethodPost, "/flow/checkout", body, cookie))

		checkStatus(t, rr, http.StatusUnprocessableEntity)

		var resp CheckoutRejectedResponse
		decodeResponse(t, rr, &resp)

		if resp.Message != "Kursi sudah dipesan" {
			t.Errorf("message = %q, want the backend message verbatim", resp.Message)
		}

		if len(resp.DroppedSeats) != 1 || resp.DroppedSeats[0] != "A2" {
			t.Errorf("dropped seats = %v, want [A2]", resp.DroppedSeats)
		}

		flow, err := app.flowStore.Get(context.Background(), token)
		if err != nil {
			t.Fatal(err)
		}

		if flow.Phase != domain.PhaseHasSelection {
			t.Errorf("phase = %s, want %s with the surviving seat", flow.Phase, domain.PhaseHasSelection)
		}

		if flow.Selection.Contains("A2") || !flow.Selection.Contains("A1") {
			t.Errorf("selection = %v, want only A1", flow.Selection.Codes())
		}
	})

	t.Run("transport failure keeps the selection and is retryable", func(t *testing.T) {
		app := newTestApplication(t)
		token, cookie := seedSession(t, app)
		seedFlowWithSelection(t, app, token, "A1", "A2")

		bookings := app.bookings.(*mocks.MockBookingService)
		bookings.On("ProcessPayment", mock.Anything, mock.Anything).
			Return(nil, &upstream.TransportError{Op: "POST /payments/process", Err: fmt.Errorf("connection refused")})

		body := CheckoutRequest{CustomerName: "Budi", CustomerPhone: "081234567890", PaymentMethod: "cash"}
		rr := executeRequest(app, newJSONRequest(t, http.MethodPost, "/flow/checkout", body, cookie))

		checkStatus(t, rr, http.StatusBadGateway)

		var resp ErrorResponse
		decodeResponse(t, rr, &resp)

		if !resp.Retryable {
			t.Error("transport failure must be marked retryable")
		}

		flow, err := app.flowStore.Get(context.Background(), token)
		if err != nil {
			t.Fatal(err)
		}

		if flow.Selection.Size() != 2 {
			t.Errorf("selection size = %d, want 2 kept for retry", flow.Selection.Size())
		}

		if flow.Phase == domain.PhaseSubmitting {
			t.Error("flow stuck in submitting after a failed attempt")
		}
	})

	t.Run("expired upstream session clears the stored token", func(t *testing.T) {
		app := newTestApplication(t)
		token, cookie := seedSession(t, app)
		seedFlowWithSelection(t, app, token, "A1")

		bookings := app.bookings.(*mocks.MockBookingService)
		bookings.On("ProcessPayment", mock.Anything, mock.Anything).Return(nil, upstream.ErrSessionExpired)

		body := CheckoutRequest{CustomerName: "Budi", CustomerPhone: "081234567890", PaymentMethod: "cash"}
		rr := executeRequest(app, newJSONRequest(t, http.MethodPost, "/flow/checkout", body, cookie))

		checkStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("unknown payment method fails validation", func(t *testing.T) {
		app := newTestApplication(t)
		token, cookie := seedSession(t, app)
		seedFlowWithSelection(t, app, token, "A1")

		body := CheckoutRequest{CustomerName: "Budi", CustomerPhone: "081234567890", PaymentMethod: "barter"}
		rr := executeRequest(app, newJSONRequest(t, http.MethodPost, "/flow/checkout", body, cookie))

		checkStatus(t, rr, http.StatusUnprocessableEntity)
	})
}
