package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/bioskopid/counter-gateway/internal/mocks"
	"github.com/bioskopid/counter-gateway/internal/overlay"
	appvalidator "github.com/bioskopid/counter-gateway/internal/validator"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := &application{
		config:         config{env: "test"},
		logger:         logger,
		validator:      appvalidator.NewValidator(),
		sessionManager: scs.New(),
		catalog:        new(mocks.MockCatalogService),
		seats:          new(mocks.MockSeatService),
		bookings:       new(mocks.MockBookingService),
		flowStore:      mocks.NewInMemoryFlowStore(),
		invoiceStore:   mocks.NewInMemoryInvoiceStore(),
		bookingCache:   mocks.NewInMemoryBookingCache(),
	}

	app.sessionManager.Cookie.Name = "counter_session"

	app.reconciler = overlay.NewReconciler(logger, 0,
		&overlay.ShowingEndpoint{Bookings: app.bookings},
		&overlay.PaymentScan{Bookings: app.bookings},
		&overlay.RecentBookings{Cache: app.bookingCache},
	)

	return app
}

// seedSession commits an empty session up front so tests can key the flow
// store by a token they know, then attach the matching cookie to requests.
func seedSession(t *testing.T, app *application) (string, *http.Cookie) {
	t.Helper()

	ctx, err := app.sessionManager.Load(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	app.sessionManager.Put(ctx, SessionKeyCounter.String(), true)

	token, _, err := app.sessionManager.Commit(ctx)
	if err != nil {
		t.Fatal(err)
	}

	return token, &http.Cookie{Name: app.sessionManager.Cookie.Name, Value: token}
}

func newJSONRequest(t *testing.T, method, target string, body any, cookie *http.Cookie) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	return req
}

func executeRequest(app *application, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.routes().ServeHTTP(rr, req)

	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := json.NewDecoder(rr.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func checkStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()

	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rr.Code, want, rr.Body.String())
	}
}

var testShowing = domain.Showing{
	ScheduleID: 3,
	MovieID:    7,
	StudioID:   1,
	StudioName: "Studio 1",
	Date:       "2026-09-01",
	Time:       "14:00",
	BasePrice:  50000,
}

var testMovie = domain.Movie{ID: 7, Title: "Test Film", Genre: "drama", Duration: 120}

func testSeats() []domain.Seat {
	return []domain.Seat{
		{ID: 1, Code: "A1", Row: "A", Number: 1, Class: domain.SeatRegular, Status: domain.SeatAvailable},
		{ID: 2, Code: "A2", Row: "A", Number: 2, Class: domain.SeatVIP, Status: domain.SeatAvailable},
		{ID: 3, Code: "A3", Row: "A", Number: 3, Class: domain.SeatRegular, Status: domain.SeatOccupied},
		{ID: 4, Code: "B1", Row: "B", Number: 1, Class: domain.SeatRegular, Status: domain.SeatMaintenance},
		{ID: 5, Code: "B2", Row: "B", Number: 2, Class: domain.SeatRegular, Status: domain.SeatAvailable},
	}
}

// seedLoadedFlow puts a flow with a selected showing and committed seat
// snapshot directly into the store, keyed by the given session token.
func seedLoadedFlow(t *testing.T, app *application, token string, seatOverlay domain.Overlay) *domain.Flow {
	t.Helper()

	flow := domain.NewFlow(token)
	flow.SelectShowing(testMovie, testShowing)

	if err := flow.LoadSeats(flow.Generation, testSeats(), seatOverlay, false); err != nil {
		t.Fatal(err)
	}

	if err := app.flowStore.Save(context.Background(), token, flow); err != nil {
		t.Fatal(err)
	}

	return flow
}
