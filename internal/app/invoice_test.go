package app

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestGetInvoiceHandler(t *testing.T) {
	t.Run("returns the stored confirmation", func(t *testing.T) {
		app := newTestApplication(t)
		token, cookie := seedSession(t, app)

		confirmation := testConfirmation()
		if err := app.invoiceStore.Save(context.Background(), token, *confirmation); err != nil {
			t.Fatal(err)
		}

		rr := executeRequest(app, newJSONRequest(t, http.MethodGet, "/invoices/BK-2026-0042", nil, cookie))

		checkStatus(t, rr, http.StatusOK)

		var resp InvoiceResponse
		decodeResponse(t, rr, &resp)

		if resp.Confirmation.BookingID != "BK-2026-0042" {
			t.Errorf("booking id = %q, want BK-2026-0042", resp.Confirmation.BookingID)
		}

		if resp.Confirmation.TotalCharged != 120000 {
			t.Errorf("total charged = %d, want 120000", resp.Confirmation.TotalCharged)
		}
	})

	t.Run("unknown booking is a 404", func(t *testing.T) {
		app := newTestApplication(t)
		_, cookie := seedSession(t, app)

		rr := executeRequest(app, newJSONRequest(t, http.MethodGet, "/invoices/BK-0000-0000", nil, cookie))

		checkStatus(t, rr, http.StatusNotFound)
	})

	t.Run("invoices are scoped to the owning session", func(t *testing.T) {
		app := newTestApplication(t)

		// Stored under one session, requested by another.
		ownerToken, _ := seedSession(t, app)
		if err := app.invoiceStore.Save(context.Background(), ownerToken, *testConfirmation()); err != nil {
			t.Fatal(err)
		}

		_, otherCookie := seedSession(t, app)

		rr := executeRequest(app, newJSONRequest(t, http.MethodGet, "/invoices/BK-2026-0042", nil, otherCookie))

		checkStatus(t, rr, http.StatusNotFound)
	})
}

func TestGetInvoicePDFHandler(t *testing.T) {
	app := newTestApplication(t)
	token, cookie := seedSession(t, app)

	if err := app.invoiceStore.Save(context.Background(), token, *testConfirmation()); err != nil {
		t.Fatal(err)
	}

	rr := executeRequest(app, newJSONRequest(t, http.MethodGet, "/invoices/BK-2026-0042/ticket.pdf", nil, cookie))

	checkStatus(t, rr, http.StatusOK)

	if got := rr.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", got)
	}

	if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, "ticket-BK-2026-0042.pdf") {
		t.Errorf("Content-Disposition = %q, want the booking id in the filename", got)
	}

	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Error("response body is not a PDF document")
	}
}
