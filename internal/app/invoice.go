package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/bioskopid/counter-gateway/internal/invoice"
	"github.com/go-chi/chi/v5"
)

type InvoiceResponse struct {
	Confirmation domain.BookingConfirmation `json:"confirmation"`
}

// GetInvoiceHandler re-renders a confirmation the session paid for earlier.
// The record is served verbatim as the backend issued it.
func (app *application) GetInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	confirmation, ok := app.lookupInvoice(w, r)
	if !ok {
		return
	}

	err := app.writeJSON(w, http.StatusOK, InvoiceResponse{Confirmation: *confirmation}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetInvoicePDFHandler(w http.ResponseWriter, r *http.Request) {
	confirmation, ok := app.lookupInvoice(w, r)
	if !ok {
		return
	}

	pdfBytes, err := invoice.RenderPDF(*confirmation)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=ticket-%s.pdf", confirmation.BookingID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func (app *application) lookupInvoice(w http.ResponseWriter, r *http.Request) (*domain.BookingConfirmation, bool) {
	bookingID := chi.URLParam(r, "bookingID")
	if bookingID == "" {
		app.badRequestResponse(w, r, fmt.Errorf("missing booking ID"))
		return nil, false
	}

	confirmation, err := app.invoiceStore.Get(r.Context(), app.sessionID(r), bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			app.notFoundResponse(w, r)
			return nil, false
		}
		app.serverErrorResponse(w, r, err)
		return nil, false
	}

	return confirmation, true
}
