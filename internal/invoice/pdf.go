// Package invoice renders a booking confirmation into a printable A4 PDF
// ticket with a QR code of the booking id, for the counter's receipt printer.
package invoice

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSizePx = 300

// RenderPDF lays out the confirmation verbatim; it never recomputes totals
// or reorders seats, the backend's record is authoritative.
func RenderPDF(confirmation domain.BookingConfirmation) ([]byte, error) {
	qrBytes, err := qrcode.Encode(confirmation.BookingID, qrcode.Medium, qrSizePx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, confirmation.MovieTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s - %s %s", confirmation.StudioName, confirmation.Date, confirmation.Time), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	imgName := fmt.Sprintf("qr_%s", confirmation.BookingID)
	pdf.RegisterImageOptionsReader(imgName, imgOpts, bytes.NewReader(qrBytes))

	qrX := (210.0 - 60.0) / 2
	pdf.ImageOptions(imgName, qrX, pdf.GetY(), 60, 60, false, imgOpts, 0, "")
	pdf.Ln(64)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.4)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(6)

	writeRow(pdf, "Booking", confirmation.BookingID)
	writeRow(pdf, "Customer", confirmation.CustomerName)
	writeRow(pdf, "Seats", strings.Join(confirmation.Seats, ", "))
	writeRow(pdf, "Payment", confirmation.PaymentMethod)
	writeRow(pdf, "Total", formatAmount(confirmation.TotalCharged))

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, "Show this ticket at the studio entrance.\nScan the QR code to verify the booking.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func writeRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 12)
	pdf.SetX(20)
	pdf.CellFormat(40, 8, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(130, 8, value, "", 1, "L", false, 0, "")
}

// formatAmount adds thousands separators for display. Presentation only;
// price arithmetic stays on whole integers.
func formatAmount(amount int64) string {
	digits := fmt.Sprintf("%d", amount)

	var b strings.Builder
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}

	return "Rp " + b.String()
}
