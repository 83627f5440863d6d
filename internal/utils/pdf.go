package utils

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/aramkh/academy-ticketing/internal/model"
)

// TicketPDF renders a printable A5 ticket with the event details, seat
// list, amount and the QR symbol the gate scanner reads.
func TicketPDF(t *model.Ticket) ([]byte, error) {
	qrPNG, err := QRPNG(t.QRPayload, 300)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, t.EventTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, t.Venue, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, t.EventStartsAt.UTC().Format("Monday, 2 January 2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, t.Customer.FirstName+" "+t.Customer.LastName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Seats: "+strings.Join(t.SeatLabels(), ", "), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total: $%d.%02d", t.TotalCents/100, t.TotalCents%100), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Code: "+t.ConfirmationCode, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(qrPNG))
	// Center the 60mm symbol on the 148mm-wide page.
	pdf.ImageOptions("ticket-qr", (148-60)/2, pdf.GetY(), 60, 60, false, opts, 0, "")

	pdf.SetY(pdf.GetY() + 64)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Present this code at the entrance. Valid for one admission per seat.", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Issued "+t.CreatedAt.UTC().Format(time.RFC3339), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
