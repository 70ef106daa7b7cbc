package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/phpdave11/gofpdf"
)

const dateLayout = "02 Jan 2006"

// Reservation renders the flight reservation document sent with the confirmation email.
// It returns the PDF bytes and a file name.
func Reservation(b *domain.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Flight Reservation", false)
	pdf.SetAuthor("Wolkenticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FLIGHT RESERVATION")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking code   : %s", b.ID),
		fmt.Sprintf("Transaction    : %s", safe(b.TransactionID, "-")),
		fmt.Sprintf("Status         : %s", strings.ToUpper(string(b.Status))),
		fmt.Sprintf("Trip           : %s", tripLabel(b.FlightType)),
		fmt.Sprintf("From           : %s", cityLabel(b.DepartureCity)),
		fmt.Sprintf("To             : %s", cityLabel(b.DestinationCity)),
		fmt.Sprintf("Departure      : %s", b.DepartureDate.Format(dateLayout)),
	}
	if b.FlightType == domain.FlightTypeRoundTrip && b.ReturnDate != nil {
		lines = append(lines, fmt.Sprintf("Return         : %s", b.ReturnDate.Format(dateLayout)))
	}
	lines = append(lines,
		fmt.Sprintf("Contact        : %s / %s", b.Email, safe(b.Phone, "-")),
		fmt.Sprintf("Total paid     : %s %s", domain.FormatCents(b.TotalPriceCents), b.Currency),
	)
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, p := range b.Passengers {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%d) %s, born %s", i+1, safe(p.Name, "-"), safe(p.BirthDate, "-"))))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This reservation is valid for visa and onward travel applications. It is not a ticket and cannot be used for boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render reservation: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("RESERVATION_%s.pdf", shortID(b.ID)), nil
}

func tripLabel(t domain.FlightType) string {
	if t == domain.FlightTypeRoundTrip {
		return "Round trip"
	}
	return "One way"
}

func cityLabel(c domain.City) string {
	if c.Label == "" {
		return c.Value
	}
	return fmt.Sprintf("%s (%s)", c.Label, c.Value)
}


func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
