// ABOUTME: Client-facing quotation built from an event's cost tracker
// ABOUTME: Renders quotations to PDF with gofpdf; only client prices are shown
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/harperreed/eventdesk/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type QuoteLine struct {
	Name        string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

type Quote struct {
	Number      string
	IssuedAt    time.Time
	EventName   string
	EventDate   time.Time
	Location    string
	GuestCount  int
	ClientName  string
	ContactName string
	Lines       []QuoteLine
	Total       decimal.Decimal
}

// NewQuote builds a quotation. The event's client name is always the printed
// company; client only fills in a missing contact. Line totals are rounded to
// halalas before summing so the printed lines add up to the printed total.
func NewQuote(event models.Event, client *models.Client, issuedAt time.Time, entropy io.Reader) (*Quote, error) {
	id, err := ulid.New(ulid.Timestamp(issuedAt), entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote number: %w", err)
	}

	q := &Quote{
		Number:      "Q-" + id.String(),
		IssuedAt:    issuedAt,
		EventName:   event.Name,
		EventDate:   event.Date,
		Location:    event.Location,
		GuestCount:  event.GuestCount,
		ClientName:  event.ClientName,
		ContactName: event.ClientContact,
		Total:       decimal.Zero,
	}
	if client != nil && (q.ContactName == "" || q.ContactName == models.ContactTBD) {
		q.ContactName = client.PrimaryContactName
	}
	if q.ContactName == models.ContactTBD {
		q.ContactName = ""
	}

	for _, item := range event.CostTracker {
		qty := decimal.NewFromFloat(item.Quantity)
		price := decimal.NewFromFloat(item.ClientPriceSAR)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		line := QuoteLine{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    qty,
			UnitPrice:   price.Round(2),
			Total:       qty.Mul(price).Round(2),
		}
		q.Lines = append(q.Lines, line)
		q.Total = q.Total.Add(line.Total)
	}

	return q, nil
}

// WritePDF renders the quotation as an A4 PDF.
func (q *Quote) WritePDF(w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Quotation "+q.Number, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Quotation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	meta := [][2]string{
		{"Quote No.", q.Number},
		{"Issued", q.IssuedAt.Format("2006-01-02")},
		{"Client", q.ClientName},
		{"Contact", q.ContactName},
		{"Event", q.EventName},
		{"Location", q.Location},
	}
	if !q.EventDate.IsZero() {
		meta = append(meta, [2]string{"Event date", q.EventDate.Format("2006-01-02")})
	}
	if q.GuestCount > 0 {
		meta = append(meta, [2]string{"Guests", fmt.Sprintf("%d", q.GuestCount)})
	}
	for _, m := range meta {
		if m[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 6, m[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(m[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{80, 30, 35, 35}
	headers := []string{"Item", "Qty", "Unit (SAR)", "Total (SAR)"}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	for _, line := range q.Lines {
		pdf.CellFormat(widths[0], 6, tr(line.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, line.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, FormatAmount(line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, FormatAmount(line.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)

		if pdf.GetY() > 270 {
			pdf.AddPage()
		}
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 7, FormatAmount(q.Total), "1", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
