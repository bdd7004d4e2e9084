// Package render produces downloadable quotation documents. Documents
// exist only for completed quotations; every entry point enforces that
// gate before touching the data.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/avelarbuild/quotient/internal/domain"
)

const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatBoth = "both"
)

// Document is one rendered artifact ready to serve.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ErrUnknownFormat is returned for formats other than text, csv, both.
var ErrUnknownFormat = fmt.Errorf("%w: format must be one of text, csv, both", domain.ErrValidation)

// Render produces the document for the requested format.
func Render(format string, q *domain.Quotation, d *domain.QuotationData) (*Document, error) {
	switch strings.ToLower(format) {
	case FormatText:
		return Text(q, d)
	case FormatCSV:
		return CSV(q, d)
	case FormatBoth:
		return Bundle(q, d)
	default:
		return nil, ErrUnknownFormat
	}
}

// ready gates document generation on a completed pipeline.
func ready(q *domain.Quotation, d *domain.QuotationData) error {
	if q.Status != domain.StatusCompleted {
		return fmt.Errorf("%w: quotation %s is %s, documents exist once it is completed",
			domain.ErrNotReady, q.ID, q.Status)
	}
	if d == nil || d.CostBreakdown == nil {
		return fmt.Errorf("%w: quotation %s has no cost breakdown", domain.ErrNotReady, q.ID)
	}
	return nil
}

// Text renders the human-readable quotation document.
func Text(q *domain.Quotation, d *domain.QuotationData) (*Document, error) {
	if err := ready(q, d); err != nil {
		return nil, err
	}

	b := d.CostBreakdown
	var w strings.Builder

	fmt.Fprintf(&w, "CONSTRUCTION QUOTATION\n")
	fmt.Fprintf(&w, "%s\n\n", strings.Repeat("=", 48))
	fmt.Fprintf(&w, "Quotation:  %s\n", q.ID)
	fmt.Fprintf(&w, "Date:       %s\n", q.UpdatedAt.Format("2006-01-02"))
	if q.Location != "" {
		fmt.Fprintf(&w, "Location:   %s\n", q.Location)
	}
	fmt.Fprintf(&w, "\nProject\n%s\n", strings.Repeat("-", 48))
	fmt.Fprintf(&w, "%s\n", q.ProjectDescription)

	if ex := d.ExtractedData; ex != nil {
		fmt.Fprintf(&w, "\nScope\n%s\n", strings.Repeat("-", 48))
		if ex.ProjectType != "" {
			fmt.Fprintf(&w, "Type:          %s\n", ex.ProjectType)
		}
		if ex.SizeSqm != nil {
			fmt.Fprintf(&w, "Size:          %.1f sqm\n", *ex.SizeSqm)
		}
		if ex.TargetFinishLevel != "" {
			fmt.Fprintf(&w, "Finish level:  %s\n", ex.TargetFinishLevel)
		}
		if ex.TimelineWeeks != nil {
			fmt.Fprintf(&w, "Timeline:      %d weeks\n", *ex.TimelineWeeks)
		}
	}

	fmt.Fprintf(&w, "\nCost breakdown (%s)\n%s\n", b.Currency, strings.Repeat("-", 48))
	for _, c := range b.Categories() {
		fmt.Fprintf(&w, "%-18s %14.2f  %5.1f%%\n",
			categoryLabel(c.Name), c.Category.Subtotal, c.Category.Percentage)
	}
	fmt.Fprintf(&w, "%s\n", strings.Repeat("-", 48))
	fmt.Fprintf(&w, "%-18s %14.2f\n", "TOTAL", d.TotalCost)
	fmt.Fprintf(&w, "\nEstimate range: %.2f to %.2f %s\n",
		d.TotalCost*0.9, d.TotalCost*1.1, b.Currency)
	fmt.Fprintf(&w, "Valid for 30 days from %s.\n", time.Now().UTC().Format("2006-01-02"))

	return &Document{
		Filename:    fmt.Sprintf("quotation_%s.txt", q.ID),
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(w.String()),
	}, nil
}

func categoryLabel(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
