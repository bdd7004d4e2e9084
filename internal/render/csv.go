package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/avelarbuild/quotient/internal/domain"
)

// CSV renders the breakdown as line items, one row per material item,
// labor trade, and rolled-up category.
func CSV(q *domain.Quotation, d *domain.QuotationData) (*Document, error) {
	if err := ready(q, d); err != nil {
		return nil, err
	}

	b := d.CostBreakdown
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"quotation_id", "section", "item", "quantity", "unit", "rate", "cost", "currency"},
	}

	for _, item := range b.Materials.Items {
		rows = append(rows, []string{
			q.ID, "materials", item.Category,
			f2(item.Quantity), item.Unit, f2(item.UnitCost), f2(item.Cost), b.Currency,
		})
	}
	for _, tr := range b.Labor.Trades {
		rows = append(rows, []string{
			q.ID, "labor", tr.Trade,
			f2(tr.Hours), "hours", f2(tr.Rate), f2(tr.Cost), b.Currency,
		})
	}
	for _, c := range b.Categories() {
		rows = append(rows, []string{
			q.ID, "summary", c.Name, "", "", "", f2(c.Category.Subtotal), b.Currency,
		})
	}
	rows = append(rows, []string{q.ID, "summary", "total", "", "", "", f2(d.TotalCost), b.Currency})

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}

	return &Document{
		Filename:    fmt.Sprintf("quotation_%s.csv", q.ID),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func f2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
