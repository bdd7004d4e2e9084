package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/service"
)

const statusProgressBarWidth = 10

// FormatQuotationList formats quotations as a table for `quotient list`.
func FormatQuotationList(quotations []*domain.Quotation) string {
	headers := []string{"ID", "TYPE", "DESCRIPTION", "STATUS", "PROGRESS", "CREATED"}
	rows := make([][]string, 0, len(quotations))

	for _, q := range quotations {
		rows = append(rows, []string{
			TruncID(q.ID),
			ProjectTypeBadge(string(q.ProjectType)),
			StyleFg.Render(Truncate(q.ProjectDescription, 40)),
			StatusBadge(q.Status),
			RenderProgress(float64(q.Progress)/100, statusProgressBarWidth),
			Dim(HumanTimestamp(q.CreatedAt)),
		})
	}

	return RenderTable(headers, rows)
}

// FormatStatus formats a status projection for `quotient status`.
func FormatStatus(st *service.StatusProjection) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(st.QuotationID), StatusBadge(st.Status)))
	b.WriteString(fmt.Sprintf("%s %s\n", RenderProgress(float64(st.Progress)/100, statusProgressBarWidth), RenderStageTrack(st.CurrentStage)))

	if st.EstimatedCompletion != nil {
		b.WriteString(Dim(fmt.Sprintf("Estimated completion %s", ETAIn(*st.EstimatedCompletion))) + "\n")
	}
	if st.FailureReason != "" {
		b.WriteString(StyleRed.Render("Failed: "+st.FailureReason) + "\n")
	}
	b.WriteString(Dim(fmt.Sprintf("Last update %s", HumanTimestamp(st.LastUpdate))) + "\n")

	return RenderBox("Status", strings.TrimRight(b.String(), "\n"))
}

// FormatQuotation formats a full quotation view for `quotient get`.
func FormatQuotation(view *service.QuotationView) string {
	q := view.Quotation
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n\n", Bold(q.ID), StatusBadge(q.Status)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Type:"), ProjectTypeBadge(string(q.ProjectType))))
	if q.Location != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Location:"), StyleFg.Render(q.Location)))
	}
	if q.Timeline != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Timeline:"), StyleFg.Render(q.Timeline)))
	}
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Created:"), StyleFg.Render(HumanTimestamp(q.CreatedAt))))
	b.WriteString("\n")
	b.WriteString(StyleFg.Render(q.ProjectDescription) + "\n")

	if q.Status == domain.StatusFailed && q.FailureReason != "" {
		b.WriteString("\n" + StyleRed.Render("Failed: "+q.FailureReason) + "\n")
	}

	if view.Data != nil && view.Data.ExtractedData != nil {
		b.WriteString("\n" + Header("Extracted Scope") + "\n")
		b.WriteString(formatExtracted(view.Data.ExtractedData))
	}

	if view.Data != nil && view.Data.CostBreakdown != nil {
		b.WriteString("\n" + FormatBreakdown(view.Data.CostBreakdown, view.Data.TotalCost))
	}

	return RenderBox("Quotation", strings.TrimRight(b.String(), "\n"))
}

func formatExtracted(ex *domain.ExtractedData) string {
	var b strings.Builder

	if ex.SizeSqm != nil {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Size:"), StyleFg.Render(strconv.FormatFloat(*ex.SizeSqm, 'f', -1, 64)+" sqm")))
	}
	if ex.TimelineWeeks != nil {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Timeline:"), StyleFg.Render(fmt.Sprintf("%d weeks", *ex.TimelineWeeks))))
	}
	if ex.TargetFinishLevel != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Finish:"), StyleFg.Render(ex.TargetFinishLevel)))
	}
	for _, r := range ex.KeyRequirements {
		b.WriteString(Dim("  • ") + StyleFg.Render(r) + "\n")
	}
	if len(ex.FollowUpQuestions) > 0 {
		b.WriteString(StyleYellow.Render("Open questions:") + "\n")
		for _, q := range ex.FollowUpQuestions {
			b.WriteString(Dim("  ? ") + StyleFg.Render(q) + "\n")
		}
	}
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Confidence:"), RenderProgress(ex.ConfidenceScore, statusProgressBarWidth)))

	return b.String()
}

// FormatBreakdown formats the cost breakdown as a category table plus a
// total line.
func FormatBreakdown(breakdown *domain.CostBreakdown, total float64) string {
	var b strings.Builder

	b.WriteString(Header("Cost Breakdown") + "\n")

	headers := []string{"CATEGORY", "SUBTOTAL", "SHARE"}
	var rows [][]string
	for _, c := range breakdown.Categories() {
		label := strings.ReplaceAll(c.Name, "_", " ")
		rows = append(rows, []string{
			StyleFg.Render(label),
			StyleFg.Render(Money(c.Category.Subtotal, breakdown.Currency)),
			Dim(fmt.Sprintf("%.1f%%", c.Category.Percentage)),
		})
	}
	b.WriteString(RenderTable(headers, rows))

	b.WriteString("\n" + Bold("Total: "+Money(total, breakdown.Currency)) + "\n")

	return b.String()
}
