package formatter

import (
	"fmt"
	"strings"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the lipgloss style associated with a quotation status.
func StatusStyle(status domain.QuotationStatus) lipgloss.Style {
	switch status {
	case domain.StatusCompleted:
		return StyleGreen
	case domain.StatusFailed:
		return StyleRed
	case domain.StatusPending:
		return StyleDim
	case domain.StatusProcessing, domain.StatusDataCollection, domain.StatusCostCalculation:
		return StyleYellow
	default:
		return StyleDim
	}
}

// StatusBadge returns a colored status indicator such as "● Completed".
func StatusBadge(status domain.QuotationStatus) string {
	switch status {
	case domain.StatusPending:
		return StyleDim.Render("○ Pending")
	case domain.StatusProcessing:
		return StyleYellow.Render("● Processing")
	case domain.StatusDataCollection:
		return StyleYellow.Render("● Collecting Data")
	case domain.StatusCostCalculation:
		return StyleYellow.Render("● Calculating Costs")
	case domain.StatusCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.StatusFailed:
		return StyleRed.Render("✖ Failed")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
