package cli

import (
	"fmt"

	"github.com/avelarbuild/quotient/internal/cli/formatter"
	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// quotientHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func quotientHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateDescriptionField(s string) error {
	return domain.ValidateDescription(s)
}

func validateZipField(s string) error {
	return domain.ValidateZipCode(s)
}

// createQuotationForm collects the fields of a new quotation. Only the
// description is mandatory; the select offers "detect from description"
// as the empty project type option.
func createQuotationForm(req *service.CreateQuotationRequest) *huh.Form {
	typeOptions := []huh.Option[string]{
		huh.NewOption("Detect from description", ""),
	}
	for _, t := range []domain.ProjectType{
		domain.TypeResidential,
		domain.TypeCommercial,
		domain.TypeRenovation,
		domain.TypeNewConstruction,
	} {
		typeOptions = append(typeOptions, huh.NewOption(string(t), string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Project Description").
				Placeholder("100 sqm apartment renovation in Cairo, premium finishes, 10 weeks").
				Validate(validateDescriptionField).
				Value(&req.ProjectDescription),
			huh.NewInput().
				Title("Location (optional)").
				Placeholder("Cairo").
				Value(&req.Location),
			huh.NewInput().
				Title("Zip Code (optional)").
				Validate(validateZipField).
				Value(&req.ZipCode),
			huh.NewSelect[string]().
				Title("Project Type").
				Options(typeOptions...).
				Value(&req.ProjectType),
			huh.NewInput().
				Title("Timeline (optional)").
				Placeholder("10 weeks").
				Value(&req.Timeline),
		),
	).WithTheme(quotientHuhTheme()).WithShowHelp(false)
}

// confirmDeleteForm asks for confirmation before removing a quotation.
func confirmDeleteForm(id string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete quotation %s?", id)).
				Affirmative("Delete").
				Negative("Keep").
				Value(confirmed),
		),
	).WithTheme(quotientHuhTheme()).WithShowHelp(false)
}
