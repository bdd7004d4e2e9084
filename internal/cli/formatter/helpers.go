package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// Money formats an amount with thousands separators and the currency
// code, e.g. "493,885.71 EGP".
func Money(amount float64, currency string) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ",") + "." + fracPart
	if neg {
		out = "-" + out
	}
	if currency != "" {
		out += " " + currency
	}
	return out
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}

// ETAIn renders an estimated completion time as a countdown, e.g.
// "in 1m 40s". Past estimates render as "any moment now".
func ETAIn(eta time.Time) string {
	diff := time.Until(eta)
	if diff <= 0 {
		return "any moment now"
	}
	if diff < time.Minute {
		return fmt.Sprintf("in %ds", int(diff.Seconds()))
	}
	m := int(diff.Minutes())
	s := int(diff.Seconds()) - m*60
	if s == 0 {
		return fmt.Sprintf("in %dm", m)
	}
	return fmt.Sprintf("in %dm %ds", m, s)
}

// TruncID returns the first 12 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 12 {
		id = id[:12]
	}
	return StyleDim.Render(id)
}

// ProjectTypeBadge returns a capitalized, purple-styled project type label.
func ProjectTypeBadge(t string) string {
	if t == "" {
		return StyleDim.Render("--")
	}
	label := strings.ReplaceAll(t, "_", " ")
	label = strings.ToUpper(label[:1]) + label[1:]
	return StylePurple.Render(label)
}

// Truncate shortens text to max runes, appending an ellipsis when cut.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
