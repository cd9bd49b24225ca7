package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleOrange     = lipgloss.NewStyle().Foreground(ColorOrange)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// UrgencyStyle colors an upcoming deadline by how close it is.
func UrgencyStyle(u app.Urgency) lipgloss.Style {
	switch u {
	case app.UrgencyOverdue, app.UrgencyToday:
		return StyleRed
	case app.UrgencyTomorrow, app.UrgencySoon:
		return StyleOrange
	case app.UrgencyWeek:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// UrgencyLabel renders the days remaining, e.g. "● 3 days late".
func UrgencyLabel(u app.Urgency, days int) string {
	var text string
	switch u {
	case app.UrgencyOverdue:
		text = fmt.Sprintf("%d %s late", -days, plural(-days, "day"))
	case app.UrgencyToday:
		text = "due today"
	case app.UrgencyTomorrow:
		text = "due tomorrow"
	default:
		text = fmt.Sprintf("in %d %s", days, plural(days, "day"))
	}
	return UrgencyStyle(u).Render("● " + text)
}

// StatusPill returns a colored indicator for a computed project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectFulfilled:
		return StyleBlue.Render("✔ Fulfilled")
	case domain.ProjectOverdue:
		return StyleRed.Render("▲ Overdue")
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

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
