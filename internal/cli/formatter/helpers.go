package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/avance/internal/dates"
	"github.com/alexanderramin/avance/internal/domain"
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
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// DateRange renders "2024-01-01 → 2024-01-10", or a single date when both
// ends match.
func DateRange(start, end time.Time) string {
	if start.Equal(end) {
		return domain.FormatDate(start)
	}
	return domain.FormatDate(start) + " → " + domain.FormatDate(end)
}

// KindBadge returns a short label for an activity kind.
func KindBadge(k domain.ActivityKind) string {
	switch k {
	case domain.KindMeeting:
		return StylePurple.Render("meeting")
	case domain.KindPoints:
		return StyleBlue.Render("points")
	default:
		return StyleFg.Render("continuous")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatNotices lists automatic date adjustments, one per line.
func FormatNotices(notices []dates.Notice) string {
	if len(notices) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range notices {
		b.WriteString(StyleYellow.Render("ℹ ") + n.Message + "\n")
	}
	return b.String()
}
