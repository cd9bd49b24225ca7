package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/charmbracelet/lipgloss"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
)

const treeBarWidth = 10

// RenderActivityTree renders a project's ordered activity rows with
// box-drawing connectors for sub-activities. Finished rows get a green ✔ and
// dim titles; progress bars are right-aligned after the widest title.
func RenderActivityTree(views []app.ActivityView) string {
	if len(views) == 0 {
		return ""
	}

	type line struct {
		content string
		detail  string
	}
	lines := make([]line, len(views))
	widest := 0

	for i, v := range views {
		prefix := ""
		if v.Depth > 0 {
			last := i == len(views)-1 || views[i+1].Depth == 0
			if last {
				prefix = treeCorner
			} else {
				prefix = treeBranch
			}
		}

		a := v.Activity
		title := fmt.Sprintf("%s %s", StyleDim.Render(fmt.Sprintf("%2d.", a.Order)), a.Name)
		mark := "  "
		switch {
		case v.Progress >= 100:
			mark = StyleGreen.Render("✔ ")
			title = Dim(title)
		case v.Progress > 0:
			mark = StyleYellowBold.Render("▶ ")
		}

		content := prefix + mark + title
		lines[i] = line{
			content: content,
			detail: strings.Join([]string{
				RenderProgress(v.Progress, treeBarWidth),
				KindBadge(a.Kind),
				Dim(DateRange(a.StartDate, a.EndDate)),
			}, "  "),
		}
		if w := lipgloss.Width(content); w > widest {
			widest = w
		}
	}

	var b strings.Builder
	for _, l := range lines {
		pad := widest - lipgloss.Width(l.content)
		b.WriteString(l.content + strings.Repeat(" ", pad) + "  " + l.detail + "\n")
	}
	return b.String()
}
