package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/progress"
)

const listBarWidth = 12

// FormatMacroList renders macro-projects as a table.
func FormatMacroList(macros []*domain.MacroProject) string {
	rows := make([][]string, 0, len(macros))
	for _, m := range macros {
		rows = append(rows, []string{TruncID(m.ID), Bold(m.Name), domain.CoalesceStr(m.Description, Dim("--"))})
	}
	return RenderBox("Macro-projects", RenderTable(Cols("ID", "NAME", "DESCRIPTION"), rows))
}

// FormatProjectList renders projects with their macro-project name.
func FormatProjectList(projects []*domain.Project, macroNames map[string]string) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		macro := Dim("--")
		if name := macroNames[domain.StrValue(p.MacroProjectID)]; name != "" {
			macro = StylePurple.Render(name)
		}
		rows = append(rows, []string{TruncID(p.ID), Bold(p.Name), p.Responsible, macro})
	}
	return RenderBox("Projects", RenderTable(Cols("ID", "NAME", "RESPONSIBLE", "MACRO"), rows))
}

// FormatProject renders one project's summary card followed by its
// activity tree.
func FormatProject(p *domain.Project, macroName string, s progress.Summary, views []app.ActivityView) string {
	var b strings.Builder
	b.WriteString(Bold(p.Name) + "  " + StatusPill(s.Status) + "\n")
	b.WriteString(Dim("responsible ") + p.Responsible)
	if macroName != "" {
		b.WriteString(Dim("  macro ") + StylePurple.Render(macroName))
	}
	b.WriteString("\n")
	if s.StartDate != nil && s.EndDate != nil {
		b.WriteString(Dim("schedule ") + DateRange(*s.StartDate, *s.EndDate) + "\n")
	}
	b.WriteString(RenderProgress(s.Completion, listBarWidth*2))
	b.WriteString(Dim(fmt.Sprintf("  %d activities, %d of %d leaves pending", s.ActivityCount, s.PendingLeaves, s.LeafCount)))
	b.WriteString("\n\n")

	if len(views) == 0 {
		b.WriteString(Dim("No activities yet."))
	} else {
		b.WriteString(RenderActivityTree(views))
	}
	return RenderBox(p.DisplayID(), strings.TrimRight(b.String(), "\n"))
}

// FormatActivity renders a single activity's fields.
func FormatActivity(a *domain.Activity, pct int) string {
	rows := [][]string{
		{Dim("id"), a.ID},
		{Dim("kind"), KindBadge(a.Kind)},
		{Dim("dates"), DateRange(a.StartDate, a.EndDate)},
		{Dim("progress"), RenderProgress(pct, listBarWidth)},
		{Dim("order"), fmt.Sprint(a.Order)},
	}
	if a.ParentID != nil {
		rows = append(rows, []string{Dim("parent"), *a.ParentID})
	}
	if a.Comment != "" {
		rows = append(rows, []string{Dim("comment"), a.Comment})
	}
	var b strings.Builder
	b.WriteString(Bold(a.Name) + "\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-9s %s\n", r[0], r[1]))
	}
	return b.String()
}

// FormatDashboard renders the portfolio totals, the per-project table and
// the nearest pending deadlines.
func FormatDashboard(d *app.Dashboard) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %d   %s %d   %s %s   %s %d\n\n",
		Dim("projects"), d.TotalProjects,
		Dim("active"), d.ActiveProjects,
		Dim("avg"), RenderProgress(d.AverageCompletion, listBarWidth),
		Dim("pending"), d.PendingLeaves,
	))

	if len(d.Projects) == 0 {
		b.WriteString(Dim("No projects found."))
		return RenderBox("Dashboard", b.String())
	}

	rows := make([][]string, 0, len(d.Projects))
	for _, row := range d.Projects {
		end := Dim("--")
		if row.Summary.EndDate != nil {
			end = domain.FormatDate(*row.Summary.EndDate)
		}
		rows = append(rows, []string{
			Bold(row.Project.Name),
			domain.CoalesceStr(row.MacroName, Dim("--")),
			RenderProgress(row.Summary.Completion, listBarWidth),
			StatusPill(row.Summary.Status),
			end,
		})
	}
	b.WriteString(RenderTable(Cols("PROJECT", "MACRO", "PROGRESS", "STATUS", "END"), rows))

	if len(d.Upcoming) > 0 {
		b.WriteString("\n" + Header("Upcoming") + "\n")
		up := make([][]string, 0, len(d.Upcoming))
		for _, u := range d.Upcoming {
			up = append(up, []string{
				UrgencyLabel(u.Urgency, u.DaysRemaining),
				u.Activity.Name,
				Dim(u.ProjectName),
				domain.FormatDate(u.Activity.EndDate),
			})
		}
		b.WriteString(RenderTable(Cols("WHEN", "ACTIVITY", "PROJECT", "END"), up))
	}
	return RenderBox("Dashboard", strings.TrimRight(b.String(), "\n"))
}
