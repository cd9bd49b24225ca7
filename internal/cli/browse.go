package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/cli/formatter"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/progress"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse projects and reorder activities interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.IsInteractive == nil || !a.IsInteractive() {
				return fmt.Errorf("browse needs a terminal")
			}
			ctx := cmd.Context()
			p := tea.NewProgram(newBrowseModel(ctx, a),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}

// viewID identifies each screen of the browser.
type viewID int

const (
	viewProjects viewID = iota
	viewActivities
)

// view is one screen on the navigation stack.
type view interface {
	tea.Model
	ID() viewID
	Title() string
	ShortHelp() []key.Binding
}

type pushViewMsg struct{ view view }

type popViewMsg struct{}

func pushView(v view) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

type browseKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Back     key.Binding
	Quit     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Chrono   key.Binding
}

var browseKeys = browseKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
	MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
	Chrono:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sort by date")),
}

// browseModel owns the view stack and routes messages to the top view.
type browseModel struct {
	ctx   context.Context
	app   *App
	stack []view
}

func newBrowseModel(ctx context.Context, a *App) *browseModel {
	return &browseModel{ctx: ctx, app: a, stack: []view{newProjectListView(ctx, a)}}
}

func (m *browseModel) top() view { return m.stack[len(m.stack)-1] }

func (m *browseModel) Init() tea.Cmd { return m.top().Init() }

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pushViewMsg:
		m.stack = append(m.stack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.stack) == 1 {
			return m, tea.Quit
		}
		m.stack = m.stack[:len(m.stack)-1]
		// Completion may have changed below.
		return m, m.top().Init()

	case tea.KeyMsg:
		if key.Matches(msg, browseKeys.Quit) {
			return m, tea.Quit
		}
	}

	updated, cmd := m.top().Update(msg)
	m.stack[len(m.stack)-1] = updated.(view)
	return m, cmd
}

func (m *browseModel) View() string {
	titles := make([]string, len(m.stack))
	for i, v := range m.stack {
		titles[i] = v.Title()
	}

	var help []string
	for _, b := range append(m.top().ShortHelp(), browseKeys.Quit) {
		h := b.Help()
		help = append(help, h.Key+" "+formatter.Dim(h.Desc))
	}

	var b strings.Builder
	b.WriteString(formatter.Header(strings.Join(titles, " › ")))
	b.WriteString("\n\n")
	b.WriteString(m.top().View())
	b.WriteString("\n")
	b.WriteString(strings.Join(help, "  "))
	b.WriteString("\n")
	return b.String()
}

// ── Projects ────────────────────────────────────────────────────────────────

type projectRow struct {
	project *domain.Project
	summary progress.Summary
}

type projectsLoadedMsg struct {
	rows []projectRow
	err  error
}

type projectListView struct {
	ctx     context.Context
	app     *App
	rows    []projectRow
	cursor  int
	loading bool
	err     error
}

func newProjectListView(ctx context.Context, a *App) *projectListView {
	return &projectListView{ctx: ctx, app: a, loading: true}
}

func (v *projectListView) ID() viewID    { return viewProjects }
func (v *projectListView) Title() string { return "Projects" }

func (v *projectListView) ShortHelp() []key.Binding {
	return []key.Binding{browseKeys.Up, browseKeys.Down, browseKeys.Open}
}

func (v *projectListView) Init() tea.Cmd {
	ctx, a := v.ctx, v.app
	return func() tea.Msg {
		projects, err := a.Projects.List(ctx, nil)
		if err != nil {
			return projectsLoadedMsg{err: err}
		}
		rows := make([]projectRow, 0, len(projects))
		for _, p := range projects {
			s, err := a.Progress.ProjectSummary(ctx, p.ID)
			if err != nil {
				return projectsLoadedMsg{err: err}
			}
			rows = append(rows, projectRow{project: p, summary: *s})
		}
		return projectsLoadedMsg{rows: rows}
	}
}

func (v *projectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		v.loading = false
		v.err = msg.err
		v.rows = msg.rows
		v.cursor = min(v.cursor, max(len(v.rows)-1, 0))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, browseKeys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, browseKeys.Down):
			if v.cursor < len(v.rows)-1 {
				v.cursor++
			}
		case key.Matches(msg, browseKeys.Open):
			if v.cursor < len(v.rows) {
				return v, pushView(newActivityListView(v.ctx, v.app, v.rows[v.cursor].project))
			}
		case key.Matches(msg, browseKeys.Back):
			return v, popView()
		}
	}
	return v, nil
}

func (v *projectListView) View() string {
	switch {
	case v.loading:
		return formatter.Dim("Loading…")
	case v.err != nil:
		return formatter.StyleRed.Render(v.err.Error())
	case len(v.rows) == 0:
		return formatter.Dim("No projects yet. Create one with `avance project add`.")
	}

	cols := formatter.Cols("", "PROJECT", "RESPONSIBLE", "PROGRESS", "STATUS")
	rows := make([][]string, len(v.rows))
	for i, r := range v.rows {
		rows[i] = []string{
			cursorMark(i == v.cursor),
			r.project.Name,
			r.project.Responsible,
			formatter.RenderProgress(r.summary.Completion, 20),
			formatter.StatusPill(r.summary.Status),
		}
	}
	return formatter.RenderTable(cols, rows)
}

// ── Activities ──────────────────────────────────────────────────────────────

type activitiesLoadedMsg struct {
	views []app.ActivityView
	err   error
}

type activityListView struct {
	ctx     context.Context
	app     *App
	project *domain.Project
	views   []app.ActivityView
	cursor  int
	// focus keeps the cursor on a moved activity across reloads.
	focus   string
	loading bool
	err     error
}

func newActivityListView(ctx context.Context, a *App, p *domain.Project) *activityListView {
	return &activityListView{ctx: ctx, app: a, project: p, loading: true}
}

func (v *activityListView) ID() viewID    { return viewActivities }
func (v *activityListView) Title() string { return v.project.Name }

func (v *activityListView) ShortHelp() []key.Binding {
	return []key.Binding{browseKeys.Up, browseKeys.Down, browseKeys.MoveUp, browseKeys.MoveDown, browseKeys.Chrono, browseKeys.Back}
}

func (v *activityListView) Init() tea.Cmd { return v.reload(nil) }

// reload runs mutate, if any, then lists the project's activities again.
func (v *activityListView) reload(mutate func(ctx context.Context) error) tea.Cmd {
	ctx, a, projectID := v.ctx, v.app, v.project.ID
	return func() tea.Msg {
		if mutate != nil {
			if err := mutate(ctx); err != nil {
				return activitiesLoadedMsg{err: err}
			}
		}
		views, err := a.Activities.ListByProject(ctx, projectID)
		return activitiesLoadedMsg{views: views, err: err}
	}
}

func (v *activityListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activitiesLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err != nil {
			return v, nil
		}
		v.views = msg.views
		for i, av := range v.views {
			if av.Activity.ID == v.focus {
				v.cursor = i
			}
		}
		v.cursor = min(v.cursor, max(len(v.views)-1, 0))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, browseKeys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, browseKeys.Down):
			if v.cursor < len(v.views)-1 {
				v.cursor++
			}
		case key.Matches(msg, browseKeys.MoveUp):
			return v, v.move(-1)
		case key.Matches(msg, browseKeys.MoveDown):
			return v, v.move(1)
		case key.Matches(msg, browseKeys.Chrono):
			if len(v.views) > 0 {
				v.focus = v.views[v.cursor].Activity.ID
			}
			projectID := v.project.ID
			return v, v.reload(func(ctx context.Context) error {
				return v.app.Activities.ReorderChronologically(ctx, projectID)
			})
		case key.Matches(msg, browseKeys.Back):
			return v, popView()
		}
	}
	return v, nil
}

func (v *activityListView) move(delta int) tea.Cmd {
	ids, ok := swapSibling(v.views, v.cursor, delta)
	if !ok {
		return nil
	}
	v.focus = v.views[v.cursor].Activity.ID
	projectID := v.project.ID
	return v.reload(func(ctx context.Context) error {
		return v.app.Activities.ApplyManualOrder(ctx, projectID, ids)
	})
}

// swapSibling returns the list's IDs with row idx swapped with its nearest
// sibling in direction delta. Sub-activities follow their parent once the
// order is applied.
func swapSibling(views []app.ActivityView, idx, delta int) ([]string, bool) {
	if idx < 0 || idx >= len(views) {
		return nil, false
	}
	parent := domain.StrValue(views[idx].Activity.ParentID)
	j := idx + delta
	for j >= 0 && j < len(views) && domain.StrValue(views[j].Activity.ParentID) != parent {
		j += delta
	}
	if j < 0 || j >= len(views) {
		return nil, false
	}

	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.Activity.ID
	}
	ids[idx], ids[j] = ids[j], ids[idx]
	return ids, true
}

func (v *activityListView) View() string {
	switch {
	case v.loading:
		return formatter.Dim("Loading…")
	case v.err != nil && len(v.views) == 0:
		return formatter.StyleRed.Render(v.err.Error())
	case len(v.views) == 0:
		return formatter.Dim("No activities yet.")
	}

	lines := strings.Split(strings.TrimRight(formatter.RenderActivityTree(v.views), "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(cursorMark(i == v.cursor))
		b.WriteString(line)
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(formatter.StyleRed.Render(v.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func cursorMark(selected bool) string {
	if selected {
		return formatter.StyleOrange.Render("› ")
	}
	return "  "
}
