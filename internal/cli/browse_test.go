package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrowser(t *testing.T, a *App) *teatest.Driver {
	t.Helper()
	return teatest.New(t, newBrowseModel(context.Background(), a))
}

func TestBrowse_ListsProjectsWithCompletion(t *testing.T) {
	a := testApp(t)
	seedBridge(t, a)
	mustExec(t, a, "project", "add", "Tunnel", "-r", "Luis")

	d := newBrowser(t, a)
	view := d.View()
	assert.Contains(t, view, "PROJECTS")
	assert.Contains(t, view, "Bridge")
	assert.Contains(t, view, "Tunnel")
	assert.Contains(t, view, "%")
}

func TestBrowse_OpenProjectAndGoBack(t *testing.T) {
	a := testApp(t)
	seedBridge(t, a)

	d := newBrowser(t, a)
	d.Press("enter")
	view := d.View()
	assert.Contains(t, view, "PROJECTS › BRIDGE")
	assert.Contains(t, view, "Survey")

	d.Press("esc")
	assert.NotContains(t, d.View(), "Survey")
	assert.False(t, d.Quitting)

	d.Press("esc")
	assert.True(t, d.Quitting)
}

func TestBrowse_MoveActivityKeepsChildrenWithParent(t *testing.T) {
	a := testApp(t)
	id := seedBridge(t, a)

	d := newBrowser(t, a)
	d.Press("enter", "J")
	assert.Equal(t, []string{"Build", "Design", "Survey"}, activityNames(t, a, id))

	// cursor followed Design to row 1
	view := d.Model.(*browseModel).top().(*activityListView)
	assert.Equal(t, 1, view.cursor)

	d.Press("K")
	assert.Equal(t, []string{"Design", "Survey", "Build"}, activityNames(t, a, id))
}

func TestBrowse_ChronologicalReorder(t *testing.T) {
	a := testApp(t)
	id := seedBridge(t, a)
	mustExec(t, a, "activity", "reorder", "-p", "Bridge", "Build", "Design", "Survey")

	d := newBrowser(t, a)
	d.Press("enter", "c")
	assert.Equal(t, []string{"Design", "Survey", "Build"}, activityNames(t, a, id))
}

func TestBrowse_Quit(t *testing.T) {
	a := testApp(t)
	d := newBrowser(t, a)
	assert.Contains(t, d.View(), "No projects yet")
	d.Press("q")
	assert.True(t, d.Quitting)
}

func TestSwapSibling(t *testing.T) {
	rows := func(specs ...[2]string) []app.ActivityView {
		out := make([]app.ActivityView, len(specs))
		for i, s := range specs {
			a := &domain.Activity{ID: s[0]}
			if s[1] != "" {
				a.ParentID = domain.StrPtr(s[1])
			}
			out[i] = app.ActivityView{Activity: a}
		}
		return out
	}
	views := rows([2]string{"A", ""}, [2]string{"a1", "A"}, [2]string{"a2", "A"}, [2]string{"B", ""})

	ids, ok := swapSibling(views, 0, 1)
	require.True(t, ok)
	assert.Equal(t, []string{"B", "a1", "a2", "A"}, ids)

	ids, ok = swapSibling(views, 2, -1)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "a2", "a1", "B"}, ids)

	_, ok = swapSibling(views, 2, 1)
	assert.False(t, ok, "last child has no later sibling")

	_, ok = swapSibling(views, 0, -1)
	assert.False(t, ok)
}

func TestMoveTo(t *testing.T) {
	views := []app.ActivityView{
		{Activity: &domain.Activity{ID: "a"}},
		{Activity: &domain.Activity{ID: "b"}},
		{Activity: &domain.Activity{ID: "c"}},
	}

	ids, err := moveTo(views, "c", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	ids, err = moveTo(views, "a", 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids)

	_, err = moveTo(views, "zz", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
