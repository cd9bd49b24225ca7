package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) progressService() ProgressService {
	return NewProgressService(f.macros, f.projects, f.activities, f.options()...)
}

func TestProjectCompletionAndStatus(t *testing.T) {
	f := newFixture(t)
	svc := f.progressService()
	ctx := context.Background()
	p := f.project(t, "Bridge")
	root := f.activity(t, p.ID, "Phase")
	f.activity(t, p.ID, "A", testutil.WithParent(root.ID), testutil.WithProgress(33))
	f.activity(t, p.ID, "B", testutil.WithParent(root.ID), testutil.WithProgress(34))
	f.activity(t, p.ID, "C", testutil.WithApproved())

	// leaves: 33, 34, 100 -> 167/3 = 55.67
	pct, err := svc.ProjectCompletion(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 56, pct)

	status, err := svc.ProjectStatus(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, status)

	sum, err := svc.ProjectSummary(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.ActivityCount)
	assert.Equal(t, 3, sum.LeafCount)
	assert.Equal(t, 2, sum.PendingLeaves)

	_, err = svc.ProjectCompletion(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectStatus_OverdueAndFulfilled(t *testing.T) {
	f := newFixture(t)
	svc := f.progressService()
	ctx := context.Background()

	late := f.project(t, "Late")
	f.activity(t, late.ID, "Old", testutil.WithDates("2023-12-01", "2024-01-04"))
	status, err := svc.ProjectStatus(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectOverdue, status)

	done := f.project(t, "Done")
	f.activity(t, done.ID, "Old", testutil.WithDates("2023-12-01", "2023-12-02"), testutil.WithApproved())
	status, err = svc.ProjectStatus(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectFulfilled, status)

	empty := f.project(t, "Empty")
	status, err = svc.ProjectStatus(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, status)
}

func TestDashboard_Aggregates(t *testing.T) {
	f := newFixture(t)
	svc := f.progressService()
	ctx := context.Background()

	macro := testutil.NewTestMacroProject("Infra")
	require.NoError(t, f.macros.Create(ctx, macro))

	a := f.project(t, "Alpha", testutil.WithMacroProject(macro.ID))
	f.activity(t, a.ID, "Due today", testutil.WithDates("2024-01-01", "2024-01-05"))
	f.activity(t, a.ID, "Done", testutil.WithApproved(), testutil.WithDates("2024-01-01", "2024-01-02"))

	b := f.project(t, "Beta")
	f.activity(t, b.ID, "Overdue", testutil.WithDates("2023-12-01", "2024-01-01"), testutil.WithProgress(50))

	f.project(t, "Gamma", testutil.WithMacroProject(macro.ID))

	dash, err := svc.Dashboard(ctx, app.DashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, dash.TotalProjects)
	assert.Equal(t, 2, dash.ActiveProjects, "Beta is overdue")
	// (50 + 50 + 0) / 3
	assert.Equal(t, 33, dash.AverageCompletion)
	assert.Equal(t, 2, dash.PendingLeaves)

	require.Len(t, dash.Projects, 3)
	assert.Equal(t, "Alpha", dash.Projects[0].Project.Name)
	assert.Equal(t, "Infra", dash.Projects[0].MacroName)
	assert.Empty(t, dash.Projects[1].MacroName)

	require.Len(t, dash.Upcoming, 2)
	assert.Equal(t, "Overdue", dash.Upcoming[0].Activity.Name)
	assert.Equal(t, -4, dash.Upcoming[0].DaysRemaining)
	assert.Equal(t, app.UrgencyOverdue, dash.Upcoming[0].Urgency)
	assert.Equal(t, "Due today", dash.Upcoming[1].Activity.Name)
	assert.Equal(t, app.UrgencyToday, dash.Upcoming[1].Urgency)
	assert.Equal(t, "Alpha", dash.Upcoming[1].ProjectName)

	filtered, err := svc.Dashboard(ctx, app.DashboardRequest{MacroProjectID: &macro.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.TotalProjects)

	missing := "missing"
	_, err = svc.Dashboard(ctx, app.DashboardRequest{MacroProjectID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDashboard_UpcomingLimitAndNow(t *testing.T) {
	f := newFixture(t)
	svc := f.progressService()
	p := f.project(t, "Busy")
	for _, name := range []string{"f", "e", "d", "c", "b", "a"} {
		f.activity(t, p.ID, name, testutil.WithDates("2024-01-01", "2024-02-01"))
	}

	now := testutil.Day("2024-01-30")
	dash, err := svc.Dashboard(context.Background(), app.DashboardRequest{Now: &now})
	require.NoError(t, err)
	require.Len(t, dash.Upcoming, app.UpcomingLimit)
	assert.Equal(t, "a", dash.Upcoming[0].Activity.Name, "ties break by name")
	assert.Equal(t, 2, dash.Upcoming[0].DaysRemaining)
	assert.Equal(t, app.UrgencySoon, dash.Upcoming[0].Urgency)
}

func TestDashboard_Empty(t *testing.T) {
	f := newFixture(t)
	dash, err := f.progressService().Dashboard(context.Background(), app.DashboardRequest{})
	require.NoError(t, err)
	assert.Zero(t, dash.TotalProjects)
	assert.Zero(t, dash.AverageCompletion)
	assert.Empty(t, dash.Upcoming)
}
