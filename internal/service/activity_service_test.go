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

func TestSave_CreateRootAssignsIDAndReorders(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	ctx := context.Background()
	p := f.project(t, "Bridge")
	f.activity(t, p.ID, "Later", testutil.WithDates("2024-03-01", "2024-03-05"), testutil.WithOrder(1))

	res, err := svc.Save(ctx, app.SaveActivityRequest{
		ProjectID: p.ID,
		Name:      "  Earlier ",
		Kind:      domain.KindContinuous,
		StartDate: testutil.Day("2024-02-01"),
		EndDate:   testutil.Day("2024-02-10"),
	})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.NotEmpty(t, res.Activity.ID)
	assert.Equal(t, "Earlier", res.Activity.Name)
	assert.Equal(t, 1, res.Activity.Order)
	assert.Empty(t, res.Notices)

	assert.Equal(t, []string{"Earlier", "Later"}, f.names(t, p.ID))
	assert.Equal(t, int32(1), f.sink.calls.Load())
}

func TestSave_ChildBeforeParentIsClamped(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	p := f.project(t, "Bridge")
	parent := f.activity(t, p.ID, "Phase", testutil.WithDates("2024-01-10", "2024-01-31"))

	res, err := svc.Save(context.Background(), app.SaveActivityRequest{
		ProjectID: p.ID,
		ParentID:  &parent.ID,
		Name:      "Survey",
		Kind:      domain.KindContinuous,
		StartDate: testutil.Day("2024-01-02"),
		EndDate:   testutil.Day("2024-01-04"),
	})
	require.NoError(t, err)

	assert.Equal(t, testutil.Day("2024-01-10"), res.Activity.StartDate)
	assert.Equal(t, testutil.Day("2024-01-10"), res.Activity.EndDate, "end follows a start moved past it")
	require.Len(t, res.Notices, 1)
	assert.Equal(t, res.Activity.ID, res.Notices[0].ActivityID)
	assert.Contains(t, res.Notices[0].Message, "2024-01-02")

	stored := f.get(t, res.Activity.ID)
	assert.Equal(t, testutil.Day("2024-01-10"), stored.StartDate)
}

func TestSave_ChildJoinsParentWithoutReorderingRoots(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	p := f.project(t, "Bridge")
	// stored order deliberately not chronological
	late := f.activity(t, p.ID, "Late", testutil.WithDates("2024-02-01", "2024-02-10"), testutil.WithOrder(1))
	f.activity(t, p.ID, "Early", testutil.WithDates("2024-01-01", "2024-01-10"), testutil.WithOrder(2))

	_, err := svc.Save(context.Background(), app.SaveActivityRequest{
		ProjectID: p.ID,
		ParentID:  &late.ID,
		Name:      "Child",
		Kind:      domain.KindMeeting,
		StartDate: testutil.Day("2024-02-03"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Late", "Child", "Early"}, f.names(t, p.ID))
}

func TestSave_NewChildIsListedAfterItsParent(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	ctx := context.Background()
	p := f.project(t, "Bridge")

	save := func(name, start, end string, parentID *string) *domain.Activity {
		t.Helper()
		res, err := svc.Save(ctx, app.SaveActivityRequest{
			ProjectID: p.ID, ParentID: parentID, Name: name, Kind: domain.KindContinuous,
			StartDate: testutil.Day(start), EndDate: testutil.Day(end),
		})
		require.NoError(t, err)
		return res.Activity
	}
	save("Build", "2024-02-01", "2024-02-28", nil)
	design := save("Design", "2024-01-01", "2024-01-31", nil)
	survey := save("Survey", "2024-01-03", "2024-01-10", &design.ID)
	assert.Equal(t, 2, survey.Order)

	views, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	var names []string
	for _, v := range views {
		names = append(names, v.Activity.Name)
	}
	assert.Equal(t, []string{"Design", "Survey", "Build"}, names)
	assert.Equal(t, 1, views[1].Depth)
	assert.Equal(t, []string{"Design", "Survey", "Build"}, f.names(t, p.ID))
}

func TestListByProject_GroupsChildrenStoredOutOfPlace(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	p := f.project(t, "Bridge")
	a := f.activity(t, p.ID, "A", testutil.WithOrder(1))
	f.activity(t, p.ID, "B", testutil.WithOrder(2))
	f.activity(t, p.ID, "A1", testutil.WithParent(a.ID), testutil.WithOrder(3))

	views, err := svc.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "A", views[0].Activity.Name)
	assert.Equal(t, "A1", views[1].Activity.Name)
	assert.Equal(t, 1, views[1].Depth)
	assert.Equal(t, "B", views[2].Activity.Name)
}

func TestSave_EditRootStartCascadesToChildren(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	p := f.project(t, "Bridge")
	root := f.activity(t, p.ID, "Phase", testutil.WithDates("2024-01-01", "2024-01-31"))
	early := f.activity(t, p.ID, "Early", testutil.WithParent(root.ID), testutil.WithDates("2024-01-02", "2024-01-04"))
	late := f.activity(t, p.ID, "Late", testutil.WithParent(root.ID), testutil.WithDates("2024-01-20", "2024-01-25"))

	res, err := svc.Save(context.Background(), app.SaveActivityRequest{
		ID:        root.ID,
		Name:      "Phase",
		Kind:      domain.KindContinuous,
		StartDate: testutil.Day("2024-01-10"),
		EndDate:   testutil.Day("2024-01-31"),
	})
	require.NoError(t, err)
	assert.False(t, res.Created)
	require.Len(t, res.Adjusted, 1)
	assert.Equal(t, early.ID, res.Adjusted[0].ID)
	require.Len(t, res.Notices, 1)

	gotEarly := f.get(t, early.ID)
	assert.Equal(t, testutil.Day("2024-01-10"), gotEarly.StartDate)
	assert.Equal(t, testutil.Day("2024-01-10"), gotEarly.EndDate)

	gotLate := f.get(t, late.ID)
	assert.Equal(t, testutil.Day("2024-01-20"), gotLate.StartDate)
}

func TestSave_EditKeepsProjectAndRejectsMove(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	p := f.project(t, "A")
	other := f.project(t, "B")
	a := f.activity(t, p.ID, "Task")

	_, err := svc.Save(context.Background(), app.SaveActivityRequest{
		ID: a.ID, ProjectID: other.ID, Name: "Task", Kind: domain.KindContinuous,
		StartDate: a.StartDate, EndDate: a.EndDate,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, int32(0), f.sink.calls.Load(), "failed saves do not notify")
}

func TestSave_Validation(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	p := f.project(t, "Bridge")
	ctx := context.Background()

	_, err := svc.Save(ctx, app.SaveActivityRequest{
		ProjectID: p.ID, Name: "x", Kind: domain.KindContinuous,
		StartDate: testutil.Day("2024-01-10"), EndDate: testutil.Day("2024-01-01"),
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Save(ctx, app.SaveActivityRequest{
		ProjectID: "missing", Name: "x", Kind: domain.KindContinuous,
		StartDate: testutil.Day("2024-01-01"), EndDate: testutil.Day("2024-01-01"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Save(ctx, app.SaveActivityRequest{ID: "missing", Name: "x", Kind: domain.KindContinuous,
		StartDate: testutil.Day("2024-01-01"), EndDate: testutil.Day("2024-01-01")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSave_OneLevelOfNesting(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	ctx := context.Background()
	p := f.project(t, "Bridge")
	other := f.project(t, "Other")
	root := f.activity(t, p.ID, "Root")
	child := f.activity(t, p.ID, "Child", testutil.WithParent(root.ID))
	foreign := f.activity(t, other.ID, "Foreign")
	loner := f.activity(t, p.ID, "Loner")

	req := func(id string, parent *string) app.SaveActivityRequest {
		return app.SaveActivityRequest{
			ID: id, ProjectID: p.ID, ParentID: parent, Name: "x", Kind: domain.KindContinuous,
			StartDate: testutil.Day("2024-01-05"), EndDate: testutil.Day("2024-01-06"),
		}
	}

	_, err := svc.Save(ctx, req("", &child.ID))
	require.Error(t, err, "grandchildren are rejected")
	assert.Contains(t, err.Error(), "sub-activit")

	_, err = svc.Save(ctx, req("", &foreign.ID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another project")

	_, err = svc.Save(ctx, req(root.ID, &loner.ID))
	require.Error(t, err, "an activity with children cannot become a child")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Save(ctx, req(loner.ID, &loner.ID))
	require.Error(t, err)

	missing := "nope"
	_, err = svc.Save(ctx, req("", &missing))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestSave_KindNormalization(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	p := f.project(t, "Bridge")

	res, err := svc.Save(context.Background(), app.SaveActivityRequest{
		ProjectID: p.ID, Name: "Standup", Kind: domain.KindMeeting, Approved: true,
		StartDate: testutil.Day("2024-01-05"), EndDate: testutil.Day("2024-01-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, res.Activity.StartDate, res.Activity.EndDate)
	assert.Equal(t, 100, res.Activity.ProgressPct)

	res, err = svc.Save(context.Background(), app.SaveActivityRequest{
		ProjectID: p.ID, Name: "Points", Kind: domain.KindPoints, ProgressPct: 250,
		StartDate: testutil.Day("2024-01-05"), EndDate: testutil.Day("2024-01-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Activity.ProgressPct)
}

func TestDelete_ChildrenBecomeRoots(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	ctx := context.Background()
	p := f.project(t, "Bridge")
	root := f.activity(t, p.ID, "Root", testutil.WithOrder(1))
	child := f.activity(t, p.ID, "Child", testutil.WithParent(root.ID), testutil.WithOrder(2))
	f.activity(t, p.ID, "Next", testutil.WithOrder(3))

	require.NoError(t, svc.Delete(ctx, root.ID))

	got := f.get(t, child.ID)
	assert.Nil(t, got.ParentID)
	assert.Equal(t, 2, got.Order, "remaining activities keep their position")
	assert.Equal(t, []string{"Child", "Next"}, f.names(t, p.ID))

	assert.ErrorIs(t, svc.Delete(ctx, root.ID), domain.ErrNotFound)
}

func TestApplyManualOrder_KeepsChildrenWithParent(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	ctx := context.Background()
	p := f.project(t, "Bridge")
	a := f.activity(t, p.ID, "A", testutil.WithOrder(1))
	a1 := f.activity(t, p.ID, "A1", testutil.WithParent(a.ID), testutil.WithOrder(2))
	b := f.activity(t, p.ID, "B", testutil.WithOrder(3))

	// drag A1 to the end and B to the front
	require.NoError(t, svc.ApplyManualOrder(ctx, p.ID, []string{b.ID, a.ID, a1.ID}))
	assert.Equal(t, []string{"B", "A", "A1"}, f.names(t, p.ID))

	require.NoError(t, svc.ApplyManualOrder(ctx, p.ID, []string{a1.ID, b.ID, a.ID}))
	assert.Equal(t, []string{"B", "A", "A1"}, f.names(t, p.ID))

	err := svc.ApplyManualOrder(ctx, p.ID, []string{a.ID, b.ID})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	assert.ErrorIs(t, svc.ApplyManualOrder(ctx, "missing", nil), domain.ErrNotFound)
}

func TestReorderChronologically(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	p := f.project(t, "Bridge")
	f.activity(t, p.ID, "C", testutil.WithDates("2024-03-01", "2024-03-02"), testutil.WithOrder(1))
	a := f.activity(t, p.ID, "A", testutil.WithDates("2024-01-01", "2024-01-02"), testutil.WithOrder(2))
	f.activity(t, p.ID, "B", testutil.WithDates("2024-02-01", "2024-02-02"), testutil.WithOrder(3))
	f.activity(t, p.ID, "A1", testutil.WithParent(a.ID), testutil.WithDates("2024-01-01", "2024-01-02"), testutil.WithOrder(4))

	require.NoError(t, svc.ReorderChronologically(context.Background(), p.ID))
	assert.Equal(t, []string{"A", "A1", "B", "C"}, f.names(t, p.ID))
}

func TestListByProject_Views(t *testing.T) {
	f := newFixture(t)
	svc := f.activityService()
	ctx := context.Background()
	p := f.project(t, "Bridge")
	root := f.activity(t, p.ID, "Root", testutil.WithOrder(1))
	f.activity(t, p.ID, "Done", testutil.WithParent(root.ID), testutil.WithApproved(), testutil.WithOrder(2))
	f.activity(t, p.ID, "Half", testutil.WithParent(root.ID), testutil.WithProgress(50), testutil.WithOrder(3))

	views, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.True(t, views[0].HasChildren)
	assert.Equal(t, 0, views[0].Depth)
	assert.Equal(t, 75, views[0].Progress)
	assert.Equal(t, 1, views[1].Depth)
	assert.Equal(t, 100, views[1].Progress)

	pct, err := svc.BranchProgress(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, pct)

	_, err = svc.ListByProject(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSave_RollsBackOnWriteFailure(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Bridge")
	root := f.activity(t, p.ID, "Phase", testutil.WithDates("2024-01-01", "2024-01-31"))
	child := f.activity(t, p.ID, "Child", testutil.WithParent(root.ID), testutil.WithDates("2024-01-02", "2024-01-03"))

	// first exec updates the root, second the cascaded child
	uow := &testutil.FailOnNthExecUoW{DB: f.db, FailOn: 2, Err: errInjected}
	svc := NewActivityService(f.projects, f.activities, uow, f.options()...)

	_, err := svc.Save(context.Background(), app.SaveActivityRequest{
		ID: root.ID, Name: "Phase", Kind: domain.KindContinuous,
		StartDate: testutil.Day("2024-01-15"), EndDate: testutil.Day("2024-01-31"),
	})
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, testutil.Day("2024-01-01"), f.get(t, root.ID).StartDate)
	assert.Equal(t, testutil.Day("2024-01-02"), f.get(t, child.ID).StartDate)
}

func TestSave_SinkFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.sink.err = errInjected
	svc := f.activityService()
	p := f.project(t, "Bridge")

	res, err := svc.Save(context.Background(), app.SaveActivityRequest{
		ProjectID: p.ID, Name: "Task", Kind: domain.KindContinuous,
		StartDate: testutil.Day("2024-01-01"), EndDate: testutil.Day("2024-01-02"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Activity)

	events := f.observer.Events()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "save-activity", last.Name)
	assert.True(t, last.Success)
	assert.Equal(t, errInjected.Error(), last.Fields["snapshot_error"])
}
