package service

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CRUD(t *testing.T) {
	f := newFixture(t)
	svc := NewProjectService(f.projects, f.uow, f.options()...)
	ctx := context.Background()

	p := &domain.Project{Name: "  Bridge ", Responsible: " Ana "}
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Bridge", p.Name)
	assert.Equal(t, "Ana", p.Responsible)

	p.Name = "Bridge II"
	require.NoError(t, svc.Update(ctx, p))
	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bridge II", got.Name)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int32(3), f.sink.calls.Load())
}

func TestProjectService_Validation(t *testing.T) {
	f := newFixture(t)
	svc := NewProjectService(f.projects, f.uow, f.options()...)
	ctx := context.Background()

	err := svc.Create(ctx, &domain.Project{Name: "Bridge"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	missing := "missing"
	err = svc.Create(ctx, &domain.Project{Name: "Bridge", Responsible: "Ana", MacroProjectID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Update(ctx, &domain.Project{ID: "missing", Name: "x", Responsible: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_DeleteRemovesActivities(t *testing.T) {
	f := newFixture(t)
	svc := NewProjectService(f.projects, f.uow, f.options()...)
	ctx := context.Background()
	p := f.project(t, "Bridge")
	a := f.activity(t, p.ID, "Task")

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err := f.activities.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_ListByMacro(t *testing.T) {
	f := newFixture(t)
	svc := NewProjectService(f.projects, f.uow, f.options()...)
	ctx := context.Background()
	macro := testutil.NewTestMacroProject("Infra")
	require.NoError(t, f.macros.Create(ctx, macro))
	f.project(t, "b-in", testutil.WithMacroProject(macro.ID))
	f.project(t, "A-in", testutil.WithMacroProject(macro.ID))
	f.project(t, "out")

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	in, err := svc.List(ctx, &macro.ID)
	require.NoError(t, err)
	require.Len(t, in, 2)
	assert.Equal(t, "A-in", in[0].Name)
}

func TestMacroProjectService_DeleteKeepsProjects(t *testing.T) {
	f := newFixture(t)
	svc := NewMacroProjectService(f.macros, f.uow, f.options()...)
	ctx := context.Background()

	m := &domain.MacroProject{Name: "Infra"}
	require.NoError(t, svc.Create(ctx, m))
	p := f.project(t, "Bridge", testutil.WithMacroProject(m.ID))

	require.NoError(t, svc.Delete(ctx, m.ID))
	got, err := f.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MacroProjectID)

	assert.ErrorIs(t, svc.Delete(ctx, m.ID), domain.ErrNotFound)
	assert.Error(t, svc.Create(ctx, &domain.MacroProject{Name: "  "}))
}

func TestLogObserver_WarnsOnSnapshotError(t *testing.T) {
	var buf strings.Builder
	obs := NewLogUseCaseObserver(&buf)
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:    "save-activity",
		Success: true,
		Fields:  map[string]any{"snapshot_error": "disk full"},
	})
	assert.Contains(t, buf.String(), "snapshot_not_saved")
	assert.Contains(t, buf.String(), "disk full")
}
