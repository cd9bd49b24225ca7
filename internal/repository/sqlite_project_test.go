package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacroProjectRepo_CRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMacroProjectRepo(db)
	ctx := context.Background()

	m := testutil.NewTestMacroProject("Plant")
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plant", got.Name)
	assert.Equal(t, "Plant portfolio", got.Description)

	got.Name = "Plant North"
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Plant North", list[0].Name)

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMacroProjectRepo_UpdateMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMacroProjectRepo(db)

	err := repo.Update(context.Background(), &domain.MacroProject{ID: "nope", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), domain.ErrNotFound)
}

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	macros := NewSQLiteMacroProjectRepo(db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	m := testutil.NewTestMacroProject("Plant")
	require.NoError(t, macros.Create(ctx, m))

	p := testutil.NewTestProject("Line A", testutil.WithResponsible("Ana"), testutil.WithMacroProject(m.ID))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Line A", got.Name)
	assert.Equal(t, "Ana", got.Responsible)
	require.NotNil(t, got.MacroProjectID)
	assert.Equal(t, m.ID, *got.MacroProjectID)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestProjectRepo_ListOrderedByNameAndFiltered(t *testing.T) {
	db := testutil.NewTestDB(t)
	macros := NewSQLiteMacroProjectRepo(db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	m := testutil.NewTestMacroProject("Plant")
	require.NoError(t, macros.Create(ctx, m))

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("zeta")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithMacroProject(m.ID))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("beta", testutil.WithMacroProject(m.ID))))

	all, err := repo.List(ctx, ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, []string{all[0].Name, all[1].Name, all[2].Name})

	inMacro, err := repo.List(ctx, ProjectFilter{MacroProjectID: &m.ID})
	require.NoError(t, err)
	assert.Len(t, inMacro, 2)
}

func TestProjectRepo_UpdateClearsMacro(t *testing.T) {
	db := testutil.NewTestDB(t)
	macros := NewSQLiteMacroProjectRepo(db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	m := testutil.NewTestMacroProject("Plant")
	require.NoError(t, macros.Create(ctx, m))
	p := testutil.NewTestProject("Line A", testutil.WithMacroProject(m.ID))
	require.NoError(t, repo.Create(ctx, p))

	p.MacroProjectID = nil
	p.Responsible = "Bo"
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MacroProjectID)
	assert.Equal(t, "Bo", got.Responsible)
}
