package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/avance/internal/backup"
	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_ExportImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	svc := NewSnapshotService(f.db, f.uow, nil, f.options()...)
	ctx := context.Background()
	p := f.project(t, "Bridge")
	root := f.activity(t, p.ID, "Phase")
	f.activity(t, p.ID, "Step", testutil.WithParent(root.ID))

	data, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(0), f.sink.calls.Load(), "export does not mutate")

	require.NoError(t, svc.Reset(ctx))
	_, err = f.projects.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Import(ctx, data))
	assert.Equal(t, []string{"Phase", "Step"}, f.names(t, p.ID))
	assert.Equal(t, int32(2), f.sink.calls.Load())
}

func TestSnapshot_MalformedImportKeepsStore(t *testing.T) {
	f := newFixture(t)
	svc := NewSnapshotService(f.db, f.uow, nil, f.options()...)
	p := f.project(t, "Bridge")

	err := svc.Import(context.Background(), []byte("definitely not sqlite"))
	require.ErrorIs(t, err, db.ErrMalformedSnapshot)

	_, err = f.projects.GetByID(context.Background(), p.ID)
	assert.NoError(t, err)
	assert.Equal(t, int32(0), f.sink.calls.Load())
}

func TestSnapshot_PushPull(t *testing.T) {
	f := newFixture(t)
	remote := backup.NewFileStore(filepath.Join(t.TempDir(), "remote.db"))
	svc := NewSnapshotService(f.db, f.uow, remote, f.options()...)
	ctx := context.Background()

	_, err := remote.Load(ctx)
	require.ErrorIs(t, err, backup.ErrNoSnapshot)

	p := f.project(t, "Bridge")
	require.NoError(t, svc.Push(ctx))

	require.NoError(t, svc.Reset(ctx))
	require.NoError(t, svc.Pull(ctx))

	got, err := f.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bridge", got.Name)
}

func TestSnapshot_NoRemote(t *testing.T) {
	f := newFixture(t)
	svc := NewSnapshotService(f.db, f.uow, nil)

	assert.ErrorIs(t, svc.Push(context.Background()), ErrNoRemote)
	assert.ErrorIs(t, svc.Pull(context.Background()), ErrNoRemote)
}
