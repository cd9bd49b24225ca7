package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/avance/internal/backup"
	"github.com/alexanderramin/avance/internal/db"
)

// ErrNoRemote is returned by Push and Pull when no remote store is configured.
var ErrNoRemote = errors.New("no remote snapshot store configured")

type snapshotService struct {
	db     *sql.DB
	uow    db.UnitOfWork
	remote backup.Store
	opts   *options
}

// NewSnapshotService wires snapshot use cases. remote may be nil.
func NewSnapshotService(database *sql.DB, uow db.UnitOfWork, remote backup.Store, opts ...Option) SnapshotService {
	return &snapshotService{db: database, uow: uow, remote: remote, opts: newOptions(opts)}
}

func (s *snapshotService) Export(ctx context.Context) (data []byte, err error) {
	uc := s.opts.begin("export-snapshot", false, nil)
	defer uc.finish(ctx, &err)

	data, err = db.ExportSnapshot(ctx, s.db)
	uc.fields["bytes"] = len(data)
	return data, err
}

func (s *snapshotService) Import(ctx context.Context, data []byte) (err error) {
	uc := s.opts.begin("import-snapshot", true, map[string]any{"bytes": len(data)})
	defer uc.finish(ctx, &err)

	return db.ImportSnapshot(ctx, s.db, data)
}

func (s *snapshotService) Reset(ctx context.Context) (err error) {
	uc := s.opts.begin("reset-store", true, nil)
	defer uc.finish(ctx, &err)

	return db.Reset(ctx, s.uow)
}

func (s *snapshotService) Push(ctx context.Context) (err error) {
	uc := s.opts.begin("push-snapshot", false, nil)
	defer uc.finish(ctx, &err)

	if s.remote == nil {
		return ErrNoRemote
	}
	data, err := db.ExportSnapshot(ctx, s.db)
	if err != nil {
		return err
	}
	uc.fields["bytes"] = len(data)
	if err := s.remote.Save(ctx, data); err != nil {
		return fmt.Errorf("uploading snapshot: %w", err)
	}
	return nil
}

func (s *snapshotService) Pull(ctx context.Context) (err error) {
	uc := s.opts.begin("pull-snapshot", true, nil)
	defer uc.finish(ctx, &err)

	if s.remote == nil {
		return ErrNoRemote
	}
	data, err := s.remote.Load(ctx)
	if err != nil {
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	uc.fields["bytes"] = len(data)
	return db.ImportSnapshot(ctx, s.db, data)
}
