package service

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/repository"
	"github.com/alexanderramin/avance/internal/testutil"
	"github.com/stretchr/testify/require"
)

// countingSink records Notify calls and optionally fails them.
type countingSink struct {
	calls atomic.Int32
	err   error
}

func (s *countingSink) Notify(context.Context) error {
	s.calls.Add(1)
	return s.err
}

type fixture struct {
	db         *sql.DB
	uow        db.UnitOfWork
	macros     repository.MacroProjectRepo
	projects   repository.ProjectRepo
	activities repository.ActivityRepo
	sink       *countingSink
	observer   *RecordingUseCaseObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &fixture{
		db:         database,
		uow:        testutil.NewTestUoW(database),
		macros:     repository.NewSQLiteMacroProjectRepo(database),
		projects:   repository.NewSQLiteProjectRepo(database),
		activities: repository.NewSQLiteActivityRepo(database),
		sink:       &countingSink{},
		observer:   &RecordingUseCaseObserver{},
	}
}

// options fixes today at 2024-01-05.
func (f *fixture) options() []Option {
	return []Option{
		WithSnapshotSink(f.sink),
		WithObserver(f.observer),
		WithClock(func() time.Time { return testutil.Day("2024-01-05") }),
	}
}

func (f *fixture) activityService() ActivityService {
	return NewActivityService(f.projects, f.activities, f.uow, f.options()...)
}

func (f *fixture) project(t *testing.T, name string, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name, opts...)
	require.NoError(t, f.projects.Create(context.Background(), p))
	return p
}

func (f *fixture) activity(t *testing.T, projectID, name string, opts ...testutil.ActivityOption) *domain.Activity {
	t.Helper()
	a := testutil.NewTestActivity(projectID, name, opts...)
	require.NoError(t, f.activities.Create(context.Background(), a))
	return a
}

// names returns the project's activity names in stored order.
func (f *fixture) names(t *testing.T, projectID string) []string {
	t.Helper()
	acts, err := f.activities.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	out := make([]string, 0, len(acts))
	for _, a := range acts {
		out = append(out, a.Name)
	}
	return out
}

func (f *fixture) get(t *testing.T, id string) *domain.Activity {
	t.Helper()
	a, err := f.activities.GetByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

var errInjected = errors.New("injected failure")
