package service

import (
	"context"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/importer"
	"github.com/alexanderramin/avance/internal/progress"
)

type MacroProjectService interface {
	Create(ctx context.Context, m *domain.MacroProject) error
	GetByID(ctx context.Context, id string) (*domain.MacroProject, error)
	List(ctx context.Context) ([]*domain.MacroProject, error)
	Update(ctx context.Context, m *domain.MacroProject) error
	Delete(ctx context.Context, id string) error
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// List returns projects ordered by name, optionally only those of one
	// macro-project.
	List(ctx context.Context, macroProjectID *string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type ActivityService interface {
	Save(ctx context.Context, req app.SaveActivityRequest) (*app.SaveActivityResult, error)
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]app.ActivityView, error)
	Delete(ctx context.Context, id string) error
	ReorderChronologically(ctx context.Context, projectID string) error
	ApplyManualOrder(ctx context.Context, projectID string, orderedIDs []string) error
	BranchProgress(ctx context.Context, activityID string) (int, error)
}

type ProgressService interface {
	ProjectCompletion(ctx context.Context, projectID string) (int, error)
	ProjectStatus(ctx context.Context, projectID string) (domain.ProjectStatus, error)
	ProjectSummary(ctx context.Context, projectID string) (*progress.Summary, error)
	Dashboard(ctx context.Context, req app.DashboardRequest) (*app.Dashboard, error)
}

type CopyService interface {
	Copy(ctx context.Context, req app.CopyRequest) (*app.CopyResult, error)
}

type SnapshotService interface {
	Export(ctx context.Context) ([]byte, error)
	// Import replaces the store with data. A malformed snapshot leaves the
	// store untouched.
	Import(ctx context.Context, data []byte) error
	Reset(ctx context.Context) error
	// Push uploads the current snapshot to the remote store and waits for it.
	Push(ctx context.Context) error
	// Pull replaces the store with the remote snapshot.
	Pull(ctx context.Context) error
}

type PlanService interface {
	ImportPlan(ctx context.Context, plan *importer.Plan) (*app.ImportPlanResult, error)
	ExportPlan(ctx context.Context, projectID string) (*importer.Plan, error)
}

var (
	_ app.SaveActivityUseCase   = ActivityService(nil)
	_ app.DashboardUseCase      = ProgressService(nil)
	_ app.CopyActivitiesUseCase = CopyService(nil)
	_ app.ImportPlanUseCase     = PlanService(nil)
)
