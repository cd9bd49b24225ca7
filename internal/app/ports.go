package app

import (
	"context"

	"github.com/alexanderramin/avance/internal/dates"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/importer"
)

type SaveActivityUseCase interface {
	Save(ctx context.Context, req SaveActivityRequest) (*SaveActivityResult, error)
}

type DashboardUseCase interface {
	Dashboard(ctx context.Context, req DashboardRequest) (*Dashboard, error)
}

type CopyActivitiesUseCase interface {
	Copy(ctx context.Context, req CopyRequest) (*CopyResult, error)
}

type ImportPlanResult struct {
	Project       *domain.Project
	ActivityCount int
	Notices       []dates.Notice
}

type ImportPlanUseCase interface {
	ImportPlan(ctx context.Context, plan *importer.Plan) (*ImportPlanResult, error)
}
