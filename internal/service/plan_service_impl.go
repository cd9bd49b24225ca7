package service

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/dates"
	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/importer"
	"github.com/alexanderramin/avance/internal/repository"
)

type planService struct {
	macros     repository.MacroProjectRepo
	projects   repository.ProjectRepo
	activities repository.ActivityRepo
	uow        db.UnitOfWork
	opts       *options
}

func NewPlanService(
	macros repository.MacroProjectRepo,
	projects repository.ProjectRepo,
	activities repository.ActivityRepo,
	uow db.UnitOfWork,
	opts ...Option,
) PlanService {
	return &planService{macros: macros, projects: projects, activities: activities, uow: uow, opts: newOptions(opts)}
}

// ImportPlan creates the plan's project and activities in one transaction,
// creating the named macro-project if no macro-project has that name, and
// then orders the project chronologically. Sub-activities starting before
// their parent are moved to the parent's start and reported as notices.
func (s *planService) ImportPlan(ctx context.Context, plan *importer.Plan) (result *app.ImportPlanResult, err error) {
	uc := s.opts.begin("import-plan", true, map[string]any{"project": plan.Project.Name})
	defer uc.finish(ctx, &err)

	if errs := importer.ValidatePlan(plan); len(errs) > 0 {
		return nil, &domain.ValidationError{Field: "plan", Message: errors.Join(errs...).Error()}
	}
	conv, err := importer.Convert(plan, s.opts.newID)
	if err != nil {
		return nil, err
	}
	notices := clampChildStarts(conv.Activities)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		macros := repository.NewSQLiteMacroProjectRepo(tx)
		acts := repository.NewSQLiteActivityRepo(tx)

		if conv.MacroProject != "" {
			id, err := findOrCreateMacro(ctx, macros, conv.MacroProject, s.opts.newID)
			if err != nil {
				return err
			}
			conv.Project.MacroProjectID = &id
		}
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, conv.Project); err != nil {
			return err
		}

		// parents first so parent references resolve on insert
		for _, roots := range []bool{true, false} {
			for _, a := range conv.Activities {
				if a.IsRoot() != roots {
					continue
				}
				if err := acts.Create(ctx, a); err != nil {
					return err
				}
			}
		}
		return reorderChronologically(ctx, acts, conv.Project.ID)
	})
	if err != nil {
		return nil, err
	}
	uc.fields["activities"] = len(conv.Activities)
	return &app.ImportPlanResult{Project: conv.Project, ActivityCount: len(conv.Activities), Notices: notices}, nil
}

func (s *planService) ExportPlan(ctx context.Context, projectID string) (*importer.Plan, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var macroName string
	if p.MacroProjectID != nil {
		m, err := s.macros.GetByID(ctx, *p.MacroProjectID)
		if err != nil {
			return nil, err
		}
		macroName = m.Name
	}
	acts, err := s.activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return importer.FromProject(p, macroName, acts), nil
}

// clampChildStarts applies the parent-start rule Save enforces to freshly
// converted activities, extending end dates that would fall before the new
// start.
func clampChildStarts(acts []*domain.Activity) []dates.Notice {
	byID := make(map[string]*domain.Activity, len(acts))
	for _, a := range acts {
		byID[a.ID] = a
	}
	var notices []dates.Notice
	for _, a := range acts {
		if a.IsRoot() {
			continue
		}
		start, notice := dates.ResolveChildStart(a.StartDate, byID[*a.ParentID])
		if notice == nil {
			continue
		}
		a.StartDate = start
		if a.EndDate.Before(start) {
			a.EndDate = start
		}
		a.Normalize()
		notice.ActivityID = a.ID
		notices = append(notices, *notice)
	}
	return notices
}

func findOrCreateMacro(ctx context.Context, macros repository.MacroProjectRepo, name string, newID func() string) (string, error) {
	all, err := macros.List(ctx)
	if err != nil {
		return "", err
	}
	for _, m := range all {
		if strings.EqualFold(m.Name, name) {
			return m.ID, nil
		}
	}
	m := &domain.MacroProject{ID: newID(), Name: name}
	if err := macros.Create(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}
