package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/repository"
)

type macroProjectService struct {
	macros repository.MacroProjectRepo
	uow    db.UnitOfWork
	opts   *options
}

func NewMacroProjectService(macros repository.MacroProjectRepo, uow db.UnitOfWork, opts ...Option) MacroProjectService {
	return &macroProjectService{macros: macros, uow: uow, opts: newOptions(opts)}
}

func (s *macroProjectService) Create(ctx context.Context, m *domain.MacroProject) (err error) {
	uc := s.opts.begin("create-macro-project", true, map[string]any{"name": m.Name})
	defer uc.finish(ctx, &err)

	m.Name = strings.TrimSpace(m.Name)
	m.Description = strings.TrimSpace(m.Description)
	if err = m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = s.opts.newID()
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteMacroProjectRepo(tx).Create(ctx, m)
	})
}

func (s *macroProjectService) GetByID(ctx context.Context, id string) (*domain.MacroProject, error) {
	return s.macros.GetByID(ctx, id)
}

func (s *macroProjectService) List(ctx context.Context) ([]*domain.MacroProject, error) {
	return s.macros.List(ctx)
}

func (s *macroProjectService) Update(ctx context.Context, m *domain.MacroProject) (err error) {
	uc := s.opts.begin("update-macro-project", true, map[string]any{"macro_project_id": m.ID})
	defer uc.finish(ctx, &err)

	m.Name = strings.TrimSpace(m.Name)
	m.Description = strings.TrimSpace(m.Description)
	if err = m.Validate(); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteMacroProjectRepo(tx).Update(ctx, m)
	})
}

// Delete removes the macro-project. Its projects are kept, unassigned.
func (s *macroProjectService) Delete(ctx context.Context, id string) (err error) {
	uc := s.opts.begin("delete-macro-project", true, map[string]any{"macro_project_id": id})
	defer uc.finish(ctx, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteMacroProjectRepo(tx).Delete(ctx, id)
	})
}

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	opts     *options
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, opts ...Option) ProjectService {
	return &projectService{projects: projects, uow: uow, opts: newOptions(opts)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	uc := s.opts.begin("create-project", true, map[string]any{"name": p.Name})
	defer uc.finish(ctx, &err)

	normalizeProject(p)
	if err = p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = s.opts.newID()
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := checkMacroProject(ctx, tx, p.MacroProjectID); err != nil {
			return err
		}
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, macroProjectID *string) ([]*domain.Project, error) {
	return s.projects.List(ctx, repository.ProjectFilter{MacroProjectID: macroProjectID})
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	uc := s.opts.begin("update-project", true, map[string]any{"project_id": p.ID})
	defer uc.finish(ctx, &err)

	normalizeProject(p)
	if err = p.Validate(); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := checkMacroProject(ctx, tx, p.MacroProjectID); err != nil {
			return err
		}
		return repository.NewSQLiteProjectRepo(tx).Update(ctx, p)
	})
}

// Delete removes the project together with all of its activities.
func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	uc := s.opts.begin("delete-project", true, map[string]any{"project_id": id})
	defer uc.finish(ctx, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Delete(ctx, id)
	})
}

func normalizeProject(p *domain.Project) {
	p.Name = strings.TrimSpace(p.Name)
	p.Responsible = strings.TrimSpace(p.Responsible)
	if p.MacroProjectID != nil && strings.TrimSpace(*p.MacroProjectID) == "" {
		p.MacroProjectID = nil
	}
}

func checkMacroProject(ctx context.Context, tx db.DBTX, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := repository.NewSQLiteMacroProjectRepo(tx).GetByID(ctx, *id); err != nil {
		return fmt.Errorf("assigning macro-project: %w", err)
	}
	return nil
}
