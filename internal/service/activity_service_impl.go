package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/dates"
	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/ordering"
	"github.com/alexanderramin/avance/internal/progress"
	"github.com/alexanderramin/avance/internal/repository"
)

type activityService struct {
	projects   repository.ProjectRepo
	activities repository.ActivityRepo
	uow        db.UnitOfWork
	opts       *options
}

func NewActivityService(
	projects repository.ProjectRepo,
	activities repository.ActivityRepo,
	uow db.UnitOfWork,
	opts ...Option,
) ActivityService {
	return &activityService{projects: projects, activities: activities, uow: uow, opts: newOptions(opts)}
}

// Save creates or edits an activity. A sub-activity starting before its
// parent is moved to the parent's start; editing a root's start date moves
// its direct children likewise. Saving a root reorders the project
// chronologically; saving a sub-activity only moves it next to its parent.
func (s *activityService) Save(ctx context.Context, req app.SaveActivityRequest) (result *app.SaveActivityResult, err error) {
	fields := map[string]any{"project_id": req.ProjectID}
	if req.ID != "" {
		fields["activity_id"] = req.ID
	}
	uc := s.opts.begin("save-activity", true, fields)
	defer uc.finish(ctx, &err)

	a := req.Activity()
	a.Normalize()

	result = &app.SaveActivityResult{Created: a.ID == ""}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		acts := repository.NewSQLiteActivityRepo(tx)

		var existing *domain.Activity
		if !result.Created {
			var err error
			if existing, err = acts.GetByID(ctx, a.ID); err != nil {
				return err
			}
			if a.ProjectID == "" {
				a.ProjectID = existing.ProjectID
			} else if a.ProjectID != existing.ProjectID {
				return &domain.ValidationError{Field: "project", Message: "an activity cannot move to another project; copy it instead"}
			}
			a.Order = existing.Order
		}

		if err := a.Validate(); err != nil {
			return err
		}
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, a.ProjectID); err != nil {
			return err
		}

		if a.ParentID != nil {
			parent, err := s.checkParent(ctx, acts, a)
			if err != nil {
				return err
			}
			if start, notice := dates.ResolveChildStart(a.StartDate, parent); notice != nil {
				a.StartDate = start
				if a.EndDate.Before(start) {
					a.EndDate = start
				}
				a.Normalize()
				notice.ActivityID = a.ID
				result.Notices = append(result.Notices, *notice)
			}
		}

		if result.Created {
			a.ID = s.opts.newID()
			for i := range result.Notices {
				result.Notices[i].ActivityID = a.ID
			}
			maxOrder, err := acts.MaxOrder(ctx, a.ProjectID)
			if err != nil {
				return err
			}
			a.Order = maxOrder + 1
			if err := acts.Create(ctx, a); err != nil {
				return err
			}
		} else if err := acts.Update(ctx, a); err != nil {
			return err
		}

		if existing != nil && a.IsRoot() && !a.StartDate.Equal(existing.StartDate) {
			children, err := acts.ListChildren(ctx, a.ID)
			if err != nil {
				return err
			}
			for _, c := range dates.CascadeChildStarts(children, a.StartDate) {
				c.Normalize()
				if err := acts.Update(ctx, c); err != nil {
					return err
				}
				result.Adjusted = append(result.Adjusted, c)
				result.Notices = append(result.Notices, dates.Notice{
					ActivityID: c.ID,
					Message: fmt.Sprintf("start date of %q moved to %s to follow its parent",
						c.Name, domain.FormatDate(c.StartDate)),
				})
			}
		}

		reorder := regroup
		if a.IsRoot() {
			reorder = reorderChronologically
		}
		if err := reorder(ctx, acts, a.ProjectID); err != nil {
			return err
		}
		stored, err := acts.GetByID(ctx, a.ID)
		if err != nil {
			return err
		}
		result.Activity = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["activity_id"] = result.Activity.ID
	fields["notices"] = len(result.Notices)
	return result, nil
}

// checkParent enforces one level of nesting: the parent must be a root of
// the same project and a with sub-activities cannot become a child itself.
func (s *activityService) checkParent(ctx context.Context, acts repository.ActivityRepo, a *domain.Activity) (*domain.Activity, error) {
	parent, err := acts.GetByID(ctx, *a.ParentID)
	if err != nil {
		return nil, &domain.ValidationError{Field: "parent", Message: fmt.Sprintf("parent activity %s does not exist", *a.ParentID)}
	}
	if parent.ID == a.ID {
		return nil, &domain.ValidationError{Field: "parent", Message: "an activity cannot be its own parent"}
	}
	if parent.ProjectID != a.ProjectID {
		return nil, &domain.ValidationError{Field: "parent", Message: "parent activity belongs to another project"}
	}
	if !parent.IsRoot() {
		return nil, &domain.ValidationError{Field: "parent", Message: fmt.Sprintf("%q is a sub-activity and cannot have sub-activities", parent.Name)}
	}
	if a.ID != "" {
		children, err := acts.ListChildren(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if len(children) > 0 {
			return nil, &domain.ValidationError{Field: "parent", Message: fmt.Sprintf("%q has sub-activities and cannot become one", a.Name)}
		}
	}
	return parent, nil
}

func (s *activityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

// ListByProject returns the project's activities in display order with
// their derived progress.
func (s *activityService) ListByProject(ctx context.Context, projectID string) ([]app.ActivityView, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	acts, err := s.activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return activityViews(acts)
}

func activityViews(acts []*domain.Activity) ([]app.ActivityView, error) {
	pct, err := progress.ActivityProgress(acts)
	if err != nil {
		return nil, err
	}
	tree := domain.NewActivityTree(acts)
	views := make([]app.ActivityView, 0, len(acts))
	for _, id := range ordering.Grouped(acts) {
		a, _ := tree.Get(id)
		v := app.ActivityView{Activity: a, Progress: pct[a.ID], HasChildren: tree.HasChildren(a.ID)}
		if a.ParentID != nil {
			if _, ok := tree.Get(*a.ParentID); ok {
				v.Depth = 1
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// Delete removes the activity. Its sub-activities stay in the project as
// roots of their own and keep their position.
func (s *activityService) Delete(ctx context.Context, id string) (err error) {
	uc := s.opts.begin("delete-activity", true, map[string]any{"activity_id": id})
	defer uc.finish(ctx, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteActivityRepo(tx).Delete(ctx, id)
	})
}

func (s *activityService) ReorderChronologically(ctx context.Context, projectID string) (err error) {
	uc := s.opts.begin("reorder-chronologically", true, map[string]any{"project_id": projectID})
	defer uc.finish(ctx, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID); err != nil {
			return err
		}
		return reorderChronologically(ctx, repository.NewSQLiteActivityRepo(tx), projectID)
	})
}

// ApplyManualOrder stores a caller-chosen order. The IDs must name every
// activity of the project once; sub-activities are kept right after their
// parent.
func (s *activityService) ApplyManualOrder(ctx context.Context, projectID string, orderedIDs []string) (err error) {
	uc := s.opts.begin("apply-manual-order", true, map[string]any{"project_id": projectID, "count": len(orderedIDs)})
	defer uc.finish(ctx, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID); err != nil {
			return err
		}
		acts := repository.NewSQLiteActivityRepo(tx)
		current, err := acts.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		ids, err := ordering.Manual(current, orderedIDs)
		if err != nil {
			return err
		}
		return acts.SetOrders(ctx, ordering.Assign(ids))
	})
}

func (s *activityService) BranchProgress(ctx context.Context, activityID string) (int, error) {
	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return 0, err
	}
	acts, err := s.activities.ListByProject(ctx, a.ProjectID)
	if err != nil {
		return 0, err
	}
	return progress.BranchProgress(activityID, acts)
}

func reorderChronologically(ctx context.Context, acts repository.ActivityRepo, projectID string) error {
	current, err := acts.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	return acts.SetOrders(ctx, ordering.Assign(ordering.Chronological(current)))
}

// regroup renumbers the project so every sub-activity sits right after its
// parent without moving any root.
func regroup(ctx context.Context, acts repository.ActivityRepo, projectID string) error {
	current, err := acts.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	return acts.SetOrders(ctx, ordering.Assign(ordering.Grouped(current)))
}
