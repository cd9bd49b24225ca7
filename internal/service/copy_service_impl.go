package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/replication"
	"github.com/alexanderramin/avance/internal/repository"
)

type copyService struct {
	uow  db.UnitOfWork
	opts *options
}

func NewCopyService(uow db.UnitOfWork, opts ...Option) CopyService {
	return &copyService{uow: uow, opts: newOptions(opts)}
}

// Copy duplicates the requested activities into the destination project.
// Copies are appended after the destination's last activity and the
// destination is not reordered.
func (s *copyService) Copy(ctx context.Context, req app.CopyRequest) (result *app.CopyResult, err error) {
	uc := s.opts.begin("copy-activities", true, map[string]any{
		"source_project_id": req.SourceProjectID,
		"dest_project_id":   req.DestProjectID,
		"selected":          len(req.ActivityIDs),
	})
	defer uc.finish(ctx, &err)

	if len(req.ActivityIDs) == 0 {
		return nil, &domain.ValidationError{Field: "ids", Message: "select at least one activity to copy"}
	}

	result = &app.CopyResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		acts := repository.NewSQLiteActivityRepo(tx)

		if _, err := projects.GetByID(ctx, req.DestProjectID); err != nil {
			return fmt.Errorf("destination: %w", err)
		}

		sourceID := req.SourceProjectID
		if sourceID == "" {
			first, err := acts.GetByID(ctx, req.ActivityIDs[0])
			if err != nil {
				return err
			}
			sourceID = first.ProjectID
		}
		source, err := acts.ListByProject(ctx, sourceID)
		if err != nil {
			return err
		}

		inSource := make(map[string]bool, len(source))
		for _, a := range source {
			inSource[a.ID] = true
		}
		selected := make(map[string]bool, len(req.ActivityIDs))
		for _, id := range req.ActivityIDs {
			if !inSource[id] {
				return fmt.Errorf("activity %s in project %s: %w", id, sourceID, domain.ErrNotFound)
			}
			selected[id] = true
		}

		maxOrder, err := acts.MaxOrder(ctx, req.DestProjectID)
		if err != nil {
			return err
		}

		plan := replication.NewPlan(source, req.DestProjectID, maxOrder+1, s.opts.newID, req.Options)
		for _, root := range replication.SelectionRoots(source, selected) {
			if err := plan.CopySubtree(root.ID); err != nil {
				return err
			}
		}
		for _, c := range plan.Copies {
			if err := acts.Create(ctx, c); err != nil {
				return err
			}
		}
		result.Copies = plan.Copies
		result.Mapping = plan.Mapping
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.fields["copied"] = len(result.Copies)
	return result, nil
}
