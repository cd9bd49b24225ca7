package service

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/progress"
	"github.com/alexanderramin/avance/internal/repository"
)

type progressService struct {
	macros     repository.MacroProjectRepo
	projects   repository.ProjectRepo
	activities repository.ActivityRepo
	opts       *options
}

func NewProgressService(
	macros repository.MacroProjectRepo,
	projects repository.ProjectRepo,
	activities repository.ActivityRepo,
	opts ...Option,
) ProgressService {
	return &progressService{macros: macros, projects: projects, activities: activities, opts: newOptions(opts)}
}

func (s *progressService) projectActivities(ctx context.Context, projectID string) ([]*domain.Activity, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.activities.ListByProject(ctx, projectID)
}

func (s *progressService) ProjectCompletion(ctx context.Context, projectID string) (int, error) {
	acts, err := s.projectActivities(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return progress.ProjectCompletion(acts), nil
}

func (s *progressService) ProjectStatus(ctx context.Context, projectID string) (domain.ProjectStatus, error) {
	acts, err := s.projectActivities(ctx, projectID)
	if err != nil {
		return "", err
	}
	return progress.ProjectStatus(acts, s.opts.today()), nil
}

func (s *progressService) ProjectSummary(ctx context.Context, projectID string) (*progress.Summary, error) {
	acts, err := s.projectActivities(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sum := progress.Summarize(acts, s.opts.today())
	return &sum, nil
}

// Dashboard aggregates every project, or those of one macro-project, and
// lists the pending activities closest to their end date.
func (s *progressService) Dashboard(ctx context.Context, req app.DashboardRequest) (dash *app.Dashboard, err error) {
	uc := s.opts.begin("dashboard", false, nil)
	defer uc.finish(ctx, &err)

	today := s.opts.today()
	if req.Now != nil {
		today = domain.DayOf(*req.Now)
	}
	if req.MacroProjectID != nil {
		uc.fields["macro_project_id"] = *req.MacroProjectID
		if _, err = s.macros.GetByID(ctx, *req.MacroProjectID); err != nil {
			return nil, err
		}
	}

	macros, err := s.macros.List(ctx)
	if err != nil {
		return nil, err
	}
	macroNames := make(map[string]string, len(macros))
	for _, m := range macros {
		macroNames[m.ID] = m.Name
	}

	projects, err := s.projects.List(ctx, repository.ProjectFilter{MacroProjectID: req.MacroProjectID})
	if err != nil {
		return nil, err
	}

	dash = &app.Dashboard{}
	completionSum := 0
	var upcoming []app.UpcomingActivity
	for _, p := range projects {
		acts, err := s.activities.ListByProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		sum := progress.Summarize(acts, today)
		dash.Projects = append(dash.Projects, app.ProjectRow{
			Project:   p,
			MacroName: macroNames[domain.StrValue(p.MacroProjectID)],
			Summary:   sum,
		})
		dash.TotalProjects++
		if sum.Status == domain.ProjectActive {
			dash.ActiveProjects++
		}
		completionSum += sum.Completion
		dash.PendingLeaves += sum.PendingLeaves

		for _, leaf := range progress.Leaves(acts) {
			if progress.LeafProgress(leaf) >= 100 {
				continue
			}
			days := daysBetween(today, leaf.EndDate)
			upcoming = append(upcoming, app.UpcomingActivity{
				Activity:      leaf,
				ProjectName:   p.Name,
				DaysRemaining: days,
				Urgency:       app.UrgencyFor(days),
			})
		}
	}
	dash.AverageCompletion = progress.RoundedMean(completionSum, dash.TotalProjects)

	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].DaysRemaining != upcoming[j].DaysRemaining {
			return upcoming[i].DaysRemaining < upcoming[j].DaysRemaining
		}
		return upcoming[i].Activity.Name < upcoming[j].Activity.Name
	})
	if len(upcoming) > app.UpcomingLimit {
		upcoming = upcoming[:app.UpcomingLimit]
	}
	dash.Upcoming = upcoming

	uc.fields["projects"] = dash.TotalProjects
	return dash, nil
}

// daysBetween counts whole calendar days from a to b; negative when b is
// earlier.
func daysBetween(a, b time.Time) int {
	return int(domain.DayOf(b).Sub(domain.DayOf(a)).Hours() / 24)
}
