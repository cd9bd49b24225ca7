package importer

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/avance/internal/domain"
	"github.com/google/uuid"
)

// IDFunc mints a fresh ID.
type IDFunc func() string

// NewUUID is the default IDFunc.
func NewUUID() string { return uuid.New().String() }

// Converted holds the domain values a plan describes. MacroProject is the
// plan's macro-project name, resolved by the caller.
type Converted struct {
	Project      *domain.Project
	MacroProject string
	Activities   []*domain.Activity
}

// Convert turns a validated plan into domain values with IDs from newID (nil
// uses NewUUID). Activity orders follow plan order; callers reorder
// chronologically afterwards. Call ValidatePlan first; Convert assumes the
// plan is valid.
func Convert(plan *Plan, newID IDFunc) (*Converted, error) {
	if newID == nil {
		newID = NewUUID
	}
	project := &domain.Project{
		ID:          newID(),
		Name:        plan.Project.Name,
		Responsible: plan.Project.Responsible,
	}

	refMap := make(map[string]string, len(plan.Activities))
	for _, a := range plan.Activities {
		refMap[a.Ref] = newID()
	}

	acts := make([]*domain.Activity, 0, len(plan.Activities))
	for i, a := range plan.Activities {
		kind, err := domain.ParseActivityKind(a.Kind)
		if err != nil {
			return nil, err
		}
		start, err := domain.ParseDate(a.Start)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", a.Ref, err)
		}
		end := start
		if a.End != "" {
			if end, err = domain.ParseDate(a.End); err != nil {
				return nil, fmt.Errorf("activity %q: %w", a.Ref, err)
			}
		}

		act := &domain.Activity{
			ID:        refMap[a.Ref],
			ProjectID: project.ID,
			Name:      a.Name,
			Kind:      kind,
			StartDate: start,
			EndDate:   end,
			Approved:  a.Approved,
			Comment:   a.Comment,
			Order:     i + 1,
		}
		if a.Progress != nil {
			act.ProgressPct = *a.Progress
		}
		if a.ParentRef != "" {
			pid, ok := refMap[a.ParentRef]
			if !ok {
				return nil, fmt.Errorf("activity %q: unknown parent ref %q", a.Ref, a.ParentRef)
			}
			act.ParentID = &pid
		}
		act.Normalize()
		acts = append(acts, act)
	}

	return &Converted{Project: project, MacroProject: plan.Project.MacroProject, Activities: acts}, nil
}

// FromProject renders a stored project as a plan. Refs are derived from the
// display order (a1, a2, ...); acts should already be in display order.
func FromProject(project *domain.Project, macroName string, acts []*domain.Activity) *Plan {
	ordered := make([]*domain.Activity, len(acts))
	copy(ordered, acts)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	refs := make(map[string]string, len(ordered))
	for i, a := range ordered {
		refs[a.ID] = fmt.Sprintf("a%d", i+1)
	}

	plan := &Plan{
		Project: ProjectPlan{
			Name:         project.Name,
			Responsible:  project.Responsible,
			MacroProject: macroName,
		},
		Activities: make([]ActivityPlan, 0, len(ordered)),
	}
	for _, a := range ordered {
		ap := ActivityPlan{
			Ref:      refs[a.ID],
			Name:     a.Name,
			Kind:     string(a.Kind),
			Start:    domain.FormatDate(a.StartDate),
			Approved: a.Approved,
			Comment:  a.Comment,
		}
		if a.Kind != domain.KindMeeting {
			ap.End = domain.FormatDate(a.EndDate)
		}
		if a.Kind == domain.KindPoints {
			pct := a.ProgressPct
			ap.Progress = &pct
		}
		if a.ParentID != nil {
			ap.ParentRef = refs[*a.ParentID]
		}
		plan.Activities = append(plan.Activities, ap)
	}
	return plan
}
