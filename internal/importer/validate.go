package importer

import (
	"fmt"

	"github.com/alexanderramin/avance/internal/domain"
)

// ValidatePlan checks the plan for errors before conversion and returns all
// of them.
func ValidatePlan(plan *Plan) []error {
	var errs []error

	if plan.Project.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if plan.Project.Responsible == "" {
		errs = append(errs, fmt.Errorf("project.responsible is required"))
	}

	byRef := make(map[string]*ActivityPlan, len(plan.Activities))
	for i := range plan.Activities {
		a := &plan.Activities[i]
		prefix := fmt.Sprintf("activities[%d]", i)
		if a.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if byRef[a.Ref] != nil {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, a.Ref))
		} else {
			byRef[a.Ref] = a
		}
		errs = append(errs, validateActivity(prefix, a)...)
	}

	for i, a := range plan.Activities {
		if a.ParentRef == "" {
			continue
		}
		prefix := fmt.Sprintf("activities[%d].parent_ref", i)
		parent, ok := byRef[a.ParentRef]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s: unknown ref %q", prefix, a.ParentRef))
		case a.ParentRef == a.Ref:
			errs = append(errs, fmt.Errorf("%s: activity %q cannot be its own parent", prefix, a.Ref))
		case parent.ParentRef != "":
			errs = append(errs, fmt.Errorf("%s: parent %q is itself a sub-activity", prefix, a.ParentRef))
		}
	}

	return errs
}

func validateActivity(prefix string, a *ActivityPlan) []error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}

	kind, err := domain.ParseActivityKind(a.Kind)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s.kind: %w", prefix, err))
	}

	start, startErr := domain.ParseDate(a.Start)
	if startErr != nil {
		errs = append(errs, fmt.Errorf("%s.start: %w", prefix, startErr))
	}
	if a.End == "" {
		if kind != domain.KindMeeting {
			errs = append(errs, fmt.Errorf("%s.end is required", prefix))
		}
	} else if end, err := domain.ParseDate(a.End); err != nil {
		errs = append(errs, fmt.Errorf("%s.end: %w", prefix, err))
	} else if startErr == nil && kind != domain.KindMeeting && end.Before(start) {
		errs = append(errs, fmt.Errorf("%s.end %q is before start %q", prefix, a.End, a.Start))
	}

	if a.Progress != nil {
		if kind != domain.KindPoints && kind != "" {
			errs = append(errs, fmt.Errorf("%s.progress: only points activities carry a progress value", prefix))
		} else if *a.Progress < 0 || *a.Progress > 100 {
			errs = append(errs, fmt.Errorf("%s.progress: %d is outside 0..100", prefix, *a.Progress))
		}
	}
	return errs
}
