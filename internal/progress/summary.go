package progress

import (
	"time"

	"github.com/alexanderramin/avance/internal/domain"
)

// Summary bundles the per-project figures the presentation layer shows.
type Summary struct {
	Completion    int
	Status        domain.ProjectStatus
	StartDate     *time.Time
	EndDate       *time.Time
	ActivityCount int
	LeafCount     int
	PendingLeaves int
}

// Summarize computes a Summary for one project's activities.
func Summarize(acts []*domain.Activity, today time.Time) Summary {
	s := Summary{
		Completion:    ProjectCompletion(acts),
		Status:        ProjectStatus(acts, today),
		ActivityCount: len(acts),
	}
	if start, end, ok := ProjectDates(acts); ok {
		s.StartDate = &start
		s.EndDate = &end
	}
	for _, l := range Leaves(acts) {
		s.LeafCount++
		if LeafProgress(l) < 100 {
			s.PendingLeaves++
		}
	}
	return s
}

// ActivityProgress computes the displayed progress of every activity: branch
// activities get the derived value, leaves their own. Activities caught in a
// cycle are reported through the error and omitted.
func ActivityProgress(acts []*domain.Activity) (map[string]int, error) {
	tree := domain.NewActivityTree(acts)
	out := make(map[string]int, len(acts))
	var firstErr error
	for _, a := range acts {
		p, err := TreeBranchProgress(tree, a.ID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[a.ID] = p
	}
	return out, firstErr
}
