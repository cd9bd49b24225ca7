// Package dates keeps child activities from starting before their parent.
// Violations are corrected, never rejected.
package dates

import (
	"fmt"
	"time"

	"github.com/alexanderramin/avance/internal/domain"
)

// Notice is an informational message about an automatic adjustment.
type Notice struct {
	ActivityID string
	Message    string
}

// ResolveChildStart clamps proposed to the parent's start date. When an
// adjustment happens the returned notice describes it; otherwise proposed is
// returned unchanged and the notice is nil.
func ResolveChildStart(proposed time.Time, parent *domain.Activity) (time.Time, *Notice) {
	if parent == nil || !proposed.Before(parent.StartDate) {
		return proposed, nil
	}
	return parent.StartDate, &Notice{
		Message: fmt.Sprintf("start date adjusted from %s to %s: a sub-activity cannot start before its parent %q",
			domain.FormatDate(proposed), domain.FormatDate(parent.StartDate), parent.Name),
	}
}

// CascadeChildStarts moves every direct child starting before newParentStart
// forward to newParentStart and returns the children it changed. Grandchildren
// are not visited. A child whose end date would fall before its new start is
// extended to the new start as well.
func CascadeChildStarts(children []*domain.Activity, newParentStart time.Time) []*domain.Activity {
	var changed []*domain.Activity
	for _, c := range children {
		if !c.StartDate.Before(newParentStart) {
			continue
		}
		c.StartDate = newParentStart
		if c.EndDate.Before(c.StartDate) {
			c.EndDate = c.StartDate
		}
		changed = append(changed, c)
	}
	return changed
}
