package app

import (
	"time"

	"github.com/alexanderramin/avance/internal/dates"
	"github.com/alexanderramin/avance/internal/domain"
)

// SaveActivityRequest creates an activity when ID is empty and edits the
// stored one otherwise.
type SaveActivityRequest struct {
	ID          string
	ProjectID   string
	ParentID    *string
	Name        string
	Kind        domain.ActivityKind
	StartDate   time.Time
	EndDate     time.Time
	Approved    bool
	ProgressPct int
	Comment     string
}

// Activity builds the unsaved domain value described by the request.
func (r SaveActivityRequest) Activity() *domain.Activity {
	a := &domain.Activity{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Name:        r.Name,
		Kind:        r.Kind,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Approved:    r.Approved,
		ProgressPct: r.ProgressPct,
		Comment:     r.Comment,
	}
	if r.ParentID != nil && *r.ParentID != "" {
		pid := *r.ParentID
		a.ParentID = &pid
	}
	return a
}

// SaveActivityResult reports the stored activity and any date adjustments
// made on the way, for the caller to show as non-blocking notices.
type SaveActivityResult struct {
	Activity *domain.Activity
	Created  bool
	Notices  []dates.Notice
	// Adjusted lists children whose start date moved with their parent.
	Adjusted []*domain.Activity
}

// ActivityView is one row of a project's ordered activity list.
type ActivityView struct {
	Activity    *domain.Activity
	Progress    int
	HasChildren bool
	// Depth is 0 for roots and pseudo-roots, 1 for children of a root.
	Depth int
}
