package domain

import (
	"strings"
	"time"
)

type Activity struct {
	ID          string
	ProjectID   string
	ParentID    *string
	Name        string
	Kind        ActivityKind
	StartDate   time.Time
	EndDate     time.Time
	Approved    bool
	ProgressPct int // meaningful only for KindPoints; mirrors Approved otherwise
	Comment     string
	Order       int
}

// IsRoot reports whether the activity has no parent reference.
func (a *Activity) IsRoot() bool {
	return a.ParentID == nil
}

// Clone returns a deep copy; the parent pointer is not shared.
func (a *Activity) Clone() *Activity {
	c := *a
	if a.ParentID != nil {
		pid := *a.ParentID
		c.ParentID = &pid
	}
	return &c
}

// Normalize applies the kind-specific invariants: meetings last a single day,
// binary kinds store 0/100 from Approved, and points are clamped to [0,100].
func (a *Activity) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Comment = strings.TrimSpace(a.Comment)
	a.StartDate = DayOf(a.StartDate)
	a.EndDate = DayOf(a.EndDate)

	switch a.Kind {
	case KindMeeting:
		a.EndDate = a.StartDate
		a.ProgressPct = binaryPct(a.Approved)
	case KindContinuous:
		a.ProgressPct = binaryPct(a.Approved)
	case KindPoints:
		a.ProgressPct = ClampPct(a.ProgressPct)
	}
}

// Validate checks required fields. Call after Normalize.
func (a *Activity) Validate() error {
	if a.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if a.ProjectID == "" {
		return &ValidationError{Field: "project", Message: "project is required"}
	}
	if !ValidActivityKinds[string(a.Kind)] {
		return &ValidationError{Field: "kind", Message: "unknown activity kind " + string(a.Kind)}
	}
	if a.StartDate.IsZero() {
		return &ValidationError{Field: "start", Message: "start date is required"}
	}
	if a.EndDate.IsZero() {
		return &ValidationError{Field: "end", Message: "end date is required"}
	}
	if a.EndDate.Before(a.StartDate) {
		return &ValidationError{Field: "end", Message: "end date is before start date"}
	}
	if a.ParentID != nil && *a.ParentID == a.ID && a.ID != "" {
		return &ValidationError{Field: "parent", Message: "an activity cannot be its own parent"}
	}
	return nil
}

// ClampPct bounds a percentage to [0,100].
func ClampPct(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func binaryPct(approved bool) int {
	if approved {
		return 100
	}
	return 0
}
