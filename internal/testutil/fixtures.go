package testutil

import (
	"time"

	"github.com/alexanderramin/avance/internal/domain"
	"github.com/google/uuid"
)

// Day parses a YYYY-MM-DD date and panics on bad input.
func Day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func NewTestMacroProject(name string) *domain.MacroProject {
	return &domain.MacroProject{
		ID:          uuid.New().String(),
		Name:        name,
		Description: name + " portfolio",
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithResponsible(name string) ProjectOption {
	return func(p *domain.Project) {
		p.Responsible = name
	}
}

func WithMacroProject(id string) ProjectOption {
	return func(p *domain.Project) {
		p.MacroProjectID = &id
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Responsible: "Tester",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Activity options
type ActivityOption func(*domain.Activity)

func WithParent(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.ParentID = &id
	}
}

func WithKind(k domain.ActivityKind) ActivityOption {
	return func(a *domain.Activity) {
		a.Kind = k
	}
}

func WithDates(start, end string) ActivityOption {
	return func(a *domain.Activity) {
		a.StartDate = Day(start)
		a.EndDate = Day(end)
	}
}

func WithProgress(pct int) ActivityOption {
	return func(a *domain.Activity) {
		a.Kind = domain.KindPoints
		a.ProgressPct = pct
	}
}

func WithApproved() ActivityOption {
	return func(a *domain.Activity) {
		a.Approved = true
	}
}

func WithOrder(n int) ActivityOption {
	return func(a *domain.Activity) {
		a.Order = n
	}
}

func WithComment(c string) ActivityOption {
	return func(a *domain.Activity) {
		a.Comment = c
	}
}

// NewTestActivity builds a continuous activity spanning the first ten days of
// January 2024 unless options say otherwise.
func NewTestActivity(projectID, name string, opts ...ActivityOption) *domain.Activity {
	a := &domain.Activity{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Kind:      domain.KindContinuous,
		StartDate: Day("2024-01-01"),
		EndDate:   Day("2024-01-10"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
