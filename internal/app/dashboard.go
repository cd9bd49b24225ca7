package app

import (
	"time"

	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/progress"
)

// UpcomingLimit is how many pending activities the dashboard lists.
const UpcomingLimit = 5

type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyTomorrow Urgency = "tomorrow"
	UrgencySoon     Urgency = "soon"
	UrgencyWeek     Urgency = "week"
	UrgencyLater    Urgency = "later"
)

// UrgencyFor labels a number of days remaining until an end date.
func UrgencyFor(daysRemaining int) Urgency {
	switch {
	case daysRemaining < 0:
		return UrgencyOverdue
	case daysRemaining == 0:
		return UrgencyToday
	case daysRemaining == 1:
		return UrgencyTomorrow
	case daysRemaining < 3:
		return UrgencySoon
	case daysRemaining <= 7:
		return UrgencyWeek
	default:
		return UrgencyLater
	}
}

type DashboardRequest struct {
	MacroProjectID *string
	Now            *time.Time
}

type ProjectRow struct {
	Project   *domain.Project
	MacroName string
	Summary   progress.Summary
}

type UpcomingActivity struct {
	Activity      *domain.Activity
	ProjectName   string
	DaysRemaining int
	Urgency       Urgency
}

type Dashboard struct {
	TotalProjects     int
	ActiveProjects    int
	AverageCompletion int
	PendingLeaves     int
	Projects          []ProjectRow
	Upcoming          []UpcomingActivity
}
