package domain

import "fmt"

type ActivityKind string

const (
	KindContinuous ActivityKind = "continuous"
	KindMeeting    ActivityKind = "meeting"
	KindPoints     ActivityKind = "points"
)

// ValidActivityKinds is the canonical set of accepted activity kind strings.
var ValidActivityKinds = map[string]bool{
	"continuous": true, "meeting": true, "points": true,
}

// ParseActivityKind maps user input to an ActivityKind.
// Accepts the canonical names plus a few aliases ("points-based", "pointsbased").
func ParseActivityKind(s string) (ActivityKind, error) {
	switch s {
	case "continuous", "continua":
		return KindContinuous, nil
	case "meeting", "reunion":
		return KindMeeting, nil
	case "points", "points-based", "pointsbased", "puntos":
		return KindPoints, nil
	}
	return "", &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown activity kind %q (continuous, meeting, points)", s)}
}

// ProjectStatus is computed from the activity set; it is never stored.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectFulfilled ProjectStatus = "fulfilled"
	ProjectOverdue   ProjectStatus = "overdue"
)
