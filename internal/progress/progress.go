// Package progress derives completion figures and lifecycle status from a
// project's activity set. Every function is pure.
package progress

import (
	"fmt"
	"time"

	"github.com/alexanderramin/avance/internal/domain"
)

// LeafProgress returns the stored percentage for points-based activities and
// 100/0 from the approval flag for every other kind.
func LeafProgress(a *domain.Activity) int {
	if a.Kind == domain.KindPoints {
		return domain.ClampPct(a.ProgressPct)
	}
	if a.Approved {
		return 100
	}
	return 0
}

// BranchProgress returns LeafProgress for a childless activity, otherwise the
// rounded mean of BranchProgress over its direct children. A parent chain that
// loops back on itself yields domain.ErrCyclicHierarchy.
func BranchProgress(activityID string, acts []*domain.Activity) (int, error) {
	return TreeBranchProgress(domain.NewActivityTree(acts), activityID)
}

// TreeBranchProgress is BranchProgress over a prebuilt index.
func TreeBranchProgress(tree *domain.ActivityTree, activityID string) (int, error) {
	if _, ok := tree.Get(activityID); !ok {
		return 0, fmt.Errorf("activity %s: %w", activityID, domain.ErrNotFound)
	}
	return branch(tree, activityID, make(map[string]bool))
}

func branch(tree *domain.ActivityTree, id string, onPath map[string]bool) (int, error) {
	if onPath[id] {
		return 0, fmt.Errorf("activity %s: %w", id, domain.ErrCyclicHierarchy)
	}
	children := tree.Children(id)
	if len(children) == 0 {
		a, _ := tree.Get(id)
		return LeafProgress(a), nil
	}

	onPath[id] = true
	defer delete(onPath, id)

	sum := 0
	for _, c := range children {
		p, err := branch(tree, c.ID, onPath)
		if err != nil {
			return 0, err
		}
		sum += p
	}
	return RoundedMean(sum, len(children)), nil
}

// Leaves returns the activities that no other activity in the set references
// as its parent, in input order.
func Leaves(acts []*domain.Activity) []*domain.Activity {
	parents := make(map[string]bool, len(acts))
	for _, a := range acts {
		if a.ParentID != nil {
			parents[*a.ParentID] = true
		}
	}
	var leaves []*domain.Activity
	for _, a := range acts {
		if !parents[a.ID] {
			leaves = append(leaves, a)
		}
	}
	return leaves
}

// ProjectCompletion averages LeafProgress over the leaves directly, so every
// leaf weighs the same regardless of which root it sits under. Zero
// activities yield 0.
func ProjectCompletion(acts []*domain.Activity) int {
	leaves := Leaves(acts)
	if len(leaves) == 0 {
		return 0
	}
	sum := 0
	for _, l := range leaves {
		sum += LeafProgress(l)
	}
	return RoundedMean(sum, len(leaves))
}

// ProjectDates returns the earliest start and latest end across acts.
// ok is false for an empty set.
func ProjectDates(acts []*domain.Activity) (start, end time.Time, ok bool) {
	for i, a := range acts {
		if i == 0 || a.StartDate.Before(start) {
			start = a.StartDate
		}
		if i == 0 || a.EndDate.After(end) {
			end = a.EndDate
		}
	}
	return start, end, len(acts) > 0
}

// ProjectStatus is fulfilled when every leaf is at 100, overdue when the
// latest end date is strictly before today, and active otherwise. An empty
// project is active.
func ProjectStatus(acts []*domain.Activity, today time.Time) domain.ProjectStatus {
	if len(acts) == 0 {
		return domain.ProjectActive
	}
	done := true
	for _, l := range Leaves(acts) {
		if LeafProgress(l) != 100 {
			done = false
			break
		}
	}
	if done {
		return domain.ProjectFulfilled
	}
	if _, end, ok := ProjectDates(acts); ok && end.Before(domain.DayOf(today)) {
		return domain.ProjectOverdue
	}
	return domain.ProjectActive
}

// RoundedMean returns sum/n rounded half-up. sum must be non-negative.
func RoundedMean(sum, n int) int {
	if n <= 0 {
		return 0
	}
	return (2*sum + n) / (2 * n)
}
