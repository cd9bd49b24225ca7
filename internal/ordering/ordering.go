// Package ordering computes the display order of a project's activities:
// each root followed immediately by its direct children.
package ordering

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/avance/internal/domain"
)

// SortByOrder returns a copy of acts sorted by their current Order, falling
// back to start date and then ID so the result is deterministic.
func SortByOrder(acts []*domain.Activity) []*domain.Activity {
	out := make([]*domain.Activity, len(acts))
	copy(out, acts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID < b.ID
	})
	return out
}

// Chronological returns activity IDs in chronological order: roots ascending
// by start date (ties keep their current order), each root followed by its
// direct children in their current relative order. Activities whose parent is
// not a root of the set (orphans, deeper descendants) come last, again in
// current order. Applying the result and calling Chronological again yields
// the same sequence.
func Chronological(acts []*domain.Activity) []string {
	current := SortByOrder(acts)

	var roots []*domain.Activity
	for _, a := range current {
		if a.IsRoot() {
			roots = append(roots, a)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].StartDate.Before(roots[j].StartDate)
	})

	return layout(current, roots)
}

// Grouped keeps the current order of roots and places each root's direct
// children right after it in their current relative order; everything else
// follows. Unlike Chronological it never moves a root.
func Grouped(acts []*domain.Activity) []string {
	current := SortByOrder(acts)

	var roots []*domain.Activity
	for _, a := range current {
		if a.IsRoot() {
			roots = append(roots, a)
		}
	}
	return layout(current, roots)
}

// Manual validates a caller-supplied ordering (for example after a drag and
// drop) and returns it with root/children adjacency restored: roots keep the
// caller's relative order, children follow their root in the caller's
// relative order, and remaining activities are appended in the caller's order.
// orderedIDs must name every activity of the set exactly once.
func Manual(acts []*domain.Activity, orderedIDs []string) ([]string, error) {
	byID := make(map[string]*domain.Activity, len(acts))
	for _, a := range acts {
		byID[a.ID] = a
	}
	if len(orderedIDs) != len(acts) {
		return nil, &domain.ValidationError{
			Field:   "order",
			Message: fmt.Sprintf("expected %d activity IDs, got %d", len(acts), len(orderedIDs)),
		}
	}

	seen := make(map[string]bool, len(orderedIDs))
	requested := make([]*domain.Activity, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		a, ok := byID[id]
		if !ok {
			return nil, &domain.ValidationError{Field: "order", Message: fmt.Sprintf("activity %s is not part of the project", id)}
		}
		if seen[id] {
			return nil, &domain.ValidationError{Field: "order", Message: fmt.Sprintf("activity %s listed twice", id)}
		}
		seen[id] = true
		requested = append(requested, a)
	}

	var roots []*domain.Activity
	for _, a := range requested {
		if a.IsRoot() {
			roots = append(roots, a)
		}
	}
	return layout(requested, roots), nil
}

// layout emits roots in the given order, each followed by its direct children
// as they appear in seq, then every activity not yet emitted in seq order.
func layout(seq []*domain.Activity, roots []*domain.Activity) []string {
	children := make(map[string][]*domain.Activity)
	for _, a := range seq {
		if a.ParentID != nil {
			children[*a.ParentID] = append(children[*a.ParentID], a)
		}
	}

	ids := make([]string, 0, len(seq))
	placed := make(map[string]bool, len(seq))
	for _, r := range roots {
		ids = append(ids, r.ID)
		placed[r.ID] = true
		for _, c := range children[r.ID] {
			if placed[c.ID] {
				continue
			}
			ids = append(ids, c.ID)
			placed[c.ID] = true
		}
	}
	for _, a := range seq {
		if !placed[a.ID] {
			ids = append(ids, a.ID)
			placed[a.ID] = true
		}
	}
	return ids
}

// Assign maps each ID to its 1-based position.
func Assign(ids []string) map[string]int {
	out := make(map[string]int, len(ids))
	for i, id := range ids {
		out[id] = i + 1
	}
	return out
}

// NextOrder returns one past the highest Order in acts, or 1 when empty.
func NextOrder(acts []*domain.Activity) int {
	maxOrder := 0
	for _, a := range acts {
		if a.Order > maxOrder {
			maxOrder = a.Order
		}
	}
	return maxOrder + 1
}
