// Package replication plans deep copies of activity subtrees into a
// destination project. It only builds new records; persisting them is the
// caller's job.
package replication

import (
	"fmt"

	"github.com/alexanderramin/avance/internal/domain"
)

// Options controls what a copy carries over.
type Options struct {
	IncludeChildren bool
	IncludeComments bool
}

// DefaultOptions matches the copy dialog defaults: children and comments included.
func DefaultOptions() Options {
	return Options{IncludeChildren: true, IncludeComments: true}
}

// IDFunc mints a fresh activity ID.
type IDFunc func() string

// Plan accumulates copies in insertion order.
type Plan struct {
	tree      *domain.ActivityTree
	dest      string
	nextOrder int
	newID     IDFunc
	opts      Options

	Copies []*domain.Activity
	// Mapping records source ID -> copy ID for every copied activity.
	Mapping map[string]string
}

// NewPlan prepares a copy of activities from source into destProjectID.
// nextOrder is the first order value to hand out (one past the destination's
// current maximum).
func NewPlan(source []*domain.Activity, destProjectID string, nextOrder int, newID IDFunc, opts Options) *Plan {
	return &Plan{
		tree:      domain.NewActivityTree(source),
		dest:      destProjectID,
		nextOrder: nextOrder,
		newID:     newID,
		opts:      opts,
		Mapping:   make(map[string]string),
	}
}

// CopySubtree copies activityID as a new root of the destination and, when
// IncludeChildren is set, all of its descendants with parent links remapped
// to the new IDs.
func (p *Plan) CopySubtree(activityID string) error {
	src, ok := p.tree.Get(activityID)
	if !ok {
		return fmt.Errorf("activity %s: %w", activityID, domain.ErrNotFound)
	}
	return p.copy(src, nil, make(map[string]bool))
}

func (p *Plan) copy(src *domain.Activity, newParent *string, onPath map[string]bool) error {
	if onPath[src.ID] {
		return fmt.Errorf("activity %s: %w", src.ID, domain.ErrCyclicHierarchy)
	}

	c := src.Clone()
	c.ID = p.newID()
	c.ProjectID = p.dest
	c.ParentID = nil
	if newParent != nil {
		pid := *newParent
		c.ParentID = &pid
	}
	if !p.opts.IncludeComments {
		c.Comment = ""
	}
	c.Order = p.nextOrder
	p.nextOrder++

	p.Copies = append(p.Copies, c)
	p.Mapping[src.ID] = c.ID

	if !p.opts.IncludeChildren {
		return nil
	}
	onPath[src.ID] = true
	defer delete(onPath, src.ID)
	for _, child := range p.tree.Children(src.ID) {
		if err := p.copy(child, &c.ID, onPath); err != nil {
			return err
		}
	}
	return nil
}

// SelectionRoots reduces a selection to the activities whose parent is not
// itself selected, in source order. IDs not present in source are ignored.
func SelectionRoots(source []*domain.Activity, selected map[string]bool) []*domain.Activity {
	var roots []*domain.Activity
	for _, a := range source {
		if !selected[a.ID] {
			continue
		}
		if a.ParentID == nil || !selected[*a.ParentID] {
			roots = append(roots, a)
		}
	}
	return roots
}

// CopySubtree plans a single-subtree copy.
func CopySubtree(source []*domain.Activity, activityID, destProjectID string, nextOrder int, newID IDFunc, opts Options) ([]*domain.Activity, error) {
	p := NewPlan(source, destProjectID, nextOrder, newID, opts)
	if err := p.CopySubtree(activityID); err != nil {
		return nil, err
	}
	return p.Copies, nil
}

// CopySelected copies every selection root as a new destination root. A
// selected child whose parent is not selected is detached into a root.
// Without IncludeChildren only the selection roots are copied, even when
// some of their descendants were selected too.
func CopySelected(source []*domain.Activity, selected []string, destProjectID string, nextOrder int, newID IDFunc, opts Options) ([]*domain.Activity, error) {
	set := make(map[string]bool, len(selected))
	for _, id := range selected {
		set[id] = true
	}
	p := NewPlan(source, destProjectID, nextOrder, newID, opts)
	for _, root := range SelectionRoots(source, set) {
		if err := p.CopySubtree(root.ID); err != nil {
			return nil, err
		}
	}
	return p.Copies, nil
}
