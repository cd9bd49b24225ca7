package domain

// ActivityTree indexes one project's activities by ID and by parent.
// Children lists keep the order of the slice the tree was built from.
type ActivityTree struct {
	all      []*Activity
	byID     map[string]*Activity
	children map[string][]*Activity
}

// NewActivityTree builds the index. Parent links pointing outside the set are
// kept on the activity but produce no children entry for a known node.
func NewActivityTree(acts []*Activity) *ActivityTree {
	t := &ActivityTree{
		all:      acts,
		byID:     make(map[string]*Activity, len(acts)),
		children: make(map[string][]*Activity),
	}
	for _, a := range acts {
		t.byID[a.ID] = a
	}
	for _, a := range acts {
		if a.ParentID != nil {
			t.children[*a.ParentID] = append(t.children[*a.ParentID], a)
		}
	}
	return t
}

func (t *ActivityTree) All() []*Activity { return t.all }

func (t *ActivityTree) Get(id string) (*Activity, bool) {
	a, ok := t.byID[id]
	return a, ok
}

// Children returns the direct children of id.
func (t *ActivityTree) Children(id string) []*Activity {
	return t.children[id]
}

// HasChildren reports whether any activity references id as its parent.
func (t *ActivityTree) HasChildren(id string) bool {
	return len(t.children[id]) > 0
}

// IsOrphan reports whether a has a parent reference that is not in the set.
func (t *ActivityTree) IsOrphan(a *Activity) bool {
	if a.ParentID == nil {
		return false
	}
	_, ok := t.byID[*a.ParentID]
	return !ok
}
