package ordering

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/avance/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func act(id, start string, order int, parent ...string) *domain.Activity {
	d, err := domain.ParseDate(start)
	if err != nil {
		panic(err)
	}
	a := &domain.Activity{ID: id, Name: id, ProjectID: "p", Kind: domain.KindContinuous, StartDate: d, EndDate: d, Order: order}
	if len(parent) > 0 {
		a.ParentID = &parent[0]
	}
	return a
}

func apply(acts []*domain.Activity, ids []string) {
	pos := Assign(ids)
	for _, a := range acts {
		a.Order = pos[a.ID]
	}
}

func TestChronological_RootsByDateChildrenFollow(t *testing.T) {
	acts := []*domain.Activity{
		act("late", "2024-03-01", 1),
		act("late-c2", "2024-03-09", 2, "late"),
		act("late-c1", "2024-03-02", 3, "late"),
		act("early", "2024-01-01", 4),
		act("early-c", "2024-01-05", 5, "early"),
	}
	got := Chronological(acts)
	assert.Equal(t, []string{"early", "early-c", "late", "late-c2", "late-c1"}, got,
		"children keep their prior relative order, not date order")
}

func TestChronological_OrphansLast(t *testing.T) {
	acts := []*domain.Activity{
		act("orphan", "2023-01-01", 1, "deleted-parent"),
		act("b", "2024-02-01", 2),
		act("a", "2024-01-01", 3),
	}
	assert.Equal(t, []string{"a", "b", "orphan"}, Chronological(acts))
}

func TestChronological_GrandchildrenAfterRoots(t *testing.T) {
	acts := []*domain.Activity{
		act("r", "2024-01-01", 1),
		act("c", "2024-01-02", 2, "r"),
		act("g", "2024-01-03", 3, "c"),
		act("r2", "2024-02-01", 4),
	}
	assert.Equal(t, []string{"r", "c", "r2", "g"}, Chronological(acts))
}

func TestChronological_TiesKeepCurrentOrder(t *testing.T) {
	acts := []*domain.Activity{
		act("second", "2024-01-01", 2),
		act("first", "2024-01-01", 1),
	}
	assert.Equal(t, []string{"first", "second"}, Chronological(acts))
}

func TestChronological_Invariant_IdempotentAndAdjacent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for trial := 0; trial < 150; trial++ {
		var acts []*domain.Activity
		var roots []string
		n := rng.Intn(12) + 1
		for i := 0; i < n; i++ {
			id := string(rune('A' + i))
			start := domain.FormatDate(base.AddDate(0, 0, rng.Intn(60)))
			if len(roots) > 0 && rng.Intn(2) == 0 {
				acts = append(acts, act(id, start, rng.Intn(100), roots[rng.Intn(len(roots))]))
				continue
			}
			acts = append(acts, act(id, start, rng.Intn(100)))
			roots = append(roots, id)
		}

		first := Chronological(acts)
		apply(acts, first)
		second := Chronological(acts)
		require.Equal(t, first, second, "trial %d: not idempotent", trial)

		byID := make(map[string]*domain.Activity)
		for _, a := range acts {
			byID[a.ID] = a
		}
		var lastRoot *domain.Activity
		for _, id := range first {
			a := byID[id]
			if a.IsRoot() {
				if lastRoot != nil {
					assert.False(t, a.StartDate.Before(lastRoot.StartDate), "roots must be non-decreasing")
				}
				lastRoot = a
				continue
			}
			require.NotNil(t, lastRoot)
			assert.Equal(t, lastRoot.ID, *a.ParentID, "child must follow its own root")
		}
	}
}

func TestGrouped_KeepsRootsMovesChildren(t *testing.T) {
	acts := []*domain.Activity{
		act("build", "2024-02-01", 1),
		act("design", "2024-01-01", 2),
		act("survey", "2024-01-03", 3, "build"),
		act("orphan", "2024-01-05", 4, "gone"),
		act("permits", "2024-01-02", 5, "design"),
	}
	assert.Equal(t, []string{"build", "survey", "design", "permits", "orphan"}, Grouped(acts))

	apply(acts, Grouped(acts))
	assert.Equal(t, []string{"build", "survey", "design", "permits", "orphan"}, Grouped(acts))
}

func TestManual_RestoresAdjacency(t *testing.T) {
	acts := []*domain.Activity{
		act("r1", "2024-01-01", 1),
		act("c1", "2024-01-02", 2, "r1"),
		act("c2", "2024-01-03", 3, "r1"),
		act("r2", "2024-02-01", 4),
	}
	// Child dragged in front of everything: it snaps back under its root,
	// but its new position among siblings is kept.
	got, err := Manual(acts, []string{"c2", "r2", "r1", "c1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r1", "c2", "c1"}, got)
}

func TestManual_RejectsIncompleteOrUnknown(t *testing.T) {
	acts := []*domain.Activity{act("a", "2024-01-01", 1), act("b", "2024-01-02", 2)}

	_, err := Manual(acts, []string{"a"})
	assert.True(t, domain.IsValidation(err))

	_, err = Manual(acts, []string{"a", "zzz"})
	assert.True(t, domain.IsValidation(err))

	_, err = Manual(acts, []string{"a", "a"})
	assert.True(t, domain.IsValidation(err))
}

func TestNextOrder(t *testing.T) {
	assert.Equal(t, 1, NextOrder(nil))
	assert.Equal(t, 8, NextOrder([]*domain.Activity{act("a", "2024-01-01", 7), act("b", "2024-01-01", 3)}))
}
