package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNormalize_MeetingIsSingleDay(t *testing.T) {
	a := &Activity{Name: " Kickoff ", Kind: KindMeeting, StartDate: day("2024-03-01"), EndDate: day("2024-03-09"), Approved: true}
	a.Normalize()

	assert.Equal(t, "Kickoff", a.Name)
	assert.Equal(t, a.StartDate, a.EndDate)
	assert.Equal(t, 100, a.ProgressPct)
}

func TestNormalize_ContinuousIgnoresManualPct(t *testing.T) {
	a := &Activity{Kind: KindContinuous, ProgressPct: 55}
	a.Normalize()
	assert.Equal(t, 0, a.ProgressPct)
}

func TestNormalize_PointsClamped(t *testing.T) {
	high := &Activity{Kind: KindPoints, ProgressPct: 140}
	high.Normalize()
	assert.Equal(t, 100, high.ProgressPct)

	low := &Activity{Kind: KindPoints, ProgressPct: -3}
	low.Normalize()
	assert.Equal(t, 0, low.ProgressPct)
}

func TestValidate_EndBeforeStart(t *testing.T) {
	a := &Activity{Name: "x", ProjectID: "p", Kind: KindContinuous, StartDate: day("2024-03-10"), EndDate: day("2024-03-01")}
	err := a.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "end")
}

func TestValidate_MissingName(t *testing.T) {
	a := &Activity{ProjectID: "p", Kind: KindContinuous, StartDate: day("2024-03-01"), EndDate: day("2024-03-01")}
	err := a.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestClone_DoesNotShareParent(t *testing.T) {
	pid := "parent"
	a := &Activity{ID: "a", ParentID: &pid}
	c := a.Clone()
	*c.ParentID = "other"
	assert.Equal(t, "parent", *a.ParentID)
}

func TestParseActivityKind(t *testing.T) {
	k, err := ParseActivityKind("points-based")
	require.NoError(t, err)
	assert.Equal(t, KindPoints, k)

	_, err = ParseActivityKind("sprint")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestProjectValidate(t *testing.T) {
	assert.Error(t, (&Project{Name: "X"}).Validate())
	assert.Error(t, (&Project{Responsible: "Ana"}).Validate())
	assert.NoError(t, (&Project{Name: "X", Responsible: "Ana"}).Validate())
}
