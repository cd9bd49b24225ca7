package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/avance/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `
project:
  name: Line A
  responsible: Ana
  macro_project: Plant
activities:
  - ref: pour
    parent_ref: build
    name: Pour concrete
    kind: points
    start: 2024-01-03
    end: 2024-01-05
    progress: 40
  - ref: build
    name: Build
    kind: continuous
    start: 2024-01-02
    end: 2024-01-10
    comment: main works
  - ref: kickoff
    name: Kickoff
    kind: meeting
    start: 2024-01-01
    approved: true
`

func TestParsePlan_YAML(t *testing.T) {
	plan, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)
	assert.Equal(t, "Plant", plan.Project.MacroProject)
	require.Len(t, plan.Activities, 3)
	assert.Equal(t, "build", plan.Activities[0].ParentRef)
	require.NotNil(t, plan.Activities[0].Progress)
	assert.Equal(t, 40, *plan.Activities[0].Progress)
	assert.Empty(t, ValidatePlan(plan))
}

func TestParsePlan_UnknownFieldRejected(t *testing.T) {
	_, err := ParsePlan([]byte("project:\n  name: x\n  owner: y\n"))
	assert.Error(t, err)
}

func TestParsePlan_Empty(t *testing.T) {
	_, err := ParsePlan(nil)
	assert.Error(t, err)
}

func TestLoadPlan_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"project":{"name":"J","responsible":"Bo"},"activities":[{"ref":"a","name":"A","kind":"meeting","start":"2024-05-01"}]}`), 0o644))

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "J", plan.Project.Name)
	require.Len(t, plan.Activities, 1)
	assert.Equal(t, "meeting", plan.Activities[0].Kind)
}

func TestConvert_ResolvesRefsAndNormalizes(t *testing.T) {
	plan, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)

	conv, err := Convert(plan, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, conv.Project.ID)
	assert.Equal(t, "Ana", conv.Project.Responsible)
	assert.Equal(t, "Plant", conv.MacroProject)
	require.Len(t, conv.Activities, 3)

	pour, build, kickoff := conv.Activities[0], conv.Activities[1], conv.Activities[2]
	require.NotNil(t, pour.ParentID)
	assert.Equal(t, build.ID, *pour.ParentID)
	assert.Equal(t, domain.KindPoints, pour.Kind)
	assert.Equal(t, 40, pour.ProgressPct)
	assert.Equal(t, "main works", build.Comment)
	assert.Equal(t, 0, build.ProgressPct)
	assert.Equal(t, kickoff.StartDate, kickoff.EndDate)
	assert.Equal(t, 100, kickoff.ProgressPct)
	for i, a := range conv.Activities {
		assert.Equal(t, conv.Project.ID, a.ProjectID)
		assert.Equal(t, i+1, a.Order)
	}
}

func TestFromProject_RoundTrip(t *testing.T) {
	plan, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)
	conv, err := Convert(plan, nil)
	require.NoError(t, err)

	out := FromProject(conv.Project, "Plant", conv.Activities)
	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, out))

	back, err := ParsePlan(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, ValidatePlan(back))
	assert.Equal(t, "Line A", back.Project.Name)
	require.Len(t, back.Activities, 3)
	assert.Equal(t, "a2", back.Activities[0].ParentRef)
	assert.Equal(t, "Kickoff", back.Activities[2].Name)
	assert.Empty(t, back.Activities[2].End)
}

func TestConvert_UsesGivenIDs(t *testing.T) {
	plan, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)

	n := 0
	conv, err := Convert(plan, func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", conv.Project.ID)
	assert.Equal(t, "id-2", conv.Activities[0].ID)
	assert.Equal(t, "id-3", *conv.Activities[0].ParentID)
}
