package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Plan is the human-editable description of one project and its activities.
type Plan struct {
	Project    ProjectPlan    `yaml:"project" json:"project"`
	Activities []ActivityPlan `yaml:"activities" json:"activities"`
}

type ProjectPlan struct {
	Name         string `yaml:"name" json:"name"`
	Responsible  string `yaml:"responsible" json:"responsible"`
	MacroProject string `yaml:"macro_project,omitempty" json:"macro_project,omitempty"`
}

// ActivityPlan is one activity. Ref is a plan-local name other activities
// use in ParentRef; stored IDs are generated on import.
type ActivityPlan struct {
	Ref       string `yaml:"ref" json:"ref"`
	ParentRef string `yaml:"parent_ref,omitempty" json:"parent_ref,omitempty"`
	Name      string `yaml:"name" json:"name"`
	Kind      string `yaml:"kind" json:"kind"`
	Start     string `yaml:"start" json:"start"`
	End       string `yaml:"end,omitempty" json:"end,omitempty"`
	Approved  bool   `yaml:"approved,omitempty" json:"approved,omitempty"`
	Progress  *int   `yaml:"progress,omitempty" json:"progress,omitempty"`
	Comment   string `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// LoadPlan reads a plan file. Files ending in .json are decoded as JSON,
// everything else as YAML.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var plan Plan
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("parsing plan file: %w", err)
		}
		return &plan, nil
	}
	return ParsePlan(data)
}

// ParsePlan decodes YAML plan bytes, rejecting unknown keys.
func ParsePlan(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var plan Plan
	if err := dec.Decode(&plan); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parsing plan file: empty document")
		}
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &plan, nil
}

// WritePlan encodes plan as YAML.
func WritePlan(w io.Writer, plan *Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return enc.Close()
}
