package domain

import "strings"

type MacroProject struct {
	ID          string
	Name        string
	Description string
}

// Validate checks the fields required before a macro-project is written.
func (m *MacroProject) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}

type Project struct {
	ID             string
	Name           string
	Responsible    string
	MacroProjectID *string
}

// Validate checks the fields required before a project is written.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(p.Responsible) == "" {
		return &ValidationError{Field: "responsible", Message: "responsible is required"}
	}
	return nil
}

// DisplayID returns the first 8 characters of the ID.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
