package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/avance/internal/domain"
)

// match picks the candidate whose ID equals input, then the single one whose
// name equals input case-insensitively, then the single ID with input as a
// prefix.
func match(kind, input string, ids, names []string) (string, error) {
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var byName []string
	for i, n := range names {
		if strings.EqualFold(n, input) {
			byName = append(byName, ids[i])
		}
	}
	if len(byName) == 1 {
		return byName[0], nil
	}
	if len(byName) > 1 {
		return "", fmt.Errorf("%s name %q is ambiguous (%d matches); use an ID", kind, input, len(byName))
	}

	var byPrefix []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			byPrefix = append(byPrefix, id)
		}
	}
	switch len(byPrefix) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, input, domain.ErrNotFound)
	case 1:
		return byPrefix[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(byPrefix))
	}
}

func resolveMacroID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("macro-project is required")
	}
	macros, err := app.Macros.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(macros))
	names := make([]string, len(macros))
	for i, m := range macros {
		ids[i], names[i] = m.ID, m.Name
	}
	return match("macro-project", input, ids, names)
}

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}
	projects, err := app.Projects.List(ctx, nil)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(projects))
	names := make([]string, len(projects))
	for i, p := range projects {
		ids[i], names[i] = p.ID, p.Name
	}
	return match("project", input, ids, names)
}

// resolveActivityID resolves input within projectID. Without a project only
// full activity IDs are accepted.
func resolveActivityID(ctx context.Context, app *App, projectID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("activity is required")
	}
	if projectID == "" {
		a, err := app.Activities.GetByID(ctx, input)
		if err != nil {
			return "", fmt.Errorf("%w (pass --project to use a short ID or a name)", err)
		}
		return a.ID, nil
	}
	views, err := app.Activities.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(views))
	names := make([]string, len(views))
	for i, v := range views {
		ids[i], names[i] = v.Activity.ID, v.Activity.Name
	}
	return match("activity", input, ids, names)
}

// projectFlag resolves the optional --project flag value.
func projectFlag(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", nil
	}
	return resolveProjectID(ctx, app, input)
}
