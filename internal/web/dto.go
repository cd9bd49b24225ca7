package web

import (
	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/dates"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/progress"
)

type macroJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type projectJSON struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Responsible    string  `json:"responsible"`
	MacroProjectID *string `json:"macro_project_id"`
}

type projectRowJSON struct {
	projectJSON
	Completion int    `json:"completion"`
	Status     string `json:"status"`
}

type summaryJSON struct {
	Completion    int     `json:"completion"`
	Status        string  `json:"status"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	ActivityCount int     `json:"activity_count"`
	LeafCount     int     `json:"leaf_count"`
	PendingLeaves int     `json:"pending_leaves"`
}

type activityJSON struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	ParentID    *string `json:"parent_id"`
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Approved    bool    `json:"approved"`
	ProgressPct int     `json:"progress_pct"`
	Comment     string  `json:"comment"`
	Order       int     `json:"order"`
}

type activityRowJSON struct {
	activityJSON
	Progress    int  `json:"progress"`
	Depth       int  `json:"depth"`
	HasChildren bool `json:"has_children"`
}

type noticeJSON struct {
	ActivityID string `json:"activity_id"`
	Message    string `json:"message"`
}

// activityInput is the body of activity create and update requests.
type activityInput struct {
	ParentID *string `json:"parent_id"`
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	Start    string  `json:"start_date"`
	End      string  `json:"end_date"`
	Approved bool    `json:"approved"`
	Progress int     `json:"progress_pct"`
	Comment  string  `json:"comment"`
}

type copyInput struct {
	IDs             []string `json:"ids"`
	Destination     string   `json:"destination"`
	IncludeChildren *bool    `json:"include_children"`
	IncludeComments *bool    `json:"include_comments"`
}

type orderInput struct {
	IDs []string `json:"ids"`
}

func toMacroJSON(m *domain.MacroProject) macroJSON {
	return macroJSON{ID: m.ID, Name: m.Name, Description: m.Description}
}

func toProjectJSON(p *domain.Project) projectJSON {
	return projectJSON{ID: p.ID, Name: p.Name, Responsible: p.Responsible, MacroProjectID: p.MacroProjectID}
}

func toSummaryJSON(s progress.Summary) summaryJSON {
	out := summaryJSON{
		Completion:    s.Completion,
		Status:        string(s.Status),
		ActivityCount: s.ActivityCount,
		LeafCount:     s.LeafCount,
		PendingLeaves: s.PendingLeaves,
	}
	if s.StartDate != nil {
		d := domain.FormatDate(*s.StartDate)
		out.StartDate = &d
	}
	if s.EndDate != nil {
		d := domain.FormatDate(*s.EndDate)
		out.EndDate = &d
	}
	return out
}

func toActivityJSON(a *domain.Activity) activityJSON {
	return activityJSON{
		ID:          a.ID,
		ProjectID:   a.ProjectID,
		ParentID:    a.ParentID,
		Name:        a.Name,
		Kind:        string(a.Kind),
		StartDate:   domain.FormatDate(a.StartDate),
		EndDate:     domain.FormatDate(a.EndDate),
		Approved:    a.Approved,
		ProgressPct: a.ProgressPct,
		Comment:     a.Comment,
		Order:       a.Order,
	}
}

func toActivityRows(views []app.ActivityView) []activityRowJSON {
	out := make([]activityRowJSON, 0, len(views))
	for _, v := range views {
		out = append(out, activityRowJSON{
			activityJSON: toActivityJSON(v.Activity),
			Progress:     v.Progress,
			Depth:        v.Depth,
			HasChildren:  v.HasChildren,
		})
	}
	return out
}

func toNoticesJSON(ns []dates.Notice) []noticeJSON {
	out := make([]noticeJSON, 0, len(ns))
	for _, n := range ns {
		out = append(out, noticeJSON{ActivityID: n.ActivityID, Message: n.Message})
	}
	return out
}

// saveRequest converts the body into a save request. Meetings may omit the
// end date.
func (in activityInput) saveRequest(id, projectID string) (app.SaveActivityRequest, error) {
	kind, err := domain.ParseActivityKind(in.Kind)
	if err != nil {
		return app.SaveActivityRequest{}, err
	}
	start, err := domain.ParseDate(in.Start)
	if err != nil {
		return app.SaveActivityRequest{}, &domain.ValidationError{Field: "start_date", Message: err.Error()}
	}
	end := start
	if in.End != "" {
		if end, err = domain.ParseDate(in.End); err != nil {
			return app.SaveActivityRequest{}, &domain.ValidationError{Field: "end_date", Message: err.Error()}
		}
	}
	return app.SaveActivityRequest{
		ID:          id,
		ProjectID:   projectID,
		ParentID:    in.ParentID,
		Name:        in.Name,
		Kind:        kind,
		StartDate:   start,
		EndDate:     end,
		Approved:    in.Approved,
		ProgressPct: in.Progress,
		Comment:     in.Comment,
	}, nil
}
