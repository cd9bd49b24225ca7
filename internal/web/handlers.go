package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/replication"
	"github.com/gin-gonic/gin"
)

// maxSnapshotBytes bounds PUT /api/snapshot bodies.
const maxSnapshotBytes = 64 << 20

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// fail maps domain errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case domain.IsValidation(err), errors.Is(err, db.ErrMalformedSnapshot), errors.Is(err, domain.ErrCyclicHierarchy):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
}

// Macro-projects

func (s *Server) handleListMacros(c *gin.Context) {
	macros, err := s.svc.Macros.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]macroJSON, 0, len(macros))
	for _, m := range macros {
		out = append(out, toMacroJSON(m))
	}
	ok(c, http.StatusOK, out)
}

func (s *Server) handleCreateMacro(c *gin.Context) {
	var in macroJSON
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	m := &domain.MacroProject{Name: in.Name, Description: in.Description}
	if err := s.svc.Macros.Create(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, toMacroJSON(m))
}

func (s *Server) handleDeleteMacro(c *gin.Context) {
	if err := s.svc.Macros.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

// Projects

func (s *Server) handleListProjects(c *gin.Context) {
	var macroID *string
	if m := c.Query("macro"); m != "" {
		macroID = &m
	}
	projects, err := s.svc.Projects.List(c.Request.Context(), macroID)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]projectRowJSON, 0, len(projects))
	for _, p := range projects {
		summary, err := s.svc.Progress.ProjectSummary(c.Request.Context(), p.ID)
		if err != nil {
			fail(c, err)
			return
		}
		out = append(out, projectRowJSON{
			projectJSON: toProjectJSON(p),
			Completion:  summary.Completion,
			Status:      string(summary.Status),
		})
	}
	ok(c, http.StatusOK, out)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var in projectJSON
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p := &domain.Project{Name: in.Name, Responsible: in.Responsible, MacroProjectID: in.MacroProjectID}
	if err := s.svc.Projects.Create(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, toProjectJSON(p))
}

func (s *Server) handleGetProject(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := s.svc.Projects.GetByID(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	summary, err := s.svc.Progress.ProjectSummary(ctx, p.ID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"project": toProjectJSON(p),
		"summary": toSummaryJSON(*summary),
	})
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var in projectJSON
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p := &domain.Project{ID: c.Param("id"), Name: in.Name, Responsible: in.Responsible, MacroProjectID: in.MacroProjectID}
	if err := s.svc.Projects.Update(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, toProjectJSON(p))
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.svc.Projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

// Activities

func (s *Server) handleListActivities(c *gin.Context) {
	views, err := s.svc.Activities.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, toActivityRows(views))
}

func (s *Server) handleCreateActivity(c *gin.Context) {
	s.saveActivity(c, "", c.Param("id"))
}

func (s *Server) handleUpdateActivity(c *gin.Context) {
	current, err := s.svc.Activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	s.saveActivity(c, current.ID, current.ProjectID)
}

func (s *Server) saveActivity(c *gin.Context, id, projectID string) {
	var in activityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	req, err := in.saveRequest(id, projectID)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := s.svc.Activities.Save(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	adjusted := make([]string, 0, len(res.Adjusted))
	for _, a := range res.Adjusted {
		adjusted = append(adjusted, a.ID)
	}
	ok(c, status, gin.H{
		"activity": toActivityJSON(res.Activity),
		"notices":  toNoticesJSON(res.Notices),
		"adjusted": adjusted,
	})
}

func (s *Server) handleGetActivity(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := s.svc.Activities.GetByID(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	p, err := s.svc.Activities.BranchProgress(ctx, a.ID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"activity": toActivityJSON(a), "progress": p})
}

func (s *Server) handleDeleteActivity(c *gin.Context) {
	if err := s.svc.Activities.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

func (s *Server) handleManualOrder(c *gin.Context) {
	var in orderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	projectID := c.Param("id")
	if err := s.svc.Activities.ApplyManualOrder(ctx, projectID, in.IDs); err != nil {
		fail(c, err)
		return
	}
	s.respondWithList(c, projectID)
}

func (s *Server) handleChronologicalOrder(c *gin.Context) {
	projectID := c.Param("id")
	if err := s.svc.Activities.ReorderChronologically(c.Request.Context(), projectID); err != nil {
		fail(c, err)
		return
	}
	s.respondWithList(c, projectID)
}

func (s *Server) respondWithList(c *gin.Context, projectID string) {
	views, err := s.svc.Activities.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, toActivityRows(views))
}

// Copy

func (s *Server) handleCopySubtree(c *gin.Context) {
	ctx := c.Request.Context()
	src, err := s.svc.Activities.GetByID(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var in copyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	in.IDs = []string{src.ID}
	s.copyActivities(c, src.ProjectID, in)
}

func (s *Server) handleCopySelected(c *gin.Context) {
	var in copyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	s.copyActivities(c, c.Param("id"), in)
}

func (s *Server) copyActivities(c *gin.Context, sourceProjectID string, in copyInput) {
	opts := replication.DefaultOptions()
	if in.IncludeChildren != nil {
		opts.IncludeChildren = *in.IncludeChildren
	}
	if in.IncludeComments != nil {
		opts.IncludeComments = *in.IncludeComments
	}
	res, err := s.svc.Copy.Copy(c.Request.Context(), app.CopyRequest{
		SourceProjectID: sourceProjectID,
		ActivityIDs:     in.IDs,
		DestProjectID:   domain.CoalesceStr(in.Destination, sourceProjectID),
		Options:         opts,
	})
	if err != nil {
		fail(c, err)
		return
	}
	copies := make([]activityJSON, 0, len(res.Copies))
	for _, a := range res.Copies {
		copies = append(copies, toActivityJSON(a))
	}
	ok(c, http.StatusCreated, gin.H{"copies": copies, "mapping": res.Mapping})
}

// Dashboard

func (s *Server) handleDashboard(c *gin.Context) {
	var req app.DashboardRequest
	if m := c.Query("macro"); m != "" {
		req.MacroProjectID = &m
	}
	if d := c.Query("today"); d != "" {
		t, err := domain.ParseDate(d)
		if err != nil {
			badRequest(c, err)
			return
		}
		req.Now = &t
	}
	dash, err := s.svc.Progress.Dashboard(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	projects := make([]gin.H, 0, len(dash.Projects))
	for _, row := range dash.Projects {
		projects = append(projects, gin.H{
			"project": toProjectJSON(row.Project),
			"macro":   row.MacroName,
			"summary": toSummaryJSON(row.Summary),
		})
	}
	upcoming := make([]gin.H, 0, len(dash.Upcoming))
	for _, u := range dash.Upcoming {
		upcoming = append(upcoming, gin.H{
			"activity":       toActivityJSON(u.Activity),
			"project":        u.ProjectName,
			"days_remaining": u.DaysRemaining,
			"urgency":        string(u.Urgency),
		})
	}
	ok(c, http.StatusOK, gin.H{
		"total_projects":     dash.TotalProjects,
		"active_projects":    dash.ActiveProjects,
		"average_completion": dash.AverageCompletion,
		"pending_leaves":     dash.PendingLeaves,
		"projects":           projects,
		"upcoming":           upcoming,
	})
}

// Snapshot

func (s *Server) handleExportSnapshot(c *gin.Context) {
	data, err := s.svc.Snapshots.Export(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="avance.db"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) handleImportSnapshot(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxSnapshotBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		badRequest(c, err)
		return
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		badRequest(c, errors.New("empty snapshot"))
		return
	}
	if err := s.svc.Snapshots.Import(c.Request.Context(), data); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"bytes": len(data)})
}
