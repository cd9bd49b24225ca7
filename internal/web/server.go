// Package web serves the avance JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/avance/internal/service"
	"github.com/gin-gonic/gin"
)

// Services are the use cases the API exposes.
type Services struct {
	Macros     service.MacroProjectService
	Projects   service.ProjectService
	Activities service.ActivityService
	Progress   service.ProgressService
	Copy       service.CopyService
	Snapshots  service.SnapshotService
}

// Server is the avance API server.
type Server struct {
	svc    Services
	router *gin.Engine
}

func NewServer(svc Services) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{svc: svc, router: router}

	api := router.Group("/api")
	{
		api.GET("/macro-projects", s.handleListMacros)
		api.POST("/macro-projects", s.handleCreateMacro)
		api.DELETE("/macro-projects/:id", s.handleDeleteMacro)

		api.GET("/projects", s.handleListProjects)
		api.POST("/projects", s.handleCreateProject)
		api.GET("/projects/:id", s.handleGetProject)
		api.PUT("/projects/:id", s.handleUpdateProject)
		api.DELETE("/projects/:id", s.handleDeleteProject)

		api.GET("/projects/:id/activities", s.handleListActivities)
		api.POST("/projects/:id/activities", s.handleCreateActivity)
		api.POST("/projects/:id/order", s.handleManualOrder)
		api.POST("/projects/:id/order/chronological", s.handleChronologicalOrder)
		api.POST("/projects/:id/copy", s.handleCopySelected)

		api.GET("/activities/:id", s.handleGetActivity)
		api.PUT("/activities/:id", s.handleUpdateActivity)
		api.DELETE("/activities/:id", s.handleDeleteActivity)
		api.POST("/activities/:id/copy", s.handleCopySubtree)

		api.GET("/dashboard", s.handleDashboard)

		api.GET("/snapshot", s.handleExportSnapshot)
		api.PUT("/snapshot", s.handleImportSnapshot)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
