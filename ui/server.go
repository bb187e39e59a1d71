package ui

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fairselect/adapters/report"
	"fairselect/app"
	"fairselect/domain/audit"
	"fairselect/domain/core"
	"fairselect/domain/selection"
	"fairselect/internal"
	"fairselect/ports"
)

// Server exposes the audit pipeline over HTTP
type Server struct {
	router *gin.Engine
	svc    *app.AuditService
	repo   ports.AuditRepository // nil when persistence is disabled
	logger *internal.Logger
}

// AuditPayload is the POST /api/audits request body
type AuditPayload struct {
	Rows   []selection.Individual `json:"rows" binding:"required"`
	Config selection.Config       `json:"config"`
}

// NewServer creates the HTTP server and registers routes
func NewServer(svc *app.AuditService, repo ports.AuditRepository, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router: gin.Default(),
		svc:    svc,
		repo:   repo,
		logger: logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/audits", s.handleRunAudit)
		api.GET("/audits", s.handleListAudits)
		api.GET("/audits/:id", s.handleGetAudit)
		api.GET("/audits/:id/report", s.handleGetReport)
	}
}

// Run starts the HTTP server on the given port
func (s *Server) Run(port string) error {
	s.logger.Info("fairselect API listening on :%s", port)
	return s.router.Run(":" + port)
}

func (s *Server) handleRunAudit(c *gin.Context) {
	var payload AuditPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := s.svc.RunAudit(c.Request.Context(), app.AuditRequest{
		Individuals: payload.Rows,
		Config:      payload.Config,
	})
	if err != nil {
		s.logger.Warn("audit failed: %v", err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) handleListAudits(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "persistence disabled"})
		return
	}
	records, err := s.repo.List(c.Request.Context(), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleGetAudit(c *gin.Context) {
	record, ok := s.loadRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleGetReport(c *gin.Context) {
	record, ok := s.loadRecord(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.RenderHTML(record))
}

func (s *Server) loadRecord(c *gin.Context) (*audit.Record, bool) {
	if s.repo == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "persistence disabled"})
		return nil, false
	}
	id, err := core.ParseAuditID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	record, err := s.repo.Get(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}
	return record, true
}

// statusForError maps domain failures onto HTTP statuses: every one of them
// reflects a structural property of the input, so they are client errors
func statusForError(err error) int {
	switch {
	case core.IsDegenerateGroupError(err),
		core.IsInfeasibleBudgetError(err),
		core.IsReferenceGroupNotFoundError(err),
		errors.Is(err, core.ErrInvalidConfig),
		errors.Is(err, core.ErrEmptyGroup):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
