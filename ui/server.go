// Package ui hosts the two HTTP surfaces: the JSON analysis API and the
// HTML report app.
package ui

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"statviz/adapters/excel"
	"statviz/app"
	"statviz/domain/core"
	"statviz/domain/dataset"
	internal "statviz/internal"
)

// Server is the JSON API over the analysis service.
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	logger  *internal.Logger

	// mu guards table: uploads swap it while analysis handlers read it.
	mu    sync.RWMutex
	table *dataset.Table
}

func (s *Server) currentTable() *dataset.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

func (s *Server) setTable(table *dataset.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}

// NewServer creates the API server around a loaded table.
func NewServer(service *app.AnalysisService, table *dataset.Table, logger *internal.Logger) *Server {
	s := &Server{
		router:  gin.Default(),
		service: service,
		table:   table,
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/api/dataset", s.handleDatasetInfo)
	s.router.POST("/api/dataset", s.handleUploadDataset)

	api := s.router.Group("/api/analyses")
	api.POST("", s.handleRunAnalysis)
	api.GET("", s.handleListAnalyses)
	api.GET("/:id", s.handleGetAnalysis)
	api.DELETE("/:id", s.handleDeleteAnalysis)
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	s.logger.Info("API server listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	table := s.currentTable()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"dataset": table.Name,
		"rows":    table.Rows(),
	})
}

// handleDatasetInfo reports the loaded columns and their inferred types.
func (s *Server) handleDatasetInfo(c *gin.Context) {
	type columnInfo struct {
		Key  string `json:"key"`
		Type string `json:"type"`
	}
	table := s.currentTable()
	columns := make([]columnInfo, 0, len(table.Keys()))
	for _, key := range table.Keys() {
		col, err := table.Column(key)
		if err != nil {
			continue
		}
		columns = append(columns, columnInfo{Key: string(key), Type: string(col.Type)})
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    table.Name,
		"rows":    table.Rows(),
		"columns": columns,
	})
}

// handleUploadDataset replaces the loaded table with an uploaded CSV or
// Excel file. Subsequent analyses run against the new table.
func (s *Server) handleUploadDataset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .csv and .xlsx files are supported"})
		return
	}

	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("upload-%s%s", uuid.NewString(), ext))
	if err := c.SaveUploadedFile(file, tmp); err != nil {
		s.logger.Error("save upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}
	defer os.Remove(tmp)

	table, err := excel.NewDataReader(tmp).Read()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	table.Name = strings.TrimSuffix(file.Filename, ext)

	s.setTable(table)
	s.logger.Info("dataset %q loaded, %d rows", table.Name, table.Rows())
	c.JSON(http.StatusCreated, gin.H{
		"name": table.Name,
		"rows": table.Rows(),
	})
}

func (s *Server) handleRunAnalysis(c *gin.Context) {
	var req app.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	outcome, err := s.service.Run(c.Request.Context(), s.currentTable(), req)
	if err != nil {
		// Not-found errors here mean a named column does not exist, which
		// is a caller mistake, not a server fault.
		if core.IsValidationError(err) || core.IsNotFoundError(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("analysis %s failed: %v", req.EntryPoint, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, outcome)
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	records, err := s.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list analyses failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records, "count": len(records)})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	record, err := s.service.Get(c.Request.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleDeleteAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	if err := s.service.Delete(c.Request.Context(), id); err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
