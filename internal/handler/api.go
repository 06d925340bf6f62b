package handler

import (
	"errors"
	"net/http"

	"datasetgen/internal/dataset"
	"datasetgen/internal/generator"
	"datasetgen/internal/models"
	"datasetgen/internal/recon"
	"datasetgen/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	gen     *generator.Generator
	records []models.SourceRecord
	logger  *zap.Logger
}

// NewHandler creates a new API handler. records is the loaded master
// input shared by every generation request.
func NewHandler(gen *generator.Generator, records []models.SourceRecord, logger *zap.Logger) *Handler {
	return &Handler{
		gen:     gen,
		records: records,
		logger:  logger,
	}
}

// RegisterRoutes registers all API routes. auth may be nil when
// authentication is disabled.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	api := r.Group("/api/v1")
	if auth != nil {
		api.Use(auth)
	}
	{
		// Generation
		api.POST("/generate", h.Generate)
		api.POST("/generate/async", h.GenerateAsync)
		api.GET("/jobs/:id", h.GetJobStatus)

		// Data retrieval
		api.GET("/rows", h.GetAllRows)
		api.GET("/rows/label/:label", h.GetRowsByLabel)
		api.GET("/stats", h.GetStats)

		// Export
		api.GET("/export/csv", h.ExportCSV)
		api.GET("/export/json", h.ExportJSON)
	}

	// Health check
	r.GET("/health", h.HealthCheck)
}

// generateRequest carries per-request generation overrides.
type generateRequest struct {
	NumRows int   `json:"num_rows"`
	Seed    int64 `json:"seed"`
	Persist bool  `json:"persist"`
}

// Generate runs generation synchronously and returns the rows.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.gen.Generate(h.records, generator.Params{NumRows: req.NumRows, Seed: req.Seed})
	if err != nil {
		if errors.Is(err, recon.ErrEmptyPool) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed"})
		return
	}

	if req.Persist {
		if err := h.gen.StoreRows("", rows); err != nil {
			h.logger.Error("Failed to persist rows", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist rows"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"total": len(rows),
	})
}

// GenerateAsync starts a generation job and returns its ID.
func (h *Handler) GenerateAsync(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID, err := h.gen.StartJob(h.records, generator.Params{NumRows: req.NumRows, Seed: req.Seed})
	if err != nil {
		h.logger.Error("Failed to start job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

// GetJobStatus returns the status of a generation job.
func (h *Handler) GetJobStatus(c *gin.Context) {
	job, err := h.gen.GetJobStatus(c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		h.logger.Error("Failed to get job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetAllRows returns all persisted dataset rows.
func (h *Handler) GetAllRows(c *gin.Context) {
	rows, err := h.gen.GetAllRows()
	if err != nil {
		h.logger.Error("Failed to get rows", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"total": len(rows),
	})
}

// GetRowsByLabel returns persisted rows filtered by label.
func (h *Handler) GetRowsByLabel(c *gin.Context) {
	label := models.Label(c.Param("label"))
	if !label.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid label"})
		return
	}

	rows, err := h.gen.GetRowsByLabel(label)
	if err != nil {
		h.logger.Error("Failed to get rows by label", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"label": label,
		"total": len(rows),
	})
}

// GetStats returns dataset statistics.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.gen.GetStats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportCSV exports persisted rows to CSV.
func (h *Handler) ExportCSV(c *gin.Context) {
	rows, err := h.gen.GetAllRows()
	if err != nil {
		h.logger.Error("Failed to export CSV", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=attack_dataset.csv")

	if err := dataset.WriteCSV(c.Writer, rows); err != nil {
		h.logger.Error("Failed to write CSV", zap.Error(err))
	}
}

// ExportJSON exports persisted rows to JSON.
func (h *Handler) ExportJSON(c *gin.Context) {
	rows, err := h.gen.GetAllRows()
	if err != nil {
		h.logger.Error("Failed to export JSON", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", "attachment; filename=attack_dataset.json")

	if err := dataset.WriteJSON(c.Writer, rows); err != nil {
		h.logger.Error("Failed to write JSON", zap.Error(err))
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dataset-generator",
		"version": "1.0.0",
	})
}
