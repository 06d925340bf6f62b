// Package generator orchestrates dataset synthesis: pool construction,
// per-row sampling, feature aggregation, labeling and row assembly.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"datasetgen/internal/config"
	"datasetgen/internal/features"
	"datasetgen/internal/labeler"
	"datasetgen/internal/models"
	"datasetgen/internal/recon"
	"datasetgen/internal/repository"
	"datasetgen/internal/sampler"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generator produces labeled dataset rows from a set of source records.
type Generator struct {
	cfg     config.GenerationConfig
	sampler *sampler.Sampler
	agg     *features.Aggregator
	labeler *labeler.Labeler
	repo    repository.DatasetRepository
	logger  *zap.Logger
}

// Params override per-request generation settings. Zero values fall back
// to the configured defaults.
type Params struct {
	NumRows int
	Seed    int64
}

// New creates a generator. repo may be nil when persistence is not wanted
// (the one-shot CLI path).
func New(cfg config.GenerationConfig, repo repository.DatasetRepository, logger *zap.Logger) *Generator {
	return &Generator{
		cfg:     cfg,
		sampler: sampler.New(cfg.MinItems, cfg.MaxItems),
		agg:     features.New(cfg.HighImportanceThreshold),
		labeler: labeler.New(cfg.NoiseFlipProb),
		repo:    repo,
		logger:  logger,
	}
}

func (g *Generator) resolve(params Params) (int, int64) {
	numRows := params.NumRows
	if numRows <= 0 {
		numRows = g.cfg.NumRows
	}
	seed := params.Seed
	if seed == 0 {
		seed = g.cfg.Seed
	}
	return numRows, seed
}

// Generate runs the full pipeline sequentially on one seeded random
// stream. Pool construction consumes the stream first, then each row
// draws in fixed order: batch size and batch, evasion flag, last action,
// label noise. Reordering any draw changes every subsequent row, so this
// function must stay strictly sequential.
func (g *Generator) Generate(records []models.SourceRecord, params Params) ([]models.DatasetRow, error) {
	numRows, seed := g.resolve(params)

	rng := rand.New(rand.NewSource(seed))

	pool, err := recon.BuildPool(rng, records, g.cfg.ProcessPoolSize, g.cfg.PortPoolSize)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Candidate pool built",
		zap.Int("pool_size", len(pool)),
		zap.Int("file_items", len(records)),
		zap.Int64("seed", seed))

	rows := make([]models.DatasetRow, 0, numRows)
	for i := 0; i < numRows; i++ {
		batch := g.sampler.Draw(rng, pool)
		feats := g.agg.Aggregate(batch)

		evasionFlag := 0
		if rng.Float64() < g.cfg.EvasionProb {
			evasionFlag = 1
		}

		lastAction := models.AllLabels[rng.Intn(len(models.AllLabels))]

		label := g.labeler.Assign(rng, feats, evasionFlag, lastAction)

		rows = append(rows, models.DatasetRow{
			ID:          fmt.Sprintf("session_%05d", i),
			ReconCount:  len(batch),
			EvasionFlag: evasionFlag,
			LastAction:  lastAction,
			Features:    feats,
			Label:       label,
			TopItemID:   feats.TopItemID,
			TopItemType: feats.TopItemType,
			TopItemName: feats.TopItemName,
		})
	}

	g.logger.Info("Dataset generated", zap.Int("rows", len(rows)))

	return rows, nil
}

// StoreRows persists rows under an optional job ID.
func (g *Generator) StoreRows(jobID string, rows []models.DatasetRow) error {
	if g.repo == nil {
		return fmt.Errorf("no repository configured")
	}
	return g.repo.SaveRows(jobID, rows)
}

// StartJob begins async generation and returns the job ID.
func (g *Generator) StartJob(records []models.SourceRecord, params Params) (string, error) {
	if g.repo == nil {
		return "", fmt.Errorf("no repository configured")
	}

	numRows, seed := g.resolve(params)

	job := &models.Job{
		ID:        uuid.New().String(),
		Status:    "pending",
		TotalRows: numRows,
		Seed:      seed,
		CreatedAt: time.Now(),
	}

	if err := g.repo.CreateJob(job); err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}

	go g.runJob(job, records, params)

	return job.ID, nil
}

// runJob processes a generation job asynchronously.
func (g *Generator) runJob(job *models.Job, records []models.SourceRecord, params Params) {
	job.Status = "processing"
	if err := g.repo.UpdateJob(job); err != nil {
		g.logger.Error("Failed to update job", zap.String("job_id", job.ID), zap.Error(err))
	}

	rows, err := g.Generate(records, params)
	if err == nil {
		err = g.repo.SaveRows(job.ID, rows)
	}

	completedAt := time.Now()
	job.CompletedAt = &completedAt
	if err != nil {
		job.Status = "failed"
		job.ErrorMessage = err.Error()
		g.logger.Error("Generation job failed", zap.String("job_id", job.ID), zap.Error(err))
	} else {
		job.Status = "completed"
		job.GeneratedRows = len(rows)
	}

	if err := g.repo.UpdateJob(job); err != nil {
		g.logger.Error("Failed to update job", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	g.logger.Info("Generation job finished",
		zap.String("job_id", job.ID),
		zap.String("status", job.Status),
		zap.Int("rows", job.GeneratedRows))
}

// GetJobStatus returns job status.
func (g *Generator) GetJobStatus(jobID string) (*models.Job, error) {
	if g.repo == nil {
		return nil, fmt.Errorf("no repository configured")
	}
	return g.repo.GetJob(jobID)
}

// GetAllRows returns all persisted rows.
func (g *Generator) GetAllRows() ([]models.DatasetRow, error) {
	if g.repo == nil {
		return nil, fmt.Errorf("no repository configured")
	}
	return g.repo.GetAllRows()
}

// GetRowsByLabel returns persisted rows with the given label.
func (g *Generator) GetRowsByLabel(label models.Label) ([]models.DatasetRow, error) {
	if g.repo == nil {
		return nil, fmt.Errorf("no repository configured")
	}
	return g.repo.GetRowsByLabel(label)
}

// GetStats returns dataset statistics.
func (g *Generator) GetStats() (map[string]interface{}, error) {
	if g.repo == nil {
		return nil, fmt.Errorf("no repository configured")
	}
	return g.repo.GetStats()
}
