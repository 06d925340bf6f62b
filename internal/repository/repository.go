// Package repository persists generated dataset rows and generation jobs.
// Two backends exist: the default embedded SQLite store and a PostgreSQL
// store for shared deployments.
package repository

import (
	"fmt"

	"datasetgen/internal/models"

	"go.uber.org/zap"
)

// DatasetRepository handles storage for dataset rows and jobs.
type DatasetRepository interface {
	SaveRows(jobID string, rows []models.DatasetRow) error
	GetAllRows() ([]models.DatasetRow, error)
	GetRowsByLabel(label models.Label) ([]models.DatasetRow, error)
	GetStats() (map[string]interface{}, error)

	CreateJob(job *models.Job) error
	UpdateJob(job *models.Job) error
	GetJob(jobID string) (*models.Job, error)

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Type           string // "sqlite" or "postgres"
	Path           string // sqlite file path
	URL            string // postgres connection URL
	MigrationsPath string // postgres migrations directory
}

// New opens the configured backend.
func New(opts Options, logger *zap.Logger) (DatasetRepository, error) {
	switch opts.Type {
	case "sqlite":
		return NewSQLiteRepository(opts.Path, logger)
	case "postgres":
		return NewPostgresRepository(opts.URL, opts.MigrationsPath, logger)
	default:
		return nil, fmt.Errorf("unsupported database type: %q", opts.Type)
	}
}

// rowRecord is the flat storage shape of a DatasetRow.
type rowRecord struct {
	SessionID                string  `db:"session_id"`
	JobID                    string  `db:"job_id"`
	ReconCount               int     `db:"recon_count"`
	EvasionFlag              int     `db:"evasion_flag"`
	LastAction               string  `db:"last_action"`
	MaxImportanceScore       float64 `db:"max_importance_score"`
	AvgImportanceScore       float64 `db:"avg_importance_score"`
	CountHighImportanceItems int     `db:"count_high_importance_items"`
	TopItemType              string  `db:"top_item_type"`
	TopItemID                string  `db:"top_item_id"`
	TopItemName              string  `db:"top_item_name"`
	TopItemFilesizeKB        int     `db:"top_item_filesize_kb"`
	TotalFilesizeKB          int     `db:"total_filesize_kb"`
	AvgScanConfidence        float64 `db:"avg_scan_confidence"`
	Label                    string  `db:"label"`
}

func toRecord(jobID string, row models.DatasetRow) rowRecord {
	f := row.Features
	return rowRecord{
		SessionID:                row.ID,
		JobID:                    jobID,
		ReconCount:               row.ReconCount,
		EvasionFlag:              row.EvasionFlag,
		LastAction:               string(row.LastAction),
		MaxImportanceScore:       f.MaxImportanceScore,
		AvgImportanceScore:       f.AvgImportanceScore,
		CountHighImportanceItems: f.CountHighImportanceItems,
		TopItemType:              string(f.TopItemType),
		TopItemID:                f.TopItemID,
		TopItemName:              f.TopItemName,
		TopItemFilesizeKB:        f.TopItemFilesizeKB,
		TotalFilesizeKB:          f.TotalFilesizeKB,
		AvgScanConfidence:        f.AvgScanConfidence,
		Label:                    string(row.Label),
	}
}

func (r rowRecord) toRow() models.DatasetRow {
	return models.DatasetRow{
		ID:          r.SessionID,
		ReconCount:  r.ReconCount,
		EvasionFlag: r.EvasionFlag,
		LastAction:  models.Label(r.LastAction),
		Features: models.FeatureRecord{
			MaxImportanceScore:       r.MaxImportanceScore,
			AvgImportanceScore:       r.AvgImportanceScore,
			CountHighImportanceItems: r.CountHighImportanceItems,
			TopItemType:              models.ItemType(r.TopItemType),
			TopItemID:                r.TopItemID,
			TopItemName:              r.TopItemName,
			TopItemFilesizeKB:        r.TopItemFilesizeKB,
			TotalFilesizeKB:          r.TotalFilesizeKB,
			AvgScanConfidence:        r.AvgScanConfidence,
		},
		Label:       models.Label(r.Label),
		TopItemID:   r.TopItemID,
		TopItemType: models.ItemType(r.TopItemType),
		TopItemName: r.TopItemName,
	}
}
