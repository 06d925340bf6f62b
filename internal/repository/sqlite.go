package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"datasetgen/internal/models"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrJobNotFound is returned when a job ID has no record.
var ErrJobNotFound = errors.New("job not found")

// SQLiteRepository stores rows and jobs in an embedded SQLite database.
type SQLiteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteRepository opens (and if needed creates) the database at dbPath.
func NewSQLiteRepository(dbPath string, logger *zap.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &SQLiteRepository{
		db:     db,
		logger: logger,
	}

	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Dataset repository initialized", zap.String("db_path", dbPath))

	return repo, nil
}

// migrate creates tables
func (r *SQLiteRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dataset_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		job_id TEXT,
		recon_count INTEGER NOT NULL,
		evasion_flag INTEGER NOT NULL,
		last_action TEXT NOT NULL,
		max_importance_score REAL NOT NULL,
		avg_importance_score REAL NOT NULL,
		count_high_importance_items INTEGER NOT NULL,
		top_item_type TEXT NOT NULL,
		top_item_id TEXT,
		top_item_name TEXT,
		top_item_filesize_kb INTEGER NOT NULL DEFAULT 0,
		total_filesize_kb INTEGER NOT NULL DEFAULT 0,
		avg_scan_confidence REAL NOT NULL,
		label TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_rows_label ON dataset_rows(label);
	CREATE INDEX IF NOT EXISTS idx_rows_job_id ON dataset_rows(job_id);
	CREATE INDEX IF NOT EXISTS idx_rows_top_item_type ON dataset_rows(top_item_type);

	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		total_rows INTEGER NOT NULL,
		generated_rows INTEGER DEFAULT 0,
		seed INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		completed_at DATETIME,
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_job_status ON jobs(status);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveRows persists a generated batch inside one transaction.
func (r *SQLiteRepository) SaveRows(jobID string, rows []models.DatasetRow) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO dataset_rows (
			session_id, job_id, recon_count, evasion_flag, last_action,
			max_importance_score, avg_importance_score, count_high_importance_items,
			top_item_type, top_item_id, top_item_name, top_item_filesize_kb,
			total_filesize_kb, avg_scan_confidence, label
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		rec := toRecord(jobID, row)
		_, err := stmt.Exec(
			rec.SessionID, rec.JobID, rec.ReconCount, rec.EvasionFlag, rec.LastAction,
			rec.MaxImportanceScore, rec.AvgImportanceScore, rec.CountHighImportanceItems,
			rec.TopItemType, rec.TopItemID, rec.TopItemName, rec.TopItemFilesizeKB,
			rec.TotalFilesizeKB, rec.AvgScanConfidence, rec.Label,
		)
		if err != nil {
			return fmt.Errorf("failed to save row %s: %w", row.ID, err)
		}
	}

	return tx.Commit()
}

const selectRowColumns = `
	session_id, COALESCE(job_id, ''), recon_count, evasion_flag, last_action,
	max_importance_score, avg_importance_score, count_high_importance_items,
	top_item_type, COALESCE(top_item_id, ''), COALESCE(top_item_name, ''),
	top_item_filesize_kb, total_filesize_kb, avg_scan_confidence, label
`

func (r *SQLiteRepository) scanRows(rows *sql.Rows) ([]models.DatasetRow, error) {
	var out []models.DatasetRow
	for rows.Next() {
		var rec rowRecord
		err := rows.Scan(
			&rec.SessionID, &rec.JobID, &rec.ReconCount, &rec.EvasionFlag, &rec.LastAction,
			&rec.MaxImportanceScore, &rec.AvgImportanceScore, &rec.CountHighImportanceItems,
			&rec.TopItemType, &rec.TopItemID, &rec.TopItemName,
			&rec.TopItemFilesizeKB, &rec.TotalFilesizeKB, &rec.AvgScanConfidence, &rec.Label,
		)
		if err != nil {
			r.logger.Error("Failed to scan dataset row", zap.Error(err))
			continue
		}
		out = append(out, rec.toRow())
	}
	return out, rows.Err()
}

// GetAllRows retrieves every stored dataset row in insertion order.
func (r *SQLiteRepository) GetAllRows() ([]models.DatasetRow, error) {
	query := `SELECT ` + selectRowColumns + ` FROM dataset_rows ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset rows: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// GetRowsByLabel retrieves rows with a given label.
func (r *SQLiteRepository) GetRowsByLabel(label models.Label) ([]models.DatasetRow, error) {
	query := `SELECT ` + selectRowColumns + ` FROM dataset_rows WHERE label = ? ORDER BY id`

	rows, err := r.db.Query(query, string(label))
	if err != nil {
		return nil, fmt.Errorf("failed to query rows by label: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// GetStats returns statistics about the stored dataset.
func (r *SQLiteRepository) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM dataset_rows").Scan(&total); err != nil {
		return nil, err
	}
	stats["total_rows"] = total

	byLabel := make(map[string]int)
	rows, err := r.db.Query("SELECT label, COUNT(*) FROM dataset_rows GROUP BY label ORDER BY label")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			continue
		}
		byLabel[label] = count
	}
	stats["by_label"] = byLabel

	byType := make(map[string]int)
	typeRows, err := r.db.Query("SELECT top_item_type, COUNT(*) FROM dataset_rows GROUP BY top_item_type ORDER BY top_item_type")
	if err != nil {
		return nil, err
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var t string
		var count int
		if err := typeRows.Scan(&t, &count); err != nil {
			continue
		}
		byType[t] = count
	}
	stats["by_top_item_type"] = byType

	var evaded int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM dataset_rows WHERE evasion_flag = 1").Scan(&evaded); err != nil {
		return nil, err
	}
	stats["evasion_rows"] = evaded

	return stats, nil
}

// CreateJob creates a new generation job.
func (r *SQLiteRepository) CreateJob(job *models.Job) error {
	query := `
		INSERT INTO jobs (id, status, total_rows, seed, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, job.ID, job.Status, job.TotalRows, job.Seed, job.CreatedAt)
	return err
}

// UpdateJob updates job progress.
func (r *SQLiteRepository) UpdateJob(job *models.Job) error {
	query := `
		UPDATE jobs
		SET status = ?, generated_rows = ?, completed_at = ?, error_message = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query, job.Status, job.GeneratedRows, job.CompletedAt, job.ErrorMessage, job.ID)
	return err
}

// GetJob retrieves a job by ID.
func (r *SQLiteRepository) GetJob(jobID string) (*models.Job, error) {
	query := `
		SELECT id, status, total_rows, generated_rows, seed, created_at, completed_at, COALESCE(error_message, '')
		FROM jobs
		WHERE id = ?
	`

	job := &models.Job{}
	err := r.db.QueryRow(query, jobID).Scan(
		&job.ID,
		&job.Status,
		&job.TotalRows,
		&job.GeneratedRows,
		&job.Seed,
		&job.CreatedAt,
		&job.CompletedAt,
		&job.ErrorMessage,
	)

	if err == sql.ErrNoRows {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
