package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"datasetgen/internal/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // Required for file source
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// PostgresRepository stores rows and jobs in PostgreSQL.
type PostgresRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresRepository connects to the database and runs migrations.
func NewPostgresRepository(dataSourceName, migrationsPath string, logger *zap.Logger) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyMigrations(db, migrationsPath); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Connected to PostgreSQL and applied migrations")

	return &PostgresRepository{db: db, logger: logger}, nil
}

func applyMigrations(db *sqlx.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to get database instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "datasetgen", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// SaveRows persists a generated batch inside one transaction.
func (r *PostgresRepository) SaveRows(jobID string, rows []models.DatasetRow) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO dataset_rows (
			session_id, job_id, recon_count, evasion_flag, last_action,
			max_importance_score, avg_importance_score, count_high_importance_items,
			top_item_type, top_item_id, top_item_name, top_item_filesize_kb,
			total_filesize_kb, avg_scan_confidence, label
		) VALUES (
			:session_id, :job_id, :recon_count, :evasion_flag, :last_action,
			:max_importance_score, :avg_importance_score, :count_high_importance_items,
			:top_item_type, :top_item_id, :top_item_name, :top_item_filesize_kb,
			:total_filesize_kb, :avg_scan_confidence, :label
		)
	`

	for _, row := range rows {
		rec := toRecord(jobID, row)
		if _, err := tx.NamedExec(query, rec); err != nil {
			return fmt.Errorf("failed to save row %s: %w", row.ID, err)
		}
	}

	return tx.Commit()
}

const pgSelectRowColumns = `
	session_id, COALESCE(job_id, '') AS job_id, recon_count, evasion_flag, last_action,
	max_importance_score, avg_importance_score, count_high_importance_items,
	top_item_type, COALESCE(top_item_id, '') AS top_item_id,
	COALESCE(top_item_name, '') AS top_item_name,
	top_item_filesize_kb, total_filesize_kb, avg_scan_confidence, label
`

// GetAllRows retrieves every stored dataset row in insertion order.
func (r *PostgresRepository) GetAllRows() ([]models.DatasetRow, error) {
	var recs []rowRecord
	query := `SELECT ` + pgSelectRowColumns + ` FROM dataset_rows ORDER BY id`
	if err := r.db.Select(&recs, query); err != nil {
		return nil, fmt.Errorf("failed to query dataset rows: %w", err)
	}

	out := make([]models.DatasetRow, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toRow())
	}
	return out, nil
}

// GetRowsByLabel retrieves rows with a given label.
func (r *PostgresRepository) GetRowsByLabel(label models.Label) ([]models.DatasetRow, error) {
	var recs []rowRecord
	query := `SELECT ` + pgSelectRowColumns + ` FROM dataset_rows WHERE label = $1 ORDER BY id`
	if err := r.db.Select(&recs, query, string(label)); err != nil {
		return nil, fmt.Errorf("failed to query rows by label: %w", err)
	}

	out := make([]models.DatasetRow, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toRow())
	}
	return out, nil
}

// GetStats returns statistics about the stored dataset.
func (r *PostgresRepository) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM dataset_rows"); err != nil {
		return nil, err
	}
	stats["total_rows"] = total

	type labelCount struct {
		Label string `db:"label"`
		Count int    `db:"count"`
	}
	var labelCounts []labelCount
	err := r.db.Select(&labelCounts, "SELECT label, COUNT(*) AS count FROM dataset_rows GROUP BY label ORDER BY label")
	if err != nil {
		return nil, err
	}
	byLabel := make(map[string]int)
	for _, lc := range labelCounts {
		byLabel[lc.Label] = lc.Count
	}
	stats["by_label"] = byLabel

	type typeCount struct {
		TopItemType string `db:"top_item_type"`
		Count       int    `db:"count"`
	}
	var typeCounts []typeCount
	err = r.db.Select(&typeCounts, "SELECT top_item_type, COUNT(*) AS count FROM dataset_rows GROUP BY top_item_type ORDER BY top_item_type")
	if err != nil {
		return nil, err
	}
	byType := make(map[string]int)
	for _, tc := range typeCounts {
		byType[tc.TopItemType] = tc.Count
	}
	stats["by_top_item_type"] = byType

	var evaded int
	if err := r.db.Get(&evaded, "SELECT COUNT(*) FROM dataset_rows WHERE evasion_flag = 1"); err != nil {
		return nil, err
	}
	stats["evasion_rows"] = evaded

	return stats, nil
}

// CreateJob creates a new generation job.
func (r *PostgresRepository) CreateJob(job *models.Job) error {
	query := `
		INSERT INTO jobs (id, status, total_rows, seed, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, job.ID, job.Status, job.TotalRows, job.Seed, job.CreatedAt)
	return err
}

// UpdateJob updates job progress.
func (r *PostgresRepository) UpdateJob(job *models.Job) error {
	query := `
		UPDATE jobs
		SET status = $1, generated_rows = $2, completed_at = $3, error_message = $4
		WHERE id = $5
	`

	_, err := r.db.Exec(query, job.Status, job.GeneratedRows, job.CompletedAt, job.ErrorMessage, job.ID)
	return err
}

// GetJob retrieves a job by ID.
func (r *PostgresRepository) GetJob(jobID string) (*models.Job, error) {
	query := `
		SELECT id, status, total_rows, generated_rows, seed, created_at, completed_at,
		       COALESCE(error_message, '') AS error_message
		FROM jobs
		WHERE id = $1
	`

	job := &models.Job{}
	err := r.db.Get(job, query, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// Close closes the database connection.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
