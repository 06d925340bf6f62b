package models

import "time"

// Job represents an async dataset generation job.
type Job struct {
	ID            string     `json:"id" db:"id"`
	Status        string     `json:"status" db:"status"` // "pending", "processing", "completed", "failed"
	TotalRows     int        `json:"total_rows" db:"total_rows"`
	GeneratedRows int        `json:"generated_rows" db:"generated_rows"`
	Seed          int64      `json:"seed" db:"seed"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	ErrorMessage  string     `json:"error_message,omitempty" db:"error_message"`
}
