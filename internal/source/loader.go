// Package source loads the master recon-record document that seeds the
// file portion of the candidate pool.
package source

import (
	"encoding/json"
	"fmt"
	"os"

	"datasetgen/internal/models"
)

// LoadMaster reads an ordered sequence of file records from a JSON
// document. A missing or unreadable file is a hard error: generation must
// not start against a half-present input.
func LoadMaster(path string) ([]models.SourceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input file not found: %s: %w", path, err)
	}

	var records []models.SourceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse master file %s: %w", path, err)
	}

	return records, nil
}
