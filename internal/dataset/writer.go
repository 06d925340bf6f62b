// Package dataset serializes generated rows: a structured JSON form with
// the nested feature record, and a flattened CSV for quick model import.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"datasetgen/internal/models"
)

// CSVFields is the flattened column list. Order is fixed: consumers read
// these columns positionally and diffs across runs must stay aligned.
var CSVFields = []string{
	"id",
	"recon_count",
	"evasion_flag",
	"last_action",
	"max_importance_score",
	"avg_importance_score",
	"count_high_importance_items",
	"top_item_type",
	"top_item_filesize_kb",
	"total_filesize_kb",
	"avg_scan_confidence",
	"label",
}

// WriteJSON emits the full-fidelity serialization: a pretty-printed JSON
// array with nested features, non-ASCII preserved.
func WriteJSON(w io.Writer, rows []models.DatasetRow) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode dataset JSON: %w", err)
	}
	return nil
}

// WriteCSV emits the flattened tabular serialization with a header row.
func WriteCSV(w io.Writer, rows []models.DatasetRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVFields); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		f := row.Features
		record := []string{
			row.ID,
			strconv.Itoa(row.ReconCount),
			strconv.Itoa(row.EvasionFlag),
			string(row.LastAction),
			formatFloat(f.MaxImportanceScore),
			formatFloat(f.AvgImportanceScore),
			strconv.Itoa(f.CountHighImportanceItems),
			string(f.TopItemType),
			strconv.Itoa(f.TopItemFilesizeKB),
			strconv.Itoa(f.TotalFilesizeKB),
			formatFloat(f.AvgScanConfidence),
			string(row.Label),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", row.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFiles writes both serializations to disk.
func WriteFiles(jsonPath, csvPath string, rows []models.DatasetRow) error {
	jsonFile, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jsonPath, err)
	}
	defer jsonFile.Close()
	if err := WriteJSON(jsonFile, rows); err != nil {
		return err
	}

	csvFile, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", csvPath, err)
	}
	defer csvFile.Close()
	return WriteCSV(csvFile, rows)
}

// formatFloat uses the shortest representation that round-trips, the same
// shape the JSON encoder produces for the structured form.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
