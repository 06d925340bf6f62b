package models

// FeatureRecord is the fixed-schema aggregate computed from one sampled
// batch. It is built once per row and never mutated afterwards. Float
// fields are already rounded to 3 decimals (half-to-even).
type FeatureRecord struct {
	MaxImportanceScore       float64  `json:"max_importance_score"`
	AvgImportanceScore       float64  `json:"avg_importance_score"`
	CountHighImportanceItems int      `json:"count_high_importance_items"`
	TopItemType              ItemType `json:"top_item_type"`
	TopItemID                string   `json:"top_item_id"`
	TopItemName              string   `json:"top_item_name"`
	TopItemFilesizeKB        int      `json:"top_item_filesize_kb"`
	TotalFilesizeKB          int      `json:"total_filesize_kb"`
	AvgScanConfidence        float64  `json:"avg_scan_confidence"`
}

// DatasetRow is one synthetic training example. The top-item descriptors
// are duplicated at row level for traceability; downstream consumers read
// them without digging into Features.
type DatasetRow struct {
	ID          string        `json:"id"`
	ReconCount  int           `json:"recon_count"`
	EvasionFlag int           `json:"evasion_flag"`
	LastAction  Label         `json:"last_action"`
	Features    FeatureRecord `json:"features"`
	Label       Label         `json:"label"`
	TopItemID   string        `json:"top_item_id"`
	TopItemType ItemType      `json:"top_item_type"`
	TopItemName string        `json:"top_item_name"`
}
