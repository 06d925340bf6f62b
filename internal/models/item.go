package models

// ItemType classifies a recon item. The set is closed: the label rules
// switch on it and must stay exhaustive.
type ItemType string

const (
	ItemTypeFile    ItemType = "file"
	ItemTypeProcess ItemType = "process"
	ItemTypePort    ItemType = "port"
)

// IsValid reports whether t is one of the known item types.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeFile, ItemTypeProcess, ItemTypePort:
		return true
	}
	return false
}

// ReconItem is the atomic unit fed into feature aggregation. Every item
// carries Type, ID, Importance and ScanConfidence regardless of origin;
// FilesizeKB is meaningful for files only, Port for ports only.
type ReconItem struct {
	Type           ItemType `json:"type"`
	ID             string   `json:"id"`
	Name           string   `json:"name,omitempty"`
	Importance     float64  `json:"importance"`
	ScanConfidence float64  `json:"scan_confidence"`
	FilesizeKB     int      `json:"filesize_kb,omitempty"`
	Port           int      `json:"port,omitempty"`
}
