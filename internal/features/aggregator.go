// Package features reduces a sampled recon batch to the fixed-schema
// feature record consumed by the label rules.
package features

import (
	"math"

	"datasetgen/internal/models"
)

// DefaultHighImportanceThreshold marks an item as high-importance.
const DefaultHighImportanceThreshold = 0.7

// Aggregator computes feature records from recon batches.
type Aggregator struct {
	HighImportanceThreshold float64
}

// New returns an aggregator with the given high-importance threshold.
func New(highImportanceThreshold float64) *Aggregator {
	return &Aggregator{HighImportanceThreshold: highImportanceThreshold}
}

// Round3 rounds to 3 decimal places, half to even. Both serializations
// carry these values verbatim, so the rounding mode is part of the
// reproducibility contract.
func Round3(v float64) float64 {
	return math.RoundToEven(v*1000) / 1000
}

// Aggregate reduces a non-empty batch to one feature record.
//
// Tie-breaks are deterministic: the most frequent item type wins with ties
// resolved by ascending type name, and the top item maximizes the pair
// (importance, scan_confidence) with equal pairs resolved in favor of the
// earliest batch position.
func (a *Aggregator) Aggregate(batch []models.ReconItem) models.FeatureRecord {
	var (
		sumImportance float64
		maxImportance float64
		countHigh     int
		sumConfidence float64
		totalFilesize int
	)

	typeCounts := make(map[models.ItemType]int)
	top := 0

	for i, item := range batch {
		if item.Importance > maxImportance {
			maxImportance = item.Importance
		}
		sumImportance += item.Importance
		sumConfidence += item.ScanConfidence
		if item.Importance >= a.HighImportanceThreshold {
			countHigh++
		}
		if item.Type == models.ItemTypeFile {
			totalFilesize += item.FilesizeKB
		}
		typeCounts[item.Type]++

		if i > 0 {
			cur := batch[top]
			if item.Importance > cur.Importance ||
				(item.Importance == cur.Importance && item.ScanConfidence > cur.ScanConfidence) {
				top = i
			}
		}
	}

	topItem := batch[top]
	n := float64(len(batch))

	return models.FeatureRecord{
		MaxImportanceScore:       Round3(maxImportance),
		AvgImportanceScore:       Round3(sumImportance / n),
		CountHighImportanceItems: countHigh,
		TopItemType:              topItemType(typeCounts),
		TopItemID:                topItem.ID,
		TopItemName:              topItem.Name,
		TopItemFilesizeKB:        topItem.FilesizeKB,
		TotalFilesizeKB:          totalFilesize,
		AvgScanConfidence:        Round3(sumConfidence / n),
	}
}

// topItemType picks the most frequent type; ties go to the
// lexicographically smallest type name.
func topItemType(counts map[models.ItemType]int) models.ItemType {
	var best models.ItemType
	bestCount := -1
	for t, c := range counts {
		if c > bestCount || (c == bestCount && t < best) {
			best = t
			bestCount = c
		}
	}
	return best
}
