// Package recon builds the candidate pool of recon items: file records
// normalized from the master input plus synthetic process and port items.
//
// Every function takes an explicit *rand.Rand. The draw order inside each
// function is part of the dataset contract: reordering draws changes every
// value produced after them for a given seed.
package recon

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"datasetgen/internal/models"
)

// Process name stems used for synthetic process items.
var processStems = []string{
	"svchost",
	"explorer",
	"backup_tool",
	"db_service",
	"antivirus_stub",
	"monitor_tool",
	"webserver",
	"sync_agent",
}

// Well-known ports used for synthetic port items.
var commonPorts = []int{22, 80, 443, 3389, 3306, 445, 21}

func round3(v float64) float64 {
	return math.RoundToEven(v*1000) / 1000
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// NormalizeFileRecord converts a raw source record into a canonical recon
// item of type file. Missing fields are substituted locally; normalization
// never fails.
//
// The scan confidence fallback is drawn unconditionally, before any
// explicit signal is consulted, so the random stream advances the same way
// for annotated and unannotated records.
func NormalizeFileRecord(rng *rand.Rand, rec models.SourceRecord) models.ReconItem {
	importance := 0.5
	scanConf := round3(uniform(rng, 0.6, 0.99))

	if rec.ReconSignal != nil {
		if rec.ReconSignal.Importance != nil {
			importance = *rec.ReconSignal.Importance
		}
		if rec.ReconSignal.ScanConfidence != nil {
			scanConf = *rec.ReconSignal.ScanConfidence
		}
	} else {
		switch strings.ToLower(rec.Sensitivity) {
		case "high":
			importance = round3(uniform(rng, 0.7, 1.0))
		case "medium":
			importance = round3(uniform(rng, 0.4, 0.7))
		default:
			importance = round3(uniform(rng, 0.0, 0.5))
		}
	}

	id := rec.ID
	if id == "" {
		id = fmt.Sprintf("file_%06d", rng.Intn(1000000))
	}

	name := rec.Filename
	if name == "" {
		name = rec.FilePath
	}
	if name == "" {
		name = "unknown"
	}

	return models.ReconItem{
		Type:           models.ItemTypeFile,
		ID:             id,
		Name:           name,
		Importance:     importance,
		ScanConfidence: scanConf,
		FilesizeKB:     int(rec.FilesizeKB),
	}
}

// SynthProcessPool generates n synthetic process items.
func SynthProcessPool(rng *rand.Rand, n int) []models.ReconItem {
	procs := make([]models.ReconItem, 0, n)
	for i := 0; i < n; i++ {
		stem := processStems[rng.Intn(len(processStems))]
		procs = append(procs, models.ReconItem{
			Type:           models.ItemTypeProcess,
			ID:             fmt.Sprintf("proc_%04d", i),
			Name:           fmt.Sprintf("%s_%03d.exe", stem, i),
			Importance:     round3(uniform(rng, 0.0, 1.0)),
			ScanConfidence: round3(uniform(rng, 0.5, 0.99)),
		})
	}
	return procs
}

// SynthPortPool generates n synthetic port items. Each item picks
// uniformly between the well-known ports and one freshly drawn ephemeral
// port; the ephemeral draw happens every iteration, chosen or not.
func SynthPortPool(rng *rand.Rand, n int) []models.ReconItem {
	ports := make([]models.ReconItem, 0, n)
	for i := 0; i < n; i++ {
		ephemeral := 1024 + rng.Intn(65535-1024+1)
		choice := rng.Intn(len(commonPorts) + 1)
		port := ephemeral
		if choice < len(commonPorts) {
			port = commonPorts[choice]
		}
		ports = append(ports, models.ReconItem{
			Type:           models.ItemTypePort,
			ID:             fmt.Sprintf("port_%04d", i),
			Port:           port,
			Importance:     round3(uniform(rng, 0.0, 1.0)),
			ScanConfidence: round3(uniform(rng, 0.5, 0.99)),
		})
	}
	return ports
}
