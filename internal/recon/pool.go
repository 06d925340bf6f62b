package recon

import (
	"errors"
	"math/rand"

	"datasetgen/internal/models"
)

// ErrEmptyPool is returned when the configured pools leave nothing to
// sample from.
var ErrEmptyPool = errors.New("candidate pool is empty: no file records and zero synthetic pool sizes")

// BuildPool assembles the full candidate pool for a run: normalized file
// items, then synthetic processes, then synthetic ports. The pool is
// built once and treated as read-only afterwards.
func BuildPool(rng *rand.Rand, records []models.SourceRecord, procCount, portCount int) ([]models.ReconItem, error) {
	pool := make([]models.ReconItem, 0, len(records)+procCount+portCount)
	for _, rec := range records {
		pool = append(pool, NormalizeFileRecord(rng, rec))
	}
	pool = append(pool, SynthProcessPool(rng, procCount)...)
	pool = append(pool, SynthPortPool(rng, portCount)...)

	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	return pool, nil
}
