// Package sampler draws the per-row recon batches.
package sampler

import (
	"math/rand"

	"datasetgen/internal/models"
)

// Sampler draws variable-size batches from the candidate pool.
type Sampler struct {
	MinItems int
	MaxItems int
}

// New returns a sampler for batch sizes in [minItems, maxItems].
func New(minItems, maxItems int) *Sampler {
	return &Sampler{MinItems: minItems, MaxItems: maxItems}
}

// Draw picks a batch size k uniformly from [MinItems, MaxItems] and
// samples k items from pool. When the pool holds at least k items the
// batch is duplicate-free; otherwise it falls back to k independent
// uniform draws with replacement. The fallback changes the duplicate
// probability and is kept deliberately: existing datasets depend on it.
func (s *Sampler) Draw(rng *rand.Rand, pool []models.ReconItem) []models.ReconItem {
	k := s.MinItems + rng.Intn(s.MaxItems-s.MinItems+1)

	if len(pool) >= k {
		return sampleWithoutReplacement(rng, pool, k)
	}

	batch := make([]models.ReconItem, k)
	for i := range batch {
		batch[i] = pool[rng.Intn(len(pool))]
	}
	return batch
}

// sampleWithoutReplacement runs a partial Fisher-Yates shuffle over an
// index slice and keeps the first k positions.
func sampleWithoutReplacement(rng *rand.Rand, pool []models.ReconItem, k int) []models.ReconItem {
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	batch := make([]models.ReconItem, k)
	for i := 0; i < k; i++ {
		batch[i] = pool[idx[i]]
	}
	return batch
}
