package sampler

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"datasetgen/internal/models"
)

func makePool(n int) []models.ReconItem {
	pool := make([]models.ReconItem, n)
	for i := range pool {
		pool[i] = models.ReconItem{
			Type:           models.ItemTypeFile,
			ID:             fmt.Sprintf("item_%04d", i),
			Importance:     float64(i) / float64(n),
			ScanConfidence: 0.8,
		}
	}
	return pool
}

func TestDrawSizeBounds(t *testing.T) {
	s := New(1, 8)
	rng := rand.New(rand.NewSource(1))
	pool := makePool(200)

	for i := 0; i < 1000; i++ {
		batch := s.Draw(rng, pool)
		if len(batch) < 1 || len(batch) > 8 {
			t.Fatalf("iteration %d: batch size %d outside [1,8]", i, len(batch))
		}
	}
}

func TestDrawWithoutReplacementNoDuplicates(t *testing.T) {
	s := New(8, 8)
	rng := rand.New(rand.NewSource(2))
	pool := makePool(50)

	for i := 0; i < 500; i++ {
		batch := s.Draw(rng, pool)
		seen := make(map[string]bool, len(batch))
		for _, item := range batch {
			if seen[item.ID] {
				t.Fatalf("iteration %d: duplicate item %s in without-replacement draw", i, item.ID)
			}
			seen[item.ID] = true
		}
	}
}

func TestDrawFallbackWithReplacement(t *testing.T) {
	// Pool smaller than the minimum batch size forces the fallback.
	s := New(5, 5)
	rng := rand.New(rand.NewSource(3))
	pool := makePool(2)

	batch := s.Draw(rng, pool)
	if len(batch) != 5 {
		t.Fatalf("batch size = %d, want 5 even with a pool of 2", len(batch))
	}
	for _, item := range batch {
		if item.ID != "item_0000" && item.ID != "item_0001" {
			t.Errorf("unexpected item %s from fallback sampling", item.ID)
		}
	}
}

func TestDrawDeterministic(t *testing.T) {
	pool := makePool(100)
	s := New(1, 8)

	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		ba := s.Draw(a, pool)
		bb := s.Draw(b, pool)
		if !reflect.DeepEqual(ba, bb) {
			t.Fatalf("iteration %d: same seed produced different batches", i)
		}
	}
}

func TestDrawFixedSize(t *testing.T) {
	s := New(3, 3)
	rng := rand.New(rand.NewSource(4))
	pool := makePool(10)

	for i := 0; i < 100; i++ {
		if got := len(s.Draw(rng, pool)); got != 3 {
			t.Fatalf("min==max: batch size = %d, want 3", got)
		}
	}
}
