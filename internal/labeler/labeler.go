// Package labeler assigns simulation labels to feature records via an
// ordered rule cascade plus controlled label noise.
package labeler

import (
	"math/rand"

	"datasetgen/internal/models"
)

// Default probabilities for the labeling stage.
const (
	DefaultEvasionProb   = 0.20
	DefaultNoiseFlipProb = 0.03
)

// Labeler applies the rule cascade and the noise step.
type Labeler struct {
	NoiseFlipProb float64
}

// New returns a labeler with the given noise-flip probability.
func New(noiseFlipProb float64) *Labeler {
	return &Labeler{NoiseFlipProb: noiseFlipProb}
}

// RuleLabel evaluates the cascade in fixed order, first match wins.
// An evasion flag of 1 suppresses the two active rules. lastAction is
// accepted but not consulted: it is carried on every row for downstream
// consumers and kept as an input here so the call shape matches the row
// schema.
func (l *Labeler) RuleLabel(f models.FeatureRecord, evasionFlag int, lastAction models.Label) models.Label {
	_ = lastAction

	if f.CountHighImportanceItems >= 1 && evasionFlag == 0 {
		return models.LabelReadFile
	}
	if f.TopItemType == models.ItemTypePort && f.MaxImportanceScore >= 0.6 && evasionFlag == 0 {
		return models.LabelScanPort
	}
	if f.TopItemType == models.ItemTypeProcess && f.MaxImportanceScore >= 0.5 {
		return models.LabelListProcesses
	}
	return models.LabelNoOp
}

// Assign runs the cascade and then, unconditionally, the noise step: with
// probability NoiseFlipProb the cascade label is discarded for a uniform
// draw over the whole vocabulary. The draw may reproduce the original
// label; that is intended, the effective corruption rate is below the
// flip probability.
func (l *Labeler) Assign(rng *rand.Rand, f models.FeatureRecord, evasionFlag int, lastAction models.Label) models.Label {
	label := l.RuleLabel(f, evasionFlag, lastAction)

	if rng.Float64() < l.NoiseFlipProb {
		label = models.AllLabels[rng.Intn(len(models.AllLabels))]
	}
	return label
}
