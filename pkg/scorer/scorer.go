// Package scorer turns a change record plus its field's historical profile
// into a risk score in [0,1], and aggregates per-change scores into the
// overall regression score for a proposal.
package scorer

import (
	"github.com/wonderfulspam/config-warden/pkg/differ"
	"github.com/wonderfulspam/config-warden/pkg/model"
)

// Factors are the normalized components behind a per-change score.
type Factors struct {
	// Novelty is how unprecedented the new value is at this path: 1.0 for a
	// never-observed path or value, scaled down by how often the exact
	// value recurred in history.
	Novelty float64 `json:"novelty"`

	// Volatility is how often the field historically changed. Stable fields
	// that suddenly change are the surprising ones, so the combination uses
	// 1 - volatility.
	Volatility float64 `json:"volatility"`

	// Severity is the field's intrinsic sensitivity weight.
	Severity float64 `json:"severity"`
}

// Score rates a single change. profile may be nil for paths never observed
// in history, which count as maximally novel. severity is the classifier
// weight for the change's path.
//
// score = severity * (0.5*novelty + 0.5*(1 - volatility)), clamped to [0,1].
//
// Removals score with novelty 1: a value disappearing has by definition
// never been observed as a value. For a field present in all of history
// without ever changing this makes removal score at least as high as any
// modification of the same field.
func Score(change differ.Change, profile *model.FieldProfile, severity float64) (float64, Factors) {
	factors := Factors{
		Novelty:    1.0,
		Volatility: profile.Volatility(),
		Severity:   clamp(severity),
	}

	if change.Type != differ.ChangeTypeRemoved && change.NewValue != nil && profile != nil && profile.ObservationCount > 0 {
		occurrences := profile.Occurrences(change.NewValue.Fingerprint())
		if occurrences > 0 {
			factors.Novelty = 1.0 - float64(occurrences)/float64(profile.ObservationCount)
			if factors.Novelty < 0 {
				factors.Novelty = 0
			}
		}
	}

	score := factors.Severity * (0.5*factors.Novelty + 0.5*(1.0-factors.Volatility))
	return clamp(score), factors
}

// Aggregate combines per-change scores into the overall regression score
// using a saturating sum: 1 - product(1 - s). Independent risky changes
// compound, and a single score of 1.0 saturates the aggregate. The result
// is never below the maximum individual score.
func Aggregate(scores []float64) float64 {
	survival := 1.0
	for _, s := range scores {
		survival *= 1.0 - clamp(s)
	}
	return clamp(1.0 - survival)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
