package engine

import (
	"github.com/wonderfulspam/config-warden/pkg/differ"
	"github.com/wonderfulspam/config-warden/pkg/scorer"
)

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionFlag   Decision = "flag"
)

// ScoredChange pairs a change record with its risk score and the factors
// that produced it.
type ScoredChange struct {
	Change  differ.Change  `json:"change"`
	Score   float64        `json:"score"`
	Factors scorer.Factors `json:"factors"`
}

// Report is the structured result of one validation call. Immutable once
// returned.
type Report struct {
	ConfigType    string   `json:"config_type"`
	Decision      Decision `json:"decision"`
	OverallScore  float64  `json:"overall_score"`
	Sensitivity   float64  `json:"sensitivity"`
	Threshold     float64  `json:"threshold"`
	SnapshotCount int      `json:"snapshot_count"`

	// Changes holds every change with its score, in diff order.
	Changes []ScoredChange `json:"changes"`

	// FlaggedChanges holds the changes whose individual score exceeds
	// FlagThreshold. Populated regardless of the overall decision: a single
	// severe change is surfaced even when diluted in the aggregate.
	FlaggedChanges []ScoredChange `json:"flagged_changes,omitempty"`

	// Caveats carries non-fatal warnings, e.g. a config type with no
	// recorded history.
	Caveats []string `json:"caveats,omitempty"`
}

// Flagged reports whether the overall decision is to flag the proposal.
func (r *Report) Flagged() bool {
	return r.Decision == DecisionFlag
}
