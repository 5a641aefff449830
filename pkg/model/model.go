// Package model builds per-field statistical profiles from a config type's
// snapshot history. Profiles feed the risk scorer: observation counts give
// presence, change counts give volatility, and the observed value set gives
// novelty.
package model

// DefaultMaxObservedValues bounds the distinct values remembered per field.
// Once a profile holds this many distinct values, further changes still
// count but new values are not recorded, so they keep scoring as novel.
const DefaultMaxObservedValues = 64

// FieldProfile aggregates the history of a single field path.
type FieldProfile struct {
	// ObservationCount is the number of snapshots in which the path was
	// present.
	ObservationCount int `json:"observation_count"`

	// ChangeCount is how many times the path's value changed between
	// consecutive snapshots.
	ChangeCount int `json:"change_count"`

	// ObservedValues maps value fingerprints to how often each value was
	// introduced by a change. Bounded; see DefaultMaxObservedValues.
	ObservedValues map[string]int `json:"observed_values,omitempty"`

	// LastSeen is the fingerprint of the value in the newest snapshot that
	// contains the path.
	LastSeen string `json:"last_seen,omitempty"`
}

// Occurrences returns how often the given value fingerprint was observed
// at this path. A nil profile observes nothing.
func (p *FieldProfile) Occurrences(fingerprint string) int {
	if p == nil {
		return 0
	}
	return p.ObservedValues[fingerprint]
}

// Volatility is the fraction of observations in which the field changed.
func (p *FieldProfile) Volatility() float64 {
	if p == nil || p.ObservationCount == 0 {
		return 0
	}
	v := float64(p.ChangeCount) / float64(p.ObservationCount)
	if v > 1 {
		v = 1
	}
	return v
}

// PatternModel is the learned change behavior of one config type, keyed by
// rendered field path. Rebuildable from history at any time.
type PatternModel struct {
	ConfigType    string                   `json:"config_type"`
	SnapshotCount int                      `json:"snapshot_count"`
	Profiles      map[string]*FieldProfile `json:"profiles"`
}

// Profile returns the profile for a rendered path, or nil if the path was
// never observed.
func (m *PatternModel) Profile(path string) *FieldProfile {
	if m == nil {
		return nil
	}
	return m.Profiles[path]
}

// AlwaysPresent reports whether the path appeared in every snapshot the
// model was built from. False for empty models.
func (m *PatternModel) AlwaysPresent(path string) bool {
	if m == nil || m.SnapshotCount == 0 {
		return false
	}
	profile := m.Profiles[path]
	return profile != nil && profile.ObservationCount == m.SnapshotCount
}
