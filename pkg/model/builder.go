package model

import (
	"github.com/wonderfulspam/config-warden/pkg/differ"
	"github.com/wonderfulspam/config-warden/pkg/history"
	"github.com/wonderfulspam/config-warden/pkg/tree"
)

// Builder constructs pattern models from snapshot histories. The zero
// value is not usable; call NewBuilder.
type Builder struct {
	maxObservedValues int
}

func NewBuilder() *Builder {
	return &Builder{maxObservedValues: DefaultMaxObservedValues}
}

// NewBuilderWithCap overrides the observed-value cap; values below 1 fall
// back to the default.
func NewBuilderWithCap(maxObservedValues int) *Builder {
	if maxObservedValues < 1 {
		maxObservedValues = DefaultMaxObservedValues
	}
	return &Builder{maxObservedValues: maxObservedValues}
}

// Build aggregates a config type's full history into a pattern model.
// Building twice from the same history yields identical profiles. Histories
// of zero or one snapshot produce a model without change statistics; the
// scorer then treats every change as maximally novel.
func (b *Builder) Build(configType string, snapshots []*history.Snapshot) *PatternModel {
	m := &PatternModel{
		ConfigType:    configType,
		SnapshotCount: len(snapshots),
		Profiles:      map[string]*FieldProfile{},
	}

	// Presence: each path counts once per snapshot it appears in.
	for _, snapshot := range snapshots {
		tree.Walk(snapshot.Tree, func(path tree.Path, node *tree.Node) {
			profile := m.profileFor(path.String())
			profile.ObservationCount++
			profile.LastSeen = node.Fingerprint()
		})
	}

	// Change behavior: diff every consecutive pair.
	for i := 0; i+1 < len(snapshots); i++ {
		for _, change := range differ.Diff(snapshots[i].Tree, snapshots[i+1].Tree) {
			profile := m.profileFor(change.Path.String())
			profile.ChangeCount++
			if change.NewValue == nil {
				continue
			}
			b.recordValue(profile, change.NewValue.Fingerprint())
		}
	}

	return m
}

func (m *PatternModel) profileFor(path string) *FieldProfile {
	profile, ok := m.Profiles[path]
	if !ok {
		profile = &FieldProfile{}
		m.Profiles[path] = profile
	}
	return profile
}

func (b *Builder) recordValue(profile *FieldProfile, fingerprint string) {
	if profile.ObservedValues == nil {
		profile.ObservedValues = map[string]int{}
	}
	if _, seen := profile.ObservedValues[fingerprint]; !seen && len(profile.ObservedValues) >= b.maxObservedValues {
		// Cap reached: the change still counted, the value stays unrecorded.
		return
	}
	profile.ObservedValues[fingerprint]++
}
