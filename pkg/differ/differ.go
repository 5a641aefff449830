// Package differ computes structural change records between two
// configuration trees. Output order is deterministic: depth-first, baseline
// mapping keys in their encounter order followed by keys only present in
// the proposed tree, sequence items by index.
//
// Sequences are compared positionally, not aligned by content. Reordering
// an otherwise unchanged sequence therefore surfaces as per-index changes.
package differ

import (
	"github.com/wonderfulspam/config-warden/pkg/tree"
)

// Diff compares a baseline tree against a proposed tree and returns the
// change records between them. Both inputs are left untouched; Diff is a
// pure function of its arguments. Diffing a tree against itself yields no
// changes.
func Diff(baseline, proposed *tree.Node) []Change {
	changes := []Change{}
	diffNodes(baseline, proposed, tree.Path{}, &changes)
	return changes
}

func diffNodes(baseline, proposed *tree.Node, path tree.Path, changes *[]Change) {
	switch {
	case baseline == nil && proposed == nil:
		return
	case baseline == nil:
		*changes = append(*changes, Change{
			Type:     ChangeTypeAdded,
			Path:     path,
			NewValue: proposed,
		})
		return
	case proposed == nil:
		*changes = append(*changes, Change{
			Type:     ChangeTypeRemoved,
			Path:     path,
			OldValue: baseline,
		})
		return
	}

	// A kind change is a single modification of the whole subtree.
	if baseline.Kind != proposed.Kind {
		*changes = append(*changes, Change{
			Type:     ChangeTypeModified,
			Path:     path,
			OldValue: baseline,
			NewValue: proposed,
		})
		return
	}

	switch baseline.Kind {
	case tree.KindScalar:
		if !baseline.Equal(proposed) {
			*changes = append(*changes, Change{
				Type:     ChangeTypeModified,
				Path:     path,
				OldValue: baseline,
				NewValue: proposed,
			})
		}
	case tree.KindMapping:
		diffMappings(baseline, proposed, path, changes)
	case tree.KindSequence:
		diffSequences(baseline, proposed, path, changes)
	}
}

func diffMappings(baseline, proposed *tree.Node, path tree.Path, changes *[]Change) {
	for _, key := range baseline.Keys {
		keyPath := path.Child(key)
		if newChild, ok := proposed.Children[key]; ok {
			diffNodes(baseline.Children[key], newChild, keyPath, changes)
		} else {
			*changes = append(*changes, Change{
				Type:     ChangeTypeRemoved,
				Path:     keyPath,
				OldValue: baseline.Children[key],
			})
		}
	}

	for _, key := range proposed.Keys {
		if _, ok := baseline.Children[key]; ok {
			continue
		}
		*changes = append(*changes, Change{
			Type:     ChangeTypeAdded,
			Path:     path.Child(key),
			NewValue: proposed.Children[key],
		})
	}
}

func diffSequences(baseline, proposed *tree.Node, path tree.Path, changes *[]Change) {
	shared := len(baseline.Items)
	if len(proposed.Items) < shared {
		shared = len(proposed.Items)
	}

	for i := 0; i < shared; i++ {
		diffNodes(baseline.Items[i], proposed.Items[i], path.Index(i), changes)
	}
	for i := shared; i < len(baseline.Items); i++ {
		*changes = append(*changes, Change{
			Type:     ChangeTypeRemoved,
			Path:     path.Index(i),
			OldValue: baseline.Items[i],
		})
	}
	for i := shared; i < len(proposed.Items); i++ {
		*changes = append(*changes, Change{
			Type:     ChangeTypeAdded,
			Path:     path.Index(i),
			NewValue: proposed.Items[i],
		})
	}
}
