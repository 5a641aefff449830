package differ

import (
	"github.com/wonderfulspam/config-warden/pkg/tree"
)

type ChangeType string

const (
	ChangeTypeAdded    ChangeType = "added"
	ChangeTypeRemoved  ChangeType = "removed"
	ChangeTypeModified ChangeType = "modified"
)

// Change records a single structural difference between a baseline and a
// proposed configuration tree. Added changes carry no OldValue, Removed
// changes carry no NewValue, Modified changes carry both.
type Change struct {
	Type     ChangeType `json:"type"`
	Path     tree.Path  `json:"path"`
	OldValue *tree.Node `json:"old_value,omitempty"`
	NewValue *tree.Node `json:"new_value,omitempty"`
}
