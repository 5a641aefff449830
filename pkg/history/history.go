// Package history defines the append-only snapshot store that holds the
// accepted configuration states per config type. Backends live in the
// memory and sqlite subpackages.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wonderfulspam/config-warden/pkg/tree"
)

// Snapshot is one accepted configuration state. Immutable once created;
// owned by the store after a successful Append.
type Snapshot struct {
	ID         string     `json:"id"`
	ConfigType string     `json:"config_type"`
	CreatedAt  time.Time  `json:"created_at"`
	Tree       *tree.Node `json:"tree"`
}

// NewSnapshot stamps a proposed tree with an ID and creation time.
func NewSnapshot(configType string, root *tree.Node) *Snapshot {
	return &Snapshot{
		ID:         uuid.NewString(),
		ConfigType: configType,
		CreatedAt:  time.Now().UTC(),
		Tree:       root,
	}
}

// Store is the append-only snapshot store. Read returns all snapshots for
// a config type ordered oldest to newest and must observe a consistent
// sequence; Append must be serialized per config type by the caller (the
// engine enforces a single writer per type). Appends to different types
// never contend.
type Store interface {
	Read(ctx context.Context, configType string) ([]*Snapshot, error)
	Append(ctx context.Context, snapshot *Snapshot) error
	Types(ctx context.Context) ([]string, error)
	Close() error
}
