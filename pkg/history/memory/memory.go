// Package memory provides an in-memory history store for tests and
// one-shot validation runs without a database on disk.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wonderfulspam/config-warden/pkg/history"
)

type Store struct {
	mu        sync.RWMutex
	snapshots map[string][]*history.Snapshot
}

func New() *Store {
	return &Store{
		snapshots: make(map[string][]*history.Snapshot),
	}
}

func (s *Store) Read(ctx context.Context, configType string) ([]*history.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.snapshots[configType]
	out := make([]*history.Snapshot, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *Store) Append(ctx context.Context, snapshot *history.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snapshot.ConfigType] = append(s.snapshots[snapshot.ConfigType], snapshot)
	return nil
}

func (s *Store) Types(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.snapshots))
	for configType := range s.snapshots {
		types = append(types, configType)
	}
	sort.Strings(types)
	return types, nil
}

func (s *Store) Close() error {
	return nil
}
