// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package memstore is the in-memory reference implementation of the staking
// Store. It exists for tests and ephemeral deployments; durable storage is
// provided by the stakedb package.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/iamai-dao/staking/staking"
	"github.com/iamai-dao/staking/staking/position"
)

// Store keeps positions in a map guarded by a mutex. Version-token semantics
// are identical to the durable store: the engine's correctness under
// concurrent mutators relies on the version check, not on the mutex.
type Store struct {
	mu        sync.Mutex
	positions map[position.ID]*position.Position
}

var _ staking.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		positions: make(map[position.ID]*position.Position),
	}
}

// Get returns a copy of the stored position.
func (s *Store) Get(_ context.Context, id position.ID) (*position.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.positions[id]
	if !ok {
		return nil, staking.ErrPositionNotFound
	}
	return p.Clone(), nil
}

// Save inserts (expectedVersion 0) or replaces the record, guarded by the
// stored version.
func (s *Store) Save(_ context.Context, p *position.Position, expectedVersion uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.positions[p.ID]
	if expectedVersion == 0 {
		if ok {
			return staking.ErrVersionConflict
		}
	} else {
		if !ok {
			return staking.ErrPositionNotFound
		}
		if current.Version != expectedVersion {
			return staking.ErrVersionConflict
		}
	}
	s.positions[p.ID] = p.Clone()
	return nil
}

// ListByOwner returns the owner's positions ordered by start time, then id.
func (s *Store) ListByOwner(_ context.Context, owner string) ([]*position.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*position.Position
	for _, p := range s.positions {
		if p.Owner == owner {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// Aggregate scans all positions; it never reads stored counters.
func (s *Store) Aggregate(_ context.Context) (*staking.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := &staking.Totals{}
	for _, p := range s.positions {
		if p.Status == position.StatusActive {
			totals.TotalStaked += p.Principal
		}
		totals.TotalRewardsDistributed += p.RewardsClaimed
	}
	return totals, nil
}
