// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"context"

	"github.com/iamai-dao/staking/staking/position"
)

// Totals are aggregate figures derived by scanning positions. They are not
// maintained as independent counters and are only eventually consistent with
// individual position writes.
type Totals struct {
	TotalStaked             uint64 // sum of active principals
	TotalRewardsDistributed uint64 // sum of rewardsClaimed over all positions
}

// Store is the persistence adapter for position records. It performs no
// business-rule checks: the engine evaluates all rules before calling Save.
//
// Save with expectedVersion 0 inserts a new record and fails with
// ErrVersionConflict if the id already exists. Otherwise it replaces the
// stored record only if its version equals expectedVersion, failing with
// ErrVersionConflict on mismatch and ErrPositionNotFound on unknown id.
type Store interface {
	Get(ctx context.Context, id position.ID) (*position.Position, error)
	Save(ctx context.Context, p *position.Position, expectedVersion uint64) error
	ListByOwner(ctx context.Context, owner string) ([]*position.Position, error)
	Aggregate(ctx context.Context) (*Totals, error)
}
