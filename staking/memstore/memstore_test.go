// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamai-dao/staking/staking"
	"github.com/iamai-dao/staking/staking/position"
)

func newPosition(owner string, start uint64) *position.Position {
	return &position.Position{
		ID:          position.NewID(owner, start),
		Owner:       owner,
		Principal:   1000,
		Tier:        1,
		RateBps:     500,
		LockSeconds: 30 * 86400,
		StartTime:   start,
		EndTime:     start + 30*86400,
		Status:      position.StatusActive,
		Version:     1,
	}
}

func TestSaveGet(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newPosition("acc1", 1000)

	require.NoError(t, s.Save(ctx, p, 0))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestGet_Unknown(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), position.NewID("x", 1))
	assert.ErrorIs(t, err, staking.ErrPositionNotFound)
}

func TestSave_InsertConflict(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newPosition("acc1", 1000)

	require.NoError(t, s.Save(ctx, p, 0))
	assert.ErrorIs(t, s.Save(ctx, p, 0), staking.ErrVersionConflict)
}

func TestSave_VersionCheck(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newPosition("acc1", 1000)
	require.NoError(t, s.Save(ctx, p, 0))

	next := p.Clone()
	next.RewardsClaimed = 5
	next.Version = 2
	require.NoError(t, s.Save(ctx, next, 1))

	// stale writer still expects version 1
	stale := p.Clone()
	stale.RewardsClaimed = 9
	stale.Version = 2
	assert.ErrorIs(t, s.Save(ctx, stale, 1), staking.ErrVersionConflict)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.RewardsClaimed)
}

func TestSave_UpdateUnknown(t *testing.T) {
	s := New()
	p := newPosition("acc1", 1000)
	assert.ErrorIs(t, s.Save(context.Background(), p, 1), staking.ErrPositionNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newPosition("acc1", 1000)
	require.NoError(t, s.Save(ctx, p, 0))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	got.RewardsClaimed = 42

	again, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), again.RewardsClaimed)
}

func TestListByOwner_Order(t *testing.T) {
	ctx := context.Background()
	s := New()

	p3 := newPosition("acc1", 3000)
	p1 := newPosition("acc1", 1000)
	p2 := newPosition("acc1", 2000)
	other := newPosition("acc2", 1500)
	for _, p := range []*position.Position{p3, p1, p2, other} {
		require.NoError(t, s.Save(ctx, p, 0))
	}

	got, err := s.ListByOwner(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, p1.ID, got[0].ID)
	assert.Equal(t, p2.ID, got[1].ID)
	assert.Equal(t, p3.ID, got[2].ID)

	got, err = s.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAggregate_Scan(t *testing.T) {
	ctx := context.Background()
	s := New()

	active := newPosition("acc1", 1000)
	require.NoError(t, s.Save(ctx, active, 0))

	closed := newPosition("acc2", 1000)
	closed.Status = position.StatusUnstaked
	closed.RewardsClaimed = 7
	require.NoError(t, s.Save(ctx, closed, 0))

	totals, err := s.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), totals.TotalStaked)
	assert.Equal(t, uint64(7), totals.TotalRewardsDistributed)
}
