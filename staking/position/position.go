// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package position defines the staking position record.
package position

import (
	"github.com/iamai-dao/staking/staking/reward"
)

// Status is the lifecycle state of a position.
type Status uint8

const (
	StatusActive   Status = iota + 1 // accruing rewards
	StatusUnstaked                   // terminal
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusUnstaked:
		return "unstaked"
	default:
		return "unknown"
	}
}

// Position is a single stake record. Every field except RewardsClaimed,
// Status and Version is immutable after creation; the engine is the only
// writer of the mutable ones.
type Position struct {
	ID             ID
	Owner          string
	Principal      uint64
	Tier           uint8 // tier code, see the tier package
	RateBps        uint32
	LockSeconds    uint32
	StartTime      uint64 // unix seconds
	EndTime        uint64 // StartTime + LockSeconds
	RewardsClaimed uint64
	Status         Status
	Version        uint64 // optimistic-concurrency token
}

// Earned returns the total reward accrued as of now.
func (p *Position) Earned(now uint64) uint64 {
	return reward.Earned(p.Principal, p.RateBps, p.StartTime, p.EndTime, now)
}

// Matured reports whether the lock period has ended as of now.
func (p *Position) Matured(now uint64) bool {
	return now >= p.EndTime
}

// IsActive reports whether the position can still be claimed or unstaked.
func (p *Position) IsActive() bool {
	return p.Status == StatusActive
}

// Clone returns a deep copy.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}
