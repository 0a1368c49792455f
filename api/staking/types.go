// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	engine "github.com/iamai-dao/staking/staking"
	"github.com/iamai-dao/staking/staking/position"
	"github.com/iamai-dao/staking/staking/tier"
)

// StakeRequest is the body of POST /staking/positions.
type StakeRequest struct {
	Owner       string `json:"owner"`
	Principal   uint64 `json:"principal"`
	LockSeconds uint32 `json:"lockSeconds"`
}

// StakeResponse echoes the frozen terms of the new position.
type StakeResponse struct {
	ID      string `json:"id"`
	Tier    string `json:"tier"`
	RateBps uint32 `json:"rateBps"`
	EndTime uint64 `json:"endTime"`
}

// ClaimResponse reports the amount to be disbursed externally.
type ClaimResponse struct {
	AmountPaid uint64 `json:"amountPaid"`
}

// UnstakeResponse reports the settlement amounts of an unstake.
type UnstakeResponse struct {
	AmountReturned uint64 `json:"amountReturned"`
	RewardsPaid    uint64 `json:"rewardsPaid"`
	Penalty        uint64 `json:"penalty"`
	Matured        bool   `json:"matured"`
}

// Position is the wire form of a position record.
type Position struct {
	ID             string `json:"id"`
	Owner          string `json:"owner"`
	Principal      uint64 `json:"principal"`
	Tier           string `json:"tier"`
	RateBps        uint32 `json:"rateBps"`
	LockSeconds    uint32 `json:"lockSeconds"`
	StartTime      uint64 `json:"startTime"`
	EndTime        uint64 `json:"endTime"`
	RewardsClaimed uint64 `json:"rewardsClaimed"`
	Status         string `json:"status"`
	Version        uint64 `json:"version"`
}

// TotalsResponse carries the derived aggregates.
type TotalsResponse struct {
	TotalStaked             uint64 `json:"totalStaked"`
	TotalRewardsDistributed uint64 `json:"totalRewardsDistributed"`
}

// PowerResponse carries the boosted voting power of an account.
type PowerResponse struct {
	Owner       string `json:"owner"`
	BaseBalance uint64 `json:"baseBalance"`
	VotingPower uint64 `json:"votingPower"`
}

func convertPosition(p *position.Position) *Position {
	name := "unknown"
	if t, ok := tier.ByCode(p.Tier); ok {
		name = t.Name
	}
	return &Position{
		ID:             p.ID.String(),
		Owner:          p.Owner,
		Principal:      p.Principal,
		Tier:           name,
		RateBps:        p.RateBps,
		LockSeconds:    p.LockSeconds,
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		RewardsClaimed: p.RewardsClaimed,
		Status:         p.Status.String(),
		Version:        p.Version,
	}
}

func convertTotals(t *engine.Totals) *TotalsResponse {
	return &TotalsResponse{
		TotalStaked:             t.TotalStaked,
		TotalRewardsDistributed: t.TotalRewardsDistributed,
	}
}
