// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governance derives voting power from staking positions.
// It is a read-only consumer of the engine and never mutates staking state.
package governance

import (
	"context"
	"math"
	"math/big"

	"github.com/iamai-dao/staking/staking/position"
)

// Active stake counts 1.5x towards voting power.
const (
	boostNumerator   = 3
	boostDenominator = 2
)

// PositionReader is the read-only slice of the staking engine consumed here.
type PositionReader interface {
	ListPositions(ctx context.Context, owner string) ([]*position.Position, error)
}

// VotingPower returns baseBalance + floor(1.5 * sum of active principals).
// Terminal positions contribute nothing. The result saturates at MaxUint64.
func VotingPower(ctx context.Context, reader PositionReader, owner string, baseBalance uint64) (uint64, error) {
	list, err := reader.ListPositions(ctx, owner)
	if err != nil {
		return 0, err
	}

	staked := new(big.Int)
	for _, p := range list {
		if p.IsActive() {
			staked.Add(staked, new(big.Int).SetUint64(p.Principal))
		}
	}

	power := staked.Mul(staked, big.NewInt(boostNumerator))
	power.Quo(power, big.NewInt(boostDenominator))
	power.Add(power, new(big.Int).SetUint64(baseBalance))

	if !power.IsUint64() {
		return math.MaxUint64, nil
	}
	return power.Uint64(), nil
}
