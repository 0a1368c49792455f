// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"

	"github.com/iamai-dao/staking/staking/tier"
)

var (
	// ErrInvalidTier rejects a stake whose amount/duration is not in the tier table.
	ErrInvalidTier = tier.ErrInvalidTier

	// ErrPositionNotFound reports an unknown position id.
	ErrPositionNotFound = errors.New("position not found")

	// ErrPositionNotActive rejects a transition on a terminal position. It is the
	// engine's guard against double settlement and must never be swallowed.
	ErrPositionNotActive = errors.New("position not active")

	// ErrNothingToClaim reports that no unclaimed rewards are available.
	ErrNothingToClaim = errors.New("no rewards available")

	// ErrConcurrentModification is returned once the optimistic-retry budget of a
	// transition is exhausted. Transient: callers may re-read and retry.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrVersionConflict is returned by a Store when the expected record version
	// does not match the stored one.
	ErrVersionConflict = errors.New("version conflict")

	// ErrInvariant marks a broken internal invariant. It indicates a bug, not bad
	// input, and the transition that detects it must not commit.
	ErrInvariant = errors.New("invariant violation")
)
