// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tier defines the fixed reward tiers and the classifier that maps a
// stake request onto one of them.
package tier

import "errors"

// ErrInvalidTier is returned when the requested lock duration is not in the
// tier table, or the principal is below the tier's minimum.
var ErrInvalidTier = errors.New("invalid staking tier")

const day = 24 * 60 * 60

// Tier is a fixed (duration, rate, minimum) bucket. A position is classified
// into exactly one tier at creation and keeps it for life.
type Tier struct {
	Code         uint8  `json:"code"`
	Name         string `json:"name"`
	LockSeconds  uint32 `json:"lockSeconds"`
	RateBps      uint32 `json:"rateBps"` // annual reward rate in basis points
	MinPrincipal uint64 `json:"minPrincipal"`
}

// The table is ordered by lock duration. Durations must be unique: Classify
// matches on exact duration, never interpolating between rows.
var table = []Tier{
	{Code: 1, Name: "bronze", LockSeconds: 30 * day, RateBps: 500, MinPrincipal: 100},
	{Code: 2, Name: "silver", LockSeconds: 60 * day, RateBps: 800, MinPrincipal: 500},
	{Code: 3, Name: "gold", LockSeconds: 90 * day, RateBps: 1200, MinPrincipal: 1000},
	{Code: 4, Name: "platinum", LockSeconds: 180 * day, RateBps: 2000, MinPrincipal: 5000},
}

// Classify maps (principal, lockSeconds) onto a tier. The duration must
// exactly equal one tier's duration and the principal must meet that tier's
// minimum, otherwise ErrInvalidTier is returned.
func Classify(principal uint64, lockSeconds uint32) (Tier, error) {
	for _, t := range table {
		if t.LockSeconds != lockSeconds {
			continue
		}
		if principal < t.MinPrincipal {
			return Tier{}, ErrInvalidTier
		}
		return t, nil
	}
	return Tier{}, ErrInvalidTier
}

// ByCode looks up a tier by its code.
func ByCode(code uint8) (Tier, bool) {
	for _, t := range table {
		if t.Code == code {
			return t, true
		}
	}
	return Tier{}, false
}

// All returns a copy of the tier table.
func All() []Tier {
	out := make([]Tier, len(table))
	copy(out, table)
	return out
}
