// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward computes time-weighted staking rewards.
package reward

import "math/big"

// SecondsPerYear uses the Julian year (365.25 days) as the accrual base.
const SecondsPerYear = 31_557_600

var divisor = big.NewInt(10_000 * SecondsPerYear)

// Earned returns the total reward accrued by a position as of now, in the
// smallest token unit, rounded down. The accrual stops at endTime: the result
// is monotonically non-decreasing in now and constant once now >= endTime.
//
// All instants are unix seconds. The caller supplies now explicitly; this
// function reads no clock.
func Earned(principal uint64, rateBps uint32, startTime, endTime, now uint64) uint64 {
	if now > endTime {
		now = endTime
	}
	if now <= startTime {
		return 0
	}
	elapsed := now - startTime

	// principal * rate * elapsed overflows uint64 for realistic stakes,
	// so the product is taken in big.Int.
	n := new(big.Int).SetUint64(principal)
	n.Mul(n, new(big.Int).SetUint64(uint64(rateBps)))
	n.Mul(n, new(big.Int).SetUint64(elapsed))
	n.Quo(n, divisor)
	return n.Uint64()
}
