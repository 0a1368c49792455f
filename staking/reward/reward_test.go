// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const day = uint64(86400)

func TestEarned_BronzeHalfway(t *testing.T) {
	// 1000 units at 5% APR, 15 of 30 days elapsed:
	// floor(1000 * 500 * 1296000 / (10000 * 31557600)) = 2
	start := uint64(1_700_000_000)
	end := start + 30*day
	got := Earned(1000, 500, start, end, start+15*day)
	assert.Equal(t, uint64(2), got)
}

func TestEarned_FullTerm(t *testing.T) {
	start := uint64(1_700_000_000)
	end := start + 30*day
	// floor(1000 * 500 * 2592000 / (10000 * 31557600)) = 4
	assert.Equal(t, uint64(4), Earned(1000, 500, start, end, end))
}

func TestEarned_CappedAtEndTime(t *testing.T) {
	start := uint64(1_700_000_000)
	end := start + 30*day

	atEnd := Earned(1000, 500, start, end, end)
	assert.Equal(t, atEnd, Earned(1000, 500, start, end, end+1))
	assert.Equal(t, atEnd, Earned(1000, 500, start, end, end+365*day))
}

func TestEarned_Monotonic(t *testing.T) {
	start := uint64(1_700_000_000)
	end := start + 180*day

	prev := uint64(0)
	for now := start; now <= end+10*day; now += 6 * 3600 {
		got := Earned(5000, 2000, start, end, now)
		assert.GreaterOrEqual(t, got, prev, "now=%d", now)
		prev = got
	}
}

func TestEarned_ZeroElapsed(t *testing.T) {
	start := uint64(1_700_000_000)
	end := start + 30*day
	assert.Equal(t, uint64(0), Earned(1000, 500, start, end, start))
}

func TestEarned_Deterministic(t *testing.T) {
	start := uint64(1_700_000_000)
	end := start + 90*day
	now := start + 31*day
	first := Earned(123_456_789, 1200, start, end, now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Earned(123_456_789, 1200, start, end, now))
	}
}

func TestEarned_LargePrincipalNoOverflow(t *testing.T) {
	// principal near the uint64 ceiling; intermediate product is ~2^95
	start := uint64(1_700_000_000)
	end := start + 180*day
	principal := uint64(1) << 62
	got := Earned(principal, 2000, start, end, end)
	// floor(2^62 * 2000 * 15552000 / 315576000000)
	assert.Equal(t, uint64(454_539_895_040_071_087), got)
}
