// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stakingapi "github.com/iamai-dao/staking/api/staking"
	engine "github.com/iamai-dao/staking/staking"
	"github.com/iamai-dao/staking/staking/memstore"
)

const day = uint64(86400)

type testServer struct {
	*httptest.Server
	now atomic.Uint64
}

func newServer(t *testing.T) *testServer {
	ts := &testServer{}
	ts.now.Store(1_700_000_000)

	router := mux.NewRouter()
	stakingapi.New(engine.New(memstore.New()), ts.now.Load).Mount(router, "/staking")
	ts.Server = httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) advance(d uint64) {
	ts.now.Add(d)
}

func (ts *testServer) post(t *testing.T, path string, body any) (int, []byte) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	res, err := http.Post(ts.URL+path, "application/json", &buf)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func (ts *testServer) get(t *testing.T, path string) (int, []byte) {
	res, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func (ts *testServer) stake(t *testing.T, owner string, principal uint64, lockSeconds uint32) stakingapi.StakeResponse {
	code, data := ts.post(t, "/staking/positions", &stakingapi.StakeRequest{
		Owner:       owner,
		Principal:   principal,
		LockSeconds: lockSeconds,
	})
	require.Equal(t, http.StatusOK, code, string(data))
	var out stakingapi.StakeResponse
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestStakeEndpoint(t *testing.T) {
	ts := newServer(t)

	staked := ts.stake(t, "acc1", 1000, 30*86400)
	assert.Equal(t, "bronze", staked.Tier)
	assert.Equal(t, uint32(500), staked.RateBps)
	assert.Equal(t, ts.now.Load()+30*day, staked.EndTime)
	assert.Len(t, staked.ID, 64)
}

func TestStakeEndpoint_Invalid(t *testing.T) {
	ts := newServer(t)

	// below the bronze minimum
	code, _ := ts.post(t, "/staking/positions", &stakingapi.StakeRequest{Owner: "acc1", Principal: 50, LockSeconds: 30 * 86400})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ts.post(t, "/staking/positions", &stakingapi.StakeRequest{Principal: 1000, LockSeconds: 30 * 86400})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ts.post(t, "/staking/positions", &stakingapi.StakeRequest{Owner: "acc1", LockSeconds: 30 * 86400})
	assert.Equal(t, http.StatusBadRequest, code)

	// unknown fields are rejected by the strict decoder
	res, err := http.Post(ts.URL+"/staking/positions", "application/json",
		bytes.NewBufferString(`{"owner":"acc1","principal":1000,"lockSeconds":2592000,"bogus":1}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestClaimEndpoint(t *testing.T) {
	ts := newServer(t)
	staked := ts.stake(t, "acc1", 1000, 30*86400)

	ts.advance(15 * day)
	code, data := ts.post(t, "/staking/positions/"+staked.ID+"/claim", nil)
	require.Equal(t, http.StatusOK, code, string(data))
	var claim stakingapi.ClaimResponse
	require.NoError(t, json.Unmarshal(data, &claim))
	assert.Equal(t, uint64(2), claim.AmountPaid)

	// nothing left to claim at the same instant
	code, _ = ts.post(t, "/staking/positions/"+staked.ID+"/claim", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUnstakeEndpoint_Early(t *testing.T) {
	ts := newServer(t)
	staked := ts.stake(t, "acc1", 1000, 30*86400)

	ts.advance(10 * day)
	code, data := ts.post(t, "/staking/positions/"+staked.ID+"/unstake", nil)
	require.Equal(t, http.StatusOK, code, string(data))
	var out stakingapi.UnstakeResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, uint64(900), out.AmountReturned)
	assert.Equal(t, uint64(100), out.Penalty)
	assert.Equal(t, uint64(0), out.RewardsPaid)
	assert.False(t, out.Matured)

	// settling twice is a conflict
	code, _ = ts.post(t, "/staking/positions/"+staked.ID+"/unstake", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestUnstakeEndpoint_Matured(t *testing.T) {
	ts := newServer(t)
	staked := ts.stake(t, "acc1", 1000, 30*86400)

	ts.advance(30 * day)
	code, data := ts.post(t, "/staking/positions/"+staked.ID+"/unstake", nil)
	require.Equal(t, http.StatusOK, code, string(data))
	var out stakingapi.UnstakeResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, uint64(1000), out.AmountReturned)
	assert.Equal(t, uint64(0), out.Penalty)
	assert.Equal(t, uint64(4), out.RewardsPaid)
	assert.True(t, out.Matured)
}

func TestGetPositionEndpoint(t *testing.T) {
	ts := newServer(t)
	staked := ts.stake(t, "acc1", 1000, 30*86400)

	code, data := ts.get(t, "/staking/positions/"+staked.ID)
	require.Equal(t, http.StatusOK, code)
	var p stakingapi.Position
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, "acc1", p.Owner)
	assert.Equal(t, uint64(1000), p.Principal)
	assert.Equal(t, "bronze", p.Tier)
	assert.Equal(t, "active", p.Status)

	// unknown but well-formed id
	code, _ = ts.get(t, "/staking/positions/" + "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	assert.Equal(t, http.StatusNotFound, code)

	// malformed id
	code, _ = ts.get(t, "/staking/positions/xyz")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListPositionsEndpoint(t *testing.T) {
	ts := newServer(t)
	ts.stake(t, "acc1", 1000, 30*86400)
	ts.stake(t, "acc1", 5000, 180*86400)
	ts.stake(t, "acc2", 500, 60*86400)

	code, data := ts.get(t, "/staking/accounts/acc1/positions")
	require.Equal(t, http.StatusOK, code)
	var list []stakingapi.Position
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list, 2)

	code, data = ts.get(t, "/staking/accounts/nobody/positions")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Empty(t, list)
}

func TestTotalsEndpoint(t *testing.T) {
	ts := newServer(t)
	ts.stake(t, "acc1", 1000, 30*86400)
	ts.stake(t, "acc2", 5000, 180*86400)

	code, data := ts.get(t, "/staking/totals")
	require.Equal(t, http.StatusOK, code)
	var totals stakingapi.TotalsResponse
	require.NoError(t, json.Unmarshal(data, &totals))
	assert.Equal(t, uint64(6000), totals.TotalStaked)
	assert.Equal(t, uint64(0), totals.TotalRewardsDistributed)
}

func TestTiersEndpoint(t *testing.T) {
	ts := newServer(t)

	code, data := ts.get(t, "/staking/tiers")
	require.Equal(t, http.StatusOK, code)
	var tiers []map[string]any
	require.NoError(t, json.Unmarshal(data, &tiers))
	require.Len(t, tiers, 4)
	assert.Equal(t, "bronze", tiers[0]["name"])
	assert.Equal(t, "platinum", tiers[3]["name"])
}

func TestVotingPowerEndpoint(t *testing.T) {
	ts := newServer(t)
	ts.stake(t, "acc1", 1000, 30*86400)
	ts.stake(t, "acc1", 5000, 180*86400)

	code, data := ts.get(t, "/staking/accounts/acc1/power?base=200")
	require.Equal(t, http.StatusOK, code)
	var power stakingapi.PowerResponse
	require.NoError(t, json.Unmarshal(data, &power))
	assert.Equal(t, uint64(200+9000), power.VotingPower)

	code, _ = ts.get(t, "/staking/accounts/acc1/power?base=abc")
	assert.Equal(t, http.StatusBadRequest, code)
}
