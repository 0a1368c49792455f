// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	h := New(func(context.Context) error { return nil })
	status := h.Status(context.Background())
	assert.True(t, status.Healthy)
	assert.True(t, status.StoreReachable)

	h = New(func(context.Context) error { return errors.New("store down") })
	status = h.Status(context.Background())
	assert.False(t, status.Healthy)
	assert.False(t, status.StoreReachable)
}

func TestEndpoint(t *testing.T) {
	router := mux.NewRouter()
	New(func(context.Context) error { return nil }).Mount(router, "/health")
	srv := httptest.NewServer(router)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var status Status
	require.NoError(t, json.NewDecoder(res.Body).Decode(&status))
	assert.True(t, status.Healthy)
}

func TestEndpoint_Unhealthy(t *testing.T) {
	router := mux.NewRouter()
	New(func(context.Context) error { return errors.New("store down") }).Mount(router, "/health")
	srv := httptest.NewServer(router)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}
