// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health reports service liveness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/iamai-dao/staking/api/restutil"
)

const checkTimeout = 2 * time.Second

// Status is the wire form of a health probe.
type Status struct {
	Healthy        bool `json:"healthy"`
	StoreReachable bool `json:"storeReachable"`
}

// Health probes the liveness of the service and its store.
type Health struct {
	storeCheck func(context.Context) error
}

// New creates a health service. storeCheck should perform a cheap read
// against the persistence layer.
func New(storeCheck func(context.Context) error) *Health {
	return &Health{storeCheck: storeCheck}
}

// Status runs the probes.
func (h *Health) Status(ctx context.Context) *Status {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	storeOK := h.storeCheck(ctx) == nil
	return &Status{
		Healthy:        storeOK,
		StoreReachable: storeOK,
	}
}

func (h *Health) handleStatus(w http.ResponseWriter, req *http.Request) error {
	status := h.Status(req.Context())
	if !status.Healthy {
		return restutil.WriteJSONWithStatus(w, http.StatusServiceUnavailable, status)
	}
	return restutil.WriteJSON(w, status)
}

func (h *Health) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(h.handleStatus))
}
