// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the REST router.
package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	stakingapi "github.com/iamai-dao/staking/api/staking"
	"github.com/iamai-dao/staking/health"
	"github.com/iamai-dao/staking/log"
	"github.com/iamai-dao/staking/metrics"
	"github.com/iamai-dao/staking/staking"
)

var logger = log.WithContext("pkg", "api")

// Config selects the optional surfaces of the router.
type Config struct {
	AllowedOrigins []string
	EnableMetrics  bool
}

// New returns the assembled http handler.
//
// now is the trusted timestamp source of the settlement collaborator; every
// lifecycle operation observes it, never the wall clock directly.
func New(engine *staking.Engine, healthSvc *health.Health, now func() uint64, config Config) http.Handler {
	router := mux.NewRouter()

	stakingapi.New(engine, now).Mount(router, "/staking")
	healthSvc.Mount(router, "/health")
	if config.EnableMetrics {
		router.Path("/metrics").Methods(http.MethodGet).Handler(metrics.HTTPHandler())
	}

	origins := config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	logger.Debug("router assembled", "metrics", config.EnableMetrics)

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
}
