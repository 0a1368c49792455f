// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// stakingd serves the staking position engine over HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/iamai-dao/staking/api"
	"github.com/iamai-dao/staking/health"
	"github.com/iamai-dao/staking/log"
	"github.com/iamai-dao/staking/metrics"
	"github.com/iamai-dao/staking/stakedb"
	"github.com/iamai-dao/staking/staking"
)

var (
	version   string
	gitCommit string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakingd",
		Usage:     "IAMAI DAO staking engine",
		Copyright: "2026 IAMAI DAO",
		Flags: []cli.Flag{
			apiAddrFlag,
			apiCorsFlag,
			dataDirFlag,
			persistFlag,
			verbosityFlag,
			enableMetricsFlag,
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	log.SetVerbosity(ctx.Int(verbosityFlag.Name))

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	engine := staking.New(db)
	healthSvc := health.New(func(ctx context.Context) error {
		_, err := db.Aggregate(ctx)
		return err
	})

	// the engine trusts the settlement layer for timestamps; stakingd stands
	// in for it with the wall clock
	now := func() uint64 { return uint64(time.Now().Unix()) }

	handler := api.New(engine, healthSvc, now, api.Config{
		AllowedOrigins: splitCors(ctx.String(apiCorsFlag.Name)),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})

	srv := &http.Server{
		Addr:              ctx.String(apiAddrFlag.Name),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		logger.Info("API started", "addr", srv.Addr, "version", fullVersion())
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func openStore(ctx *cli.Context) (*stakedb.StakeDB, error) {
	if !ctx.Bool(persistFlag.Name) {
		logger.Info("using in-memory store")
		return stakedb.NewMem()
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, err
	}
	path := filepath.Join(dataDir, "staking.db")
	logger.Info("opening store", "path", path)
	return stakedb.New(path)
}

func splitCors(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
