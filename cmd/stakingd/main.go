// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/thor-staking/api"
	"github.com/vechain/thor-staking/log"
	"github.com/vechain/thor-staking/metrics"
	"github.com/vechain/thor-staking/runtime"
	"github.com/vechain/thor-staking/state"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "stakingd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakingd",
		Usage:     "Token staking engine",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			memFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			cacheFlag,
			dbCacheFlag,
			verbosityFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "airdrop",
				Usage: "build the merkle root and claim proofs of an air-drop",
				Flags: []cli.Flag{
					inputFlag,
					outputFlag,
					verbosityFlag,
				},
				Action: airdropAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	genesisID, err := gene.ID()
	if err != nil {
		return err
	}

	dataDir := ""
	if !ctx.Bool(memFlag.Name) {
		dataDir = filepath.Join(ctx.String(dataDirFlag.Name), fmt.Sprintf("instance-%x", genesisID[24:]))
		if err := os.MkdirAll(dataDir, 0o700); err != nil {
			return errors.WithMessagef(err, "create data dir [%v]", dataDir)
		}
	}

	mainDB, err := openMainDB(dataDir, normalizeCacheSize(ctx.Int(dbCacheFlag.Name)))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	logDB, err := openLogDB(dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	rt := runtime.New(mainDB, state.NewCache(ctx.Int(cacheFlag.Name)), logDB, nil)
	if err := initGenesis(rt, mainDB, gene, genesisID); err != nil {
		return err
	}

	enableLogs := &atomic.Bool{}
	enableLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler, closeSubs := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      enableLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
	})

	listener, err := net.Listen("tcp", ctx.String(apiAddrFlag.Name))
	if err != nil {
		return errors.WithMessagef(err, "listen API addr [%v]", ctx.String(apiAddrFlag.Name))
	}
	defer func() { logger.Info("closing subscriptions..."); closeSubs() }()
	apiSrv := &http.Server{Handler: handleXGenesisID(handler, genesisID), ReadHeaderTimeout: 10 * time.Second}

	exitCtx := handleExitSignal()
	group, groupCtx := errgroup.WithContext(exitCtx)
	group.Go(func() error { return serve(groupCtx, apiSrv, listener) })

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsListener, err := net.Listen("tcp", ctx.String(metricsAddrFlag.Name))
		if err != nil {
			listener.Close()
			return errors.WithMessagef(err, "listen metrics addr [%v]", ctx.String(metricsAddrFlag.Name))
		}
		metricsSrv := &http.Server{Handler: metrics.HTTPHandler(), ReadHeaderTimeout: 10 * time.Second}
		group.Go(func() error { return serve(groupCtx, metricsSrv, metricsListener) })
	}
	if server := ctx.String(ntpServerFlag.Name); server != "" {
		group.Go(func() error {
			clockSyncLoop(groupCtx, server)
			return nil
		})
	}

	printStartupMessage(gene, genesisID, dataDir, "http://"+listener.Addr().String()+"/")
	return group.Wait()
}

func serve(ctx context.Context, srv *http.Server, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(listener) }()

	select {
	case <-ctx.Done():
		logger.Info("stopping server...", "addr", listener.Addr())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
