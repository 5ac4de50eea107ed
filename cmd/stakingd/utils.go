// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/thor-staking/genesis"
	"github.com/vechain/thor-staking/log"
	"github.com/vechain/thor-staking/logdb"
	"github.com/vechain/thor-staking/lvldb"
	"github.com/vechain/thor-staking/runtime"
	"github.com/vechain/thor-staking/thor"
)

var genesisIDKey = []byte("stakingd.genesis-id")

// maxClockOffset is the local clock drift tolerated before warning, stake terms are
// measured in seconds against it.
const maxClockOffset = 5 * time.Second

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".org.vechain.stakingd")
	}
	return ""
}

func initLogger(ctx *cli.Context) {
	level := log.LevelFromVerbosity(ctx.Int(verbosityFlag.Name))
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewTerminalLogger(os.Stderr, level, useColor))
}

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	gene, err := genesis.Load(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "load genesis [%v]", path)
	}
	return gene, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openMainDB(dir string, cacheMB int) (*lvldb.LevelDB, error) {
	if dir == "" {
		return lvldb.NewMem()
	}
	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", path)
	}
	return db, nil
}

func openLogDB(dir string) (*logdb.LogDB, error) {
	if dir == "" {
		return logdb.NewMem()
	}
	path := filepath.Join(dir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "open log database [%v]", path)
	}
	return db, nil
}

// initGenesis applies gene to an empty database, or checks that a populated one
// was built from the same genesis.
func initGenesis(rt *runtime.Runtime, db *lvldb.LevelDB, gene *genesis.Genesis, genesisID thor.Bytes32) error {
	stored, err := db.Get(genesisIDKey)
	if err != nil && !db.IsNotFound(err) {
		return errors.Wrap(err, "read genesis id")
	}
	if err == nil {
		if thor.BytesToBytes32(stored) != genesisID {
			return errors.Errorf("genesis mismatch: database has %v, want %v", thor.BytesToBytes32(stored), genesisID)
		}
		return nil
	}

	if err := rt.Call(context.Background(), "genesis", gene.Apply); err != nil {
		return errors.WithMessage(err, "apply genesis")
	}
	if err := db.Put(genesisIDKey, genesisID.Bytes()); err != nil {
		return errors.Wrap(err, "write genesis id")
	}
	logger.Info("genesis applied", "id", genesisID)
	return nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func handleXGenesisID(h http.Handler, genesisID thor.Bytes32) http.Handler {
	const headerKey = "x-genesis-id"
	expectedID := genesisID.String()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actualID := r.Header.Get(headerKey)
		if actualID == "" {
			actualID = r.URL.Query().Get(headerKey)
		}
		w.Header().Set(headerKey, expectedID)
		if actualID != "" && actualID != expectedID {
			http.Error(w, "genesis id mismatch", http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func clockSyncLoop(ctx context.Context, server string) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	checkClockOffset(server)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkClockOffset(server)
		}
	}
}

func checkClockOffset(server string) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", resp.ClockOffset)
	}
}

func printStartupMessage(gene *genesis.Genesis, genesisID thor.Bytes32, dataDir, apiURL string) {
	if dataDir == "" {
		dataDir = "Memory"
	}
	fmt.Printf(`Starting %v
    Genesis     [ %v ]
    Governor    [ %v ]
    Tiers       [ %d ]
    Data dir    [ %v ]
    API portal  [ %v ]
`,
		fullVersion(),
		genesisID,
		gene.Governor,
		len(gene.Tiers),
		dataDir,
		apiURL)
}
