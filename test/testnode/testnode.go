// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnode runs the staking engine in memory for tests.
package testnode

import (
	"context"
	"sync/atomic"

	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/genesis"
	"github.com/vechain/thor-staking/logdb"
	"github.com/vechain/thor-staking/lvldb"
	"github.com/vechain/thor-staking/runtime"
	"github.com/vechain/thor-staking/state"
)

// StartTime is the clock value a node starts at.
const StartTime = uint64(1_700_000_000)

// Node is an in-memory engine with a manual clock.
type Node struct {
	db      *lvldb.LevelDB
	logDB   *logdb.LogDB
	rt      *runtime.Runtime
	genesis *genesis.Genesis
	now     atomic.Uint64
}

// New creates a node with gen applied.
func New(gen *genesis.Genesis) (*Node, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	n := &Node{db: db, logDB: logDB, genesis: gen}
	n.now.Store(StartTime)
	n.rt = runtime.New(db, state.NewCache(4096), logDB, n.now.Load)

	if err := n.rt.Call(context.Background(), "genesis", gen.Apply); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

// NewDefault creates a node on the dev network genesis.
func NewDefault() (*Node, error) {
	return New(genesis.NewDevnet())
}

func (n *Node) Runtime() *runtime.Runtime { return n.rt }
func (n *Node) LogDB() *logdb.LogDB       { return n.logDB }
func (n *Node) Genesis() *genesis.Genesis { return n.genesis }
func (n *Node) Now() uint64               { return n.now.Load() }

// Advance moves the clock forward.
func (n *Node) Advance(seconds uint64) {
	n.now.Add(seconds)
}

// Call runs fn as a committed call.
func (n *Node) Call(fn func(c *builtin.Contracts) error) error {
	return n.rt.Call(context.Background(), "test", fn)
}

func (n *Node) Close() {
	n.logDB.Close()
	n.db.Close()
}
