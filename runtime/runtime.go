// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/builtin/staking"
	"github.com/vechain/thor-staking/kv"
	"github.com/vechain/thor-staking/log"
	"github.com/vechain/thor-staking/logdb"
	"github.com/vechain/thor-staking/state"
)

var logger = log.WithContext("pkg", "runtime")

// eventBuffer holds the events of one call until it commits.
type eventBuffer struct {
	events []*solidity.Event
}

func (b *eventBuffer) Emit(ev *solidity.Event) {
	b.events = append(b.events, ev)
}

// Runtime serializes calls into the built-in contracts. A call sees a fresh state over
// the store and either commits all of its writes and events or none of them.
type Runtime struct {
	mu    sync.RWMutex
	store kv.Store
	cache *state.Cache
	logDB *logdb.LogDB
	clock staking.Clock

	changedMu sync.Mutex
	changed   chan struct{}
}

// New creates a runtime. logDB is optional.
func New(store kv.Store, cache *state.Cache, logDB *logdb.LogDB, clock staking.Clock) *Runtime {
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Runtime{
		store:   store,
		cache:   cache,
		logDB:   logDB,
		clock:   clock,
		changed: make(chan struct{}),
	}
}

// Now returns the runtime clock.
func (rt *Runtime) Now() uint64 {
	return rt.clock()
}

// Call runs fn as one mutating call. name labels metrics and logs.
func (rt *Runtime) Call(ctx context.Context, name string, fn func(c *builtin.Contracts) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	startTime := time.Now()
	events, err := rt.call(fn)
	metricCallDuration().ObserveWithLabels(time.Since(startTime).Microseconds(), map[string]string{"call": name})
	if err != nil {
		result := "error"
		if reverts.IsRevertErr(err) {
			result = "revert"
		} else {
			logger.Error("call failed", "call", name, "err", err)
		}
		metricCalls().AddWithLabel(1, map[string]string{"call": name, "result": result})
		return err
	}
	metricCalls().AddWithLabel(1, map[string]string{"call": name, "result": "ok"})

	if rt.logDB != nil && len(events) > 0 {
		if err := rt.index(ctx, events); err != nil {
			// storage is already committed
			logger.Warn("failed to index events", "call", name, "err", err)
		}
	}
	rt.broadcast()
	return nil
}

// Changed returns a channel closed after the next committed call.
func (rt *Runtime) Changed() <-chan struct{} {
	rt.changedMu.Lock()
	defer rt.changedMu.Unlock()
	return rt.changed
}

func (rt *Runtime) broadcast() {
	rt.changedMu.Lock()
	defer rt.changedMu.Unlock()
	close(rt.changed)
	rt.changed = make(chan struct{})
}

func (rt *Runtime) call(fn func(c *builtin.Contracts) error) ([]*solidity.Event, error) {
	st := state.New(rt.store, rt.cache)
	sink := &eventBuffer{}
	contracts, err := builtin.Bind(st, sink, rt.clock)
	if err != nil {
		return nil, err
	}

	revision := st.NewCheckpoint()
	if err := fn(contracts); err != nil {
		st.RevertTo(revision)
		return nil, err
	}
	if err := st.Stage().Commit(); err != nil {
		return nil, errors.WithMessage(err, "commit")
	}
	return sink.events, nil
}

func (rt *Runtime) index(ctx context.Context, events []*solidity.Event) error {
	now := rt.clock()
	records := make([]*logdb.Event, 0, len(events))
	for _, ev := range events {
		record, err := logdb.NewEvent(now, ev)
		if err != nil {
			return err
		}
		records = append(records, record)
	}
	return rt.logDB.Insert(ctx, records)
}

// View runs fn against committed state. Writes made by fn are discarded.
func (rt *Runtime) View(fn func(c *builtin.Contracts) error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	st := state.New(rt.store, rt.cache)
	contracts, err := builtin.Bind(st, nil, rt.clock)
	if err != nil {
		return err
	}
	return fn(contracts)
}

// LogDB returns the event log, nil if none.
func (rt *Runtime) LogDB() *logdb.LogDB {
	return rt.logDB
}
