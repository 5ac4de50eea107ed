// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package executor

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/lvldb"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

type recordingDispatcher struct {
	callers []thor.Address
	actions []*Action
	err     error
}

func (d *recordingDispatcher) Dispatch(caller thor.Address, action *Action) error {
	d.callers = append(d.callers, caller)
	d.actions = append(d.actions, action)
	return d.err
}

var admin = thor.BytesToAddress([]byte("admin"))

func newExecutor(t *testing.T, delay uint64) *Executor {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := New(thor.ExecutorAddress, state.New(db, nil), nil)
	e.Setup(admin, delay)
	return e
}

type pauseArgs struct {
	Reason string
}

func TestProposeExecute(t *testing.T) {
	e := newExecutor(t, 100)
	d := &recordingDispatcher{}

	action, err := NewAction("Pause", &pauseArgs{"incident"})
	require.NoError(t, err)

	_, err = e.Propose(thor.Address{1}, action, 1000)
	assert.ErrorIs(t, err, ErrNotAdmin)
	_, err = e.Propose(admin, &Action{}, 1000)
	assert.ErrorIs(t, err, ErrUnknownAction)

	id, err := e.Propose(admin, action, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Int64())

	proposal, err := e.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1100), proposal.ETA)

	assert.ErrorIs(t, e.Execute(admin, id, 1099, d), ErrNotReady)
	assert.ErrorIs(t, e.Execute(admin, big.NewInt(2), 2000, d), ErrProposalNotFound)

	require.NoError(t, e.Execute(thor.Address{2}, id, 1100, d))
	require.Len(t, d.actions, 1)
	assert.Equal(t, thor.ExecutorAddress, d.callers[0])
	assert.Equal(t, "Pause", d.actions[0].Method)

	var args pauseArgs
	require.NoError(t, d.actions[0].DecodeArgs(&args))
	assert.Equal(t, "incident", args.Reason)

	assert.ErrorIs(t, e.Execute(admin, id, 1200, d), ErrAlreadyExecuted)
	assert.ErrorIs(t, e.Cancel(admin, id), ErrAlreadyExecuted)
}

func TestCancel(t *testing.T) {
	e := newExecutor(t, 0)
	d := &recordingDispatcher{}

	action, err := NewAction("Unpause", []any{})
	require.NoError(t, err)
	id, err := e.Propose(admin, action, 10)
	require.NoError(t, err)

	assert.ErrorIs(t, e.Cancel(thor.Address{1}, id), ErrNotAdmin)
	require.NoError(t, e.Cancel(admin, id))
	assert.ErrorIs(t, e.Cancel(admin, id), ErrProposalNotFound)
	assert.ErrorIs(t, e.Execute(admin, id, 10, d), ErrProposalNotFound)
	assert.Empty(t, d.actions)
}

func TestDispatchFailure(t *testing.T) {
	e := newExecutor(t, 0)
	d := &recordingDispatcher{err: reverts.ErrNotGovernor}

	action, err := NewAction("Pause", []any{})
	require.NoError(t, err)
	id, err := e.Propose(admin, action, 10)
	require.NoError(t, err)

	assert.ErrorIs(t, e.Execute(admin, id, 10, d), reverts.ErrNotGovernor)
}

func TestDecodeArgs(t *testing.T) {
	action := &Action{Method: "Pause", Args: []byte{0xff}}
	var args pauseArgs
	assert.ErrorIs(t, action.DecodeArgs(&args), ErrUnknownAction)
}

func TestProposeETAOverflow(t *testing.T) {
	e := newExecutor(t, math.MaxUint64-1000)

	action, err := NewAction("Pause", []any{})
	require.NoError(t, err)

	_, err = e.Propose(admin, action, 1001)
	assert.ErrorIs(t, err, reverts.ErrOverflow)
	_, err = e.Get(big.NewInt(1))
	assert.ErrorIs(t, err, ErrProposalNotFound)

	id, err := e.Propose(admin, action, 1000)
	require.NoError(t, err)
	proposal, err := e.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), proposal.ETA)
	assert.ErrorIs(t, e.Execute(admin, id, 1000, &recordingDispatcher{}), ErrNotReady)
}
