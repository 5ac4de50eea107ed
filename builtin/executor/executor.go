// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package executor

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/log"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

var (
	logger = log.WithContext("pkg", "executor")

	slotAdmin     = thor.BytesToBytes32([]byte("admin"))
	slotDelay     = thor.BytesToBytes32([]byte("delay"))
	slotLastID    = thor.BytesToBytes32([]byte("last-proposal-id"))
	slotProposals = thor.BytesToBytes32([]byte("proposals"))
)

var (
	ErrNotAdmin         = reverts.New("not admin")
	ErrProposalNotFound = reverts.New("proposal not found")
	ErrNotReady         = reverts.New("proposal not ready")
	ErrAlreadyExecuted  = reverts.New("proposal already executed")
	ErrUnknownAction    = reverts.New("unknown action")
)

// Action is a privileged call: a method name and its RLP encoded arguments.
type Action struct {
	Method string
	Args   rlp.RawValue
}

// NewAction encodes args for method.
func NewAction(method string, args any) (*Action, error) {
	raw, err := rlp.EncodeToBytes(args)
	if err != nil {
		return nil, errors.Wrap(err, "encode action args")
	}
	return &Action{Method: method, Args: raw}, nil
}

// DecodeArgs decodes the arguments into v.
func (a *Action) DecodeArgs(v any) error {
	if err := rlp.DecodeBytes(a.Args, v); err != nil {
		return ErrUnknownAction
	}
	return nil
}

type Proposal struct {
	Proposer   thor.Address
	Action     Action
	ProposedAt uint64
	ETA        uint64
	Executed   bool
	Cancelled  bool
}

// Dispatcher performs an action on behalf of caller.
type Dispatcher interface {
	Dispatch(caller thor.Address, action *Action) error
}

// Executor is a timelock: the admin queues privileged calls, which can be executed
// once the delay has passed. Executed calls run with the executor address as caller,
// so the executor is installed as the governor.
type Executor struct {
	sctx      *solidity.Context
	admin     *solidity.Address
	delay     *solidity.Uint256
	lastID    *solidity.Uint256
	proposals *solidity.Mapping[*big.Int, *Proposal]
}

func New(addr thor.Address, state *state.State, sink solidity.EventSink) *Executor {
	sctx := solidity.NewContext(addr, state, sink)
	return &Executor{
		sctx:      sctx,
		admin:     solidity.NewAddress(sctx, slotAdmin),
		delay:     solidity.NewUint256(sctx, slotDelay),
		lastID:    solidity.NewUint256(sctx, slotLastID),
		proposals: solidity.NewMapping[*big.Int, *Proposal](sctx, slotProposals),
	}
}

func (e *Executor) Address() thor.Address {
	return e.sctx.Address()
}

// Setup installs admin and delay. It is applied by genesis.
func (e *Executor) Setup(admin thor.Address, delay uint64) {
	e.admin.Set(&admin)
	e.delay.Set(new(big.Int).SetUint64(delay))
}

func (e *Executor) Admin() (thor.Address, error) {
	return e.admin.Get()
}

// Delay returns the minimum seconds between proposal and execution.
func (e *Executor) Delay() (uint64, error) {
	delay, err := e.delay.Get()
	if err != nil {
		return 0, err
	}
	return delay.Uint64(), nil
}

func (e *Executor) checkAdmin(caller thor.Address) error {
	admin, err := e.admin.Get()
	if err != nil {
		return err
	}
	if admin.IsZero() || caller != admin {
		return ErrNotAdmin
	}
	return nil
}

// Propose queues action and returns the proposal id.
func (e *Executor) Propose(caller thor.Address, action *Action, now uint64) (*big.Int, error) {
	if err := e.checkAdmin(caller); err != nil {
		return nil, err
	}
	if action == nil || action.Method == "" {
		return nil, ErrUnknownAction
	}
	delay, err := e.Delay()
	if err != nil {
		return nil, err
	}
	if delay > math.MaxUint64-now {
		return nil, reverts.ErrOverflow
	}
	id, err := e.lastID.Get()
	if err != nil {
		return nil, err
	}
	id.Add(id, big.NewInt(1))
	e.lastID.Set(id)

	proposal := &Proposal{
		Proposer:   caller,
		Action:     *action,
		ProposedAt: now,
		ETA:        now + delay,
	}
	if err := e.proposals.Set(id, proposal); err != nil {
		return nil, err
	}
	logger.Debug("action proposed", "id", id, "method", action.Method, "eta", proposal.ETA)
	e.sctx.Emit("Proposed", []thor.Bytes32{thor.BytesToBytes32(id.Bytes())}, map[string]any{
		"method": action.Method,
		"eta":    proposal.ETA,
	})
	return id, nil
}

// Get returns a proposal, ErrProposalNotFound if id was never allocated.
func (e *Executor) Get(id *big.Int) (*Proposal, error) {
	lastID, err := e.lastID.Get()
	if err != nil {
		return nil, err
	}
	if id == nil || id.Sign() <= 0 || id.Cmp(lastID) > 0 {
		return nil, ErrProposalNotFound
	}
	return e.proposals.Get(id)
}

// Execute performs a queued action whose delay has passed. Anyone may trigger it.
func (e *Executor) Execute(caller thor.Address, id *big.Int, now uint64, dispatcher Dispatcher) error {
	proposal, err := e.Get(id)
	if err != nil {
		return err
	}
	if proposal.Cancelled {
		return ErrProposalNotFound
	}
	if proposal.Executed {
		return ErrAlreadyExecuted
	}
	if now < proposal.ETA {
		return ErrNotReady
	}

	st := e.sctx.State()
	revision := st.NewCheckpoint()
	proposal.Executed = true
	if err := e.proposals.Set(id, proposal); err != nil {
		st.RevertTo(revision)
		return err
	}
	if err := dispatcher.Dispatch(e.Address(), &proposal.Action); err != nil {
		st.RevertTo(revision)
		return err
	}
	logger.Info("action executed", "id", id, "method", proposal.Action.Method, "by", caller)
	e.sctx.Emit("Executed", []thor.Bytes32{thor.BytesToBytes32(id.Bytes())}, map[string]any{
		"method": proposal.Action.Method,
	})
	return nil
}

// Cancel drops a queued action.
func (e *Executor) Cancel(caller thor.Address, id *big.Int) error {
	if err := e.checkAdmin(caller); err != nil {
		return err
	}
	proposal, err := e.Get(id)
	if err != nil {
		return err
	}
	if proposal.Executed {
		return ErrAlreadyExecuted
	}
	if proposal.Cancelled {
		return ErrProposalNotFound
	}
	proposal.Cancelled = true
	if err := e.proposals.Set(id, proposal); err != nil {
		return err
	}
	e.sctx.Emit("Cancelled", []thor.Bytes32{thor.BytesToBytes32(id.Bytes())}, nil)
	return nil
}
