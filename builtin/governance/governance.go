// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governance implements the two-step governor handshake guarding privileged calls.
//
// The gate moves from Uninitialized to Active once Initialize records the first governor.
// A transfer is a proposal: the pending governor has no authority until it claims.
package governance

import (
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/log"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

var (
	logger = log.WithContext("pkg", "governance")

	slotGovernor        = nameToSlot("governor")
	slotPendingGovernor = nameToSlot("pending-governor")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

type Governance struct {
	sctx     *solidity.Context
	governor *solidity.Address
	pending  *solidity.Address
}

func New(addr thor.Address, state *state.State, sink solidity.EventSink) *Governance {
	sctx := solidity.NewContext(addr, state, sink)
	return &Governance{
		sctx:     sctx,
		governor: solidity.NewAddress(sctx, slotGovernor),
		pending:  solidity.NewAddress(sctx, slotPendingGovernor),
	}
}

func (g *Governance) Governor() (thor.Address, error) {
	addr, err := g.governor.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get governor")
	}
	return addr, nil
}

func (g *Governance) PendingGovernor() (thor.Address, error) {
	addr, err := g.pending.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get pending governor")
	}
	return addr, nil
}

// IsInitialized reports whether a governor was ever set.
func (g *Governance) IsInitialized() (bool, error) {
	governor, err := g.Governor()
	if err != nil {
		return false, err
	}
	return !governor.IsZero(), nil
}

// Initialize records the first governor.
func (g *Governance) Initialize(governor thor.Address) error {
	initialized, err := g.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return reverts.ErrAlreadyInitialized
	}
	if governor.IsZero() {
		return reverts.ErrNotGovernor
	}
	g.governor.Set(&governor)
	g.sctx.Emit("GovernanceTransferred", []thor.Bytes32{{}, thor.BytesToBytes32(governor.Bytes())}, nil)
	return nil
}

// Check fails unless caller is the current governor.
func (g *Governance) Check(caller thor.Address) error {
	governor, err := g.Governor()
	if err != nil {
		return err
	}
	if governor.IsZero() {
		return reverts.ErrUninitialized
	}
	if caller != governor {
		return reverts.ErrNotGovernor
	}
	return nil
}

// TransferGovernance proposes newGovernor. The zero address cancels a pending proposal.
func (g *Governance) TransferGovernance(caller, newGovernor thor.Address) error {
	if err := g.Check(caller); err != nil {
		return err
	}
	g.pending.Set(&newGovernor)

	if newGovernor.IsZero() {
		logger.Debug("governance transfer cancelled", "governor", caller)
	}
	g.sctx.Emit("GovernanceTransferStarted", []thor.Bytes32{
		thor.BytesToBytes32(caller.Bytes()),
		thor.BytesToBytes32(newGovernor.Bytes()),
	}, nil)
	return nil
}

// ClaimGovernance promotes the pending governor and clears the proposal.
func (g *Governance) ClaimGovernance(caller thor.Address) error {
	pending, err := g.PendingGovernor()
	if err != nil {
		return err
	}
	if pending.IsZero() || caller != pending {
		return reverts.ErrNotGovernor
	}
	previous, err := g.Governor()
	if err != nil {
		return err
	}

	g.governor.Set(&pending)
	g.pending.Set(nil)

	logger.Info("governance transferred", "from", previous, "to", pending)
	g.sctx.Emit("GovernanceTransferred", []thor.Bytes32{
		thor.BytesToBytes32(previous.Bytes()),
		thor.BytesToBytes32(pending.Bytes()),
	}, nil)
	return nil
}
