// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/vechain/thor-staking/builtin/executor"
	"github.com/vechain/thor-staking/builtin/governance"
	"github.com/vechain/thor-staking/builtin/params"
	"github.com/vechain/thor-staking/builtin/proxy"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/builtin/staking"
	"github.com/vechain/thor-staking/builtin/staking/accrual"
	"github.com/vechain/thor-staking/builtin/token"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

// Contracts is the set of built-in contracts bound to one state.
type Contracts struct {
	Governance   *governance.Governance
	Params       *params.Params
	Token        *token.Token
	Staking      *staking.Staking
	StakingProxy *proxy.Proxy[StakingFactory]
	Executor     *executor.Executor
}

// Bind binds every built-in contract to state. Events go to sink, time comes from clock.
func Bind(state *state.State, sink solidity.EventSink, clock staking.Clock) (*Contracts, error) {
	stakingNative, err := Staking.Native(state, sink, clock)
	if err != nil {
		return nil, err
	}
	return &Contracts{
		Governance:   Governance.Native(state, sink),
		Params:       Params.Native(state),
		Token:        Token.Native(state, sink),
		Staking:      stakingNative,
		StakingProxy: Staking.Proxy(state, sink),
		Executor:     Executor.Native(state, sink),
	}, nil
}

// Arguments of the actions the executor can dispatch.
type (
	AddTierArgs struct {
		Duration uint64
		Rate     *big.Int
	}
	UpdateTierArgs struct {
		Index    uint32
		Duration uint64
		Rate     *big.Int
	}
	SetAirDropRootArgs struct {
		DropType uint8
		Root     thor.Bytes32
		Depth    uint8
		Tier     uint32
	}
	TransferGovernanceArgs struct {
		NewGovernor thor.Address
	}
	SetEarlyExitPolicyArgs struct {
		Policy uint8
	}
	UpgradeToArgs struct {
		Version string
	}
)

// Dispatch performs a privileged action on behalf of caller.
func (c *Contracts) Dispatch(caller thor.Address, action *executor.Action) error {
	switch action.Method {
	case "AddTier":
		var args AddTierArgs
		if err := action.DecodeArgs(&args); err != nil {
			return err
		}
		_, err := c.Staking.AddTier(caller, args.Duration, args.Rate)
		return err
	case "UpdateTier":
		var args UpdateTierArgs
		if err := action.DecodeArgs(&args); err != nil {
			return err
		}
		return c.Staking.UpdateTier(caller, args.Index, args.Duration, args.Rate)
	case "SetAirDropRoot":
		var args SetAirDropRootArgs
		if err := action.DecodeArgs(&args); err != nil {
			return err
		}
		return c.Staking.SetAirDropRoot(caller, args.DropType, args.Root, args.Depth, args.Tier)
	case "TransferGovernance":
		var args TransferGovernanceArgs
		if err := action.DecodeArgs(&args); err != nil {
			return err
		}
		return c.Staking.TransferGovernance(caller, args.NewGovernor)
	case "ClaimGovernance":
		return c.Staking.ClaimGovernance(caller)
	case "Pause":
		return c.Staking.Pause(caller)
	case "Unpause":
		return c.Staking.Unpause(caller)
	case "SetEarlyExitPolicy":
		var args SetEarlyExitPolicyArgs
		if err := action.DecodeArgs(&args); err != nil {
			return err
		}
		return c.Staking.SetEarlyExitPolicy(caller, accrual.Policy(args.Policy))
	case "UpgradeTo":
		var args UpgradeToArgs
		if err := action.DecodeArgs(&args); err != nil {
			return err
		}
		return c.StakingProxy.UpgradeTo(caller, args.Version)
	}
	return executor.ErrUnknownAction
}
