// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/executor"
	"github.com/vechain/thor-staking/builtin/governance"
	"github.com/vechain/thor-staking/builtin/params"
	"github.com/vechain/thor-staking/builtin/proxy"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/builtin/staking"
	"github.com/vechain/thor-staking/builtin/token"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

// Builtin contracts binding.
var (
	Governance = &governanceContract{newContract("Governance")}
	Params     = &paramsContract{newContract("Params")}
	Token      = &tokenContract{newContract("Token")}
	Staking    = &stakingContract{newContract("Staking")}
	Executor   = &executorContract{newContract("Executor")}
)

// StakingFactory builds one implementation of the staking logic.
type StakingFactory func(
	addr thor.Address,
	state *state.State,
	gov *governance.Governance,
	params *params.Params,
	asset staking.Asset,
	sink solidity.EventSink,
	clock staking.Clock,
) *staking.Staking

// StakingImplementations lists the logic versions the staking proxy can point at.
var StakingImplementations = proxy.NewRegistry[StakingFactory]("v1", staking.New)

type (
	governanceContract struct{ *contract }
	paramsContract     struct{ *contract }
	tokenContract      struct{ *contract }
	stakingContract    struct{ *contract }
	executorContract   struct{ *contract }
)

func (g *governanceContract) Native(state *state.State, sink solidity.EventSink) *governance.Governance {
	return governance.New(g.Address, state, sink)
}

func (p *paramsContract) Native(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (t *tokenContract) Native(state *state.State, sink solidity.EventSink) *token.Token {
	return token.New(t.Address, state, sink)
}

func (e *executorContract) Native(state *state.State, sink solidity.EventSink) *executor.Executor {
	return executor.New(e.Address, state, sink)
}

func (s *stakingContract) Proxy(state *state.State, sink solidity.EventSink) *proxy.Proxy[StakingFactory] {
	return proxy.New(s.Address, state, Governance.Native(state, nil), StakingImplementations, sink)
}

// Native binds the active staking implementation, paying and pulling through the token.
func (s *stakingContract) Native(state *state.State, sink solidity.EventSink, clock staking.Clock) (*staking.Staking, error) {
	factory, err := s.Proxy(state, sink).Resolve()
	if err != nil {
		return nil, errors.Wrap(err, "resolve staking implementation")
	}
	return factory(
		s.Address,
		state,
		Governance.Native(state, sink),
		Params.Native(state),
		Token.Native(state, sink).Bind(s.Address),
		sink,
		clock,
	), nil
}
