// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

// Params binder of `Params` contract.
// Access control is left to the caller, see the governance gate.
type Params struct {
	sctx *solidity.Context
}

func New(addr thor.Address, state *state.State) *Params {
	return &Params{solidity.NewContext(addr, state, nil)}
}

// Get native way to get param. An unset param is zero.
func (p *Params) Get(key thor.Bytes32) (*big.Int, error) {
	v, err := solidity.NewUint256(p.sctx, key).Get()
	if err != nil {
		return nil, errors.Wrapf(err, "get param %v", key.AbbrevString())
	}
	return v, nil
}

// Set native way to set param.
func (p *Params) Set(key thor.Bytes32, value *big.Int) error {
	if value.Sign() < 0 {
		return errors.Errorf("negative param %v", key.AbbrevString())
	}
	solidity.NewUint256(p.sctx, key).Set(value)
	return nil
}

// GetBool reads a param as a flag.
func (p *Params) GetBool(key thor.Bytes32) (bool, error) {
	v, err := p.Get(key)
	if err != nil {
		return false, err
	}
	return v.Sign() != 0, nil
}

func (p *Params) SetBool(key thor.Bytes32, flag bool) error {
	if flag {
		return p.Set(key, big.NewInt(1))
	}
	return p.Set(key, new(big.Int))
}
