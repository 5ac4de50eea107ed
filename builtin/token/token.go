// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

var (
	slotTotalSupply = nameToSlot("total-supply")
	slotBalances    = nameToSlot("balances")
	slotAllowances  = nameToSlot("allowances")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// allowanceKey addresses the allowance an owner granted to a spender.
type allowanceKey struct {
	owner   thor.Address
	spender thor.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token is a fungible token kept in contract storage.
// Transfers report insufficient funds with a false result, not an error.
type Token struct {
	sctx        *solidity.Context
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[allowanceKey, *big.Int]
}

func New(addr thor.Address, state *state.State, sink solidity.EventSink) *Token {
	sctx := solidity.NewContext(addr, state, sink)
	return &Token{
		sctx:        sctx,
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *big.Int](sctx, slotAllowances),
	}
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr thor.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	allowance, err := t.allowances.Get(allowanceKey{owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return allowance, nil
}

// Mint creates amount new tokens for to. It is used by genesis allocation only.
func (t *Token) Mint(to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative mint amount")
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	t.emitTransfer(thor.Address{}, to, amount)
	return nil
}

// Transfer moves amount from sender to to.
func (t *Token) Transfer(sender, to thor.Address, amount *big.Int) (bool, error) {
	if amount.Sign() < 0 {
		return false, nil
	}
	fromBal, err := t.BalanceOf(sender)
	if err != nil {
		return false, err
	}
	if fromBal.Cmp(amount) < 0 {
		return false, nil
	}
	if err := t.balances.Set(sender, fromBal.Sub(fromBal, amount)); err != nil {
		return false, err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return false, err
	}
	if err := t.balances.Set(to, toBal.Add(toBal, amount)); err != nil {
		return false, err
	}
	t.emitTransfer(sender, to, amount)
	return true, nil
}

// Approve sets the amount spender may move on behalf of owner.
func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative allowance")
	}
	if err := t.allowances.Set(allowanceKey{owner, spender}, amount); err != nil {
		return err
	}
	t.sctx.Emit("Approval", []thor.Bytes32{
		thor.BytesToBytes32(owner.Bytes()),
		thor.BytesToBytes32(spender.Bytes()),
	}, map[string]any{"amount": amount})
	return nil
}

// TransferFrom moves amount from from to to, spending the allowance of spender.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) (bool, error) {
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return false, err
	}
	if allowance.Cmp(amount) < 0 {
		return false, nil
	}
	ok, err := t.Transfer(from, to, amount)
	if err != nil || !ok {
		return ok, err
	}
	if err := t.allowances.Set(allowanceKey{from, spender}, allowance.Sub(allowance, amount)); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Token) emitTransfer(from, to thor.Address, amount *big.Int) {
	t.sctx.Emit("Transfer", []thor.Bytes32{
		thor.BytesToBytes32(from.Bytes()),
		thor.BytesToBytes32(to.Bytes()),
	}, map[string]any{"amount": amount})
}
