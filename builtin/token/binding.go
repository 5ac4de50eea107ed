// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/vechain/thor-staking/thor"
)

// Binding is the token seen from one holder, which acts as sender and spender.
type Binding struct {
	token  *Token
	holder thor.Address
}

// Bind returns the token as seen by holder.
func (t *Token) Bind(holder thor.Address) *Binding {
	return &Binding{token: t, holder: holder}
}

func (b *Binding) Transfer(to thor.Address, amount *big.Int) (bool, error) {
	return b.token.Transfer(b.holder, to, amount)
}

func (b *Binding) TransferFrom(from, to thor.Address, amount *big.Int) (bool, error) {
	return b.token.TransferFrom(b.holder, from, to, amount)
}

func (b *Binding) BalanceOf(addr thor.Address) (*big.Int, error) {
	return b.token.BalanceOf(addr)
}
