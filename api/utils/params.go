// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/thor"
)

// AddressVar parses the path variable name as an address.
func AddressVar(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// BigVar parses the path variable name as a decimal or hex integer.
func BigVar(req *http.Request, name string) (*big.Int, error) {
	v, ok := math.ParseBig256(mux.Vars(req)[name])
	if !ok {
		return nil, BadRequest(errors.Errorf("%s: invalid integer", name))
	}
	return v, nil
}

// UintVar parses the path variable name as an unsigned integer of bitSize bits.
func UintVar(req *http.Request, name string, bitSize int) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(req)[name], 0, bitSize)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// Amount reads an optional JSON amount, nil meaning zero.
func Amount(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return (*big.Int)(v)
}
