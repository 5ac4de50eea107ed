// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/api/utils"
	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/runtime"
	"github.com/vechain/thor-staking/thor"
)

var errInsufficientBalance = reverts.New("insufficient balance")

type Supply struct {
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Allowance struct {
	Allowance *math.HexOrDecimal256 `json:"allowance"`
}

type TransferRequest struct {
	Caller thor.Address          `json:"caller"`
	To     thor.Address          `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type ApproveRequest struct {
	Caller  thor.Address          `json:"caller"`
	Spender thor.Address          `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type Token struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Token {
	return &Token{rt}
}

func (t *Token) handleGetSupply(w http.ResponseWriter, req *http.Request) error {
	var result Supply
	if err := t.rt.View(func(c *builtin.Contracts) error {
		supply, err := c.Token.TotalSupply()
		result.TotalSupply = (*math.HexOrDecimal256)(supply)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (t *Token) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var result Account
	if err := t.rt.View(func(c *builtin.Contracts) error {
		balance, err := c.Token.BalanceOf(addr)
		result.Balance = (*math.HexOrDecimal256)(balance)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (t *Token) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	spender, err := utils.AddressVar(req, "spender")
	if err != nil {
		return err
	}
	var result Allowance
	if err := t.rt.View(func(c *builtin.Contracts) error {
		allowance, err := c.Token.Allowance(owner, spender)
		result.Allowance = (*math.HexOrDecimal256)(allowance)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (t *Token) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if utils.Amount(body.Amount).Sign() < 0 {
		return utils.BadRequest(errors.New("amount: negative"))
	}
	if err := t.rt.Call(req.Context(), "token_transfer", func(c *builtin.Contracts) error {
		ok, err := c.Token.Transfer(body.Caller, body.To, utils.Amount(body.Amount))
		if err != nil {
			return err
		}
		if !ok {
			return errInsufficientBalance
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (t *Token) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body ApproveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if utils.Amount(body.Amount).Sign() < 0 {
		return utils.BadRequest(errors.New("amount: negative"))
	}
	if err := t.rt.Call(req.Context(), "token_approve", func(c *builtin.Contracts) error {
		return c.Token.Approve(body.Caller, body.Spender, utils.Amount(body.Amount))
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (t *Token) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /token").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetSupply))

	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /token/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAccount))
	sub.Path("/accounts/{address}/allowances/{spender}").
		Methods(http.MethodGet).
		Name("GET /token/accounts/{address}/allowances/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST /token/transfer").
		HandlerFunc(utils.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/approve").
		Methods(http.MethodPost).
		Name("POST /token/approve").
		HandlerFunc(utils.WrapHandlerFunc(t.handleApprove))
}
