// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package airdrops

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/api/utils"
	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/runtime"
	"github.com/vechain/thor-staking/thor"
)

type Airdrops struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Airdrops {
	return &Airdrops{rt}
}

func (a *Airdrops) handleGetDrop(w http.ResponseWriter, req *http.Request) error {
	dropType, err := utils.UintVar(req, "type", 8)
	if err != nil {
		return err
	}
	var result *Drop
	if err := a.rt.View(func(c *builtin.Contracts) error {
		drop, err := c.Staking.GetDrop(uint8(dropType))
		if err != nil {
			return err
		}
		if drop.Depth > 0 {
			result = convertDrop(uint8(dropType), drop)
		}
		return nil
	}); err != nil {
		return err
	}
	if result == nil {
		return utils.NotFound(errors.Errorf("drop %d not set", dropType))
	}
	return utils.WriteJSON(w, result)
}

func (a *Airdrops) handleSetRoot(w http.ResponseWriter, req *http.Request) error {
	dropType, err := utils.UintVar(req, "type", 8)
	if err != nil {
		return err
	}
	var body SetRootRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.rt.Call(req.Context(), "set_airdrop_root", func(c *builtin.Contracts) error {
		return c.Staking.SetAirDropRoot(body.Caller, uint8(dropType), body.Root, body.Depth, body.Tier)
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (a *Airdrops) handleClaim(w http.ResponseWriter, req *http.Request) error {
	dropType, err := utils.UintVar(req, "type", 8)
	if err != nil {
		return err
	}
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body.Proof) > thor.MaxDropDepth {
		return utils.BadRequest(errors.New("proof: too long"))
	}
	var id *big.Int
	if err := a.rt.Call(req.Context(), "claim", func(c *builtin.Contracts) (err error) {
		id, err = c.Staking.Claim(body.Caller, uint8(dropType), utils.Amount(body.Amount), body.Index, body.Proof)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &ClaimResponse{(*math.HexOrDecimal256)(id)})
}

func (a *Airdrops) handleGetClaim(w http.ResponseWriter, req *http.Request) error {
	dropType, err := utils.UintVar(req, "type", 8)
	if err != nil {
		return err
	}
	index, err := utils.UintVar(req, "index", 64)
	if err != nil {
		return err
	}
	var claimed bool
	if err := a.rt.View(func(c *builtin.Contracts) (err error) {
		claimed, err = c.Staking.IsClaimed(uint8(dropType), index)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &ClaimStatus{Index: index, Claimed: claimed})
}

func (a *Airdrops) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{type}").
		Methods(http.MethodGet).
		Name("GET /airdrops/{type}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetDrop))
	sub.Path("/{type}").
		Methods(http.MethodPut).
		Name("PUT /airdrops/{type}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetRoot))
	sub.Path("/{type}/claims").
		Methods(http.MethodPost).
		Name("POST /airdrops/{type}/claims").
		HandlerFunc(utils.WrapHandlerFunc(a.handleClaim))
	sub.Path("/{type}/claims/{index}").
		Methods(http.MethodGet).
		Name("GET /airdrops/{type}/claims/{index}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetClaim))
}
