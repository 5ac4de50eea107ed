// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/api/utils"
	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/runtime"
)

type Staking struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staking {
	return &Staking{rt}
}

func (s *Staking) handleGetTiers(w http.ResponseWriter, req *http.Request) error {
	var result []*Tier
	if err := s.rt.View(func(c *builtin.Contracts) error {
		list, err := c.Staking.Tiers()
		if err != nil {
			return err
		}
		result = make([]*Tier, 0, len(list))
		for i, t := range list {
			result = append(result, convertTier(uint32(i), t))
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) handleAddTier(w http.ResponseWriter, req *http.Request) error {
	var body TierRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var index uint32
	if err := s.rt.Call(req.Context(), "add_tier", func(c *builtin.Contracts) (err error) {
		index, err = c.Staking.AddTier(body.Caller, body.Duration, utils.Amount(body.Rate))
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &IndexResponse{index})
}

func (s *Staking) handleUpdateTier(w http.ResponseWriter, req *http.Request) error {
	index, err := utils.UintVar(req, "index", 32)
	if err != nil {
		return err
	}
	var body TierRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.rt.Call(req.Context(), "update_tier", func(c *builtin.Contracts) error {
		return c.Staking.UpdateTier(body.Caller, uint32(index), body.Duration, utils.Amount(body.Rate))
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &IndexResponse{uint32(index)})
}

func (s *Staking) handleGetTotals(w http.ResponseWriter, req *http.Request) error {
	var result Totals
	if err := s.rt.View(func(c *builtin.Contracts) error {
		totals, err := c.Staking.Totals()
		if err != nil {
			return err
		}
		pool, err := c.Staking.RewardPool()
		if err != nil {
			return err
		}
		paused, err := c.Staking.IsPaused()
		if err != nil {
			return err
		}
		policy, err := c.Staking.EarlyExitPolicy()
		if err != nil {
			return err
		}
		result = Totals{
			Locked:          (*math.HexOrDecimal256)(totals.Locked),
			Bonus:           (*math.HexOrDecimal256)(totals.Bonus),
			Paid:            (*math.HexOrDecimal256)(totals.Paid),
			RewardPool:      (*math.HexOrDecimal256)(pool),
			Paused:          paused,
			EarlyExitPolicy: policy.String(),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var id *big.Int
	if err := s.rt.Call(req.Context(), "stake", func(c *builtin.Contracts) (err error) {
		id, err = c.Staking.Stake(body.Caller, utils.Amount(body.Amount), body.Tier)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &IDResponse{(*math.HexOrDecimal256)(id)})
}

// getStake loads a stake, quoting open ones at the runtime clock.
func (s *Staking) getStake(c *builtin.Contracts, id *big.Int) (*Stake, error) {
	record, err := c.Staking.GetStake(id)
	if err != nil {
		return nil, err
	}
	var quote *big.Int
	if !record.Closed {
		if quote, err = c.Staking.Quote(id, s.rt.Now()); err != nil {
			return nil, err
		}
	}
	return convertStake(id, record, quote), nil
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.BigVar(req, "id")
	if err != nil {
		return err
	}
	var result *Stake
	if err := s.rt.View(func(c *builtin.Contracts) (err error) {
		result, err = s.getStake(c, id)
		return err
	}); err != nil {
		if errors.Is(err, reverts.ErrNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.BigVar(req, "id")
	if err != nil {
		return err
	}
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var payout *big.Int
	if err := s.rt.Call(req.Context(), "withdraw", func(c *builtin.Contracts) (err error) {
		payout, err = c.Staking.Withdraw(body.Caller, id)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &PayoutResponse{(*math.HexOrDecimal256)(payout)})
}

func (s *Staking) handleGetAccountStakes(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var result []*Stake
	if err := s.rt.View(func(c *builtin.Contracts) error {
		ids, err := c.Staking.StakesOf(owner)
		if err != nil {
			return err
		}
		result = make([]*Stake, 0, len(ids))
		for _, id := range ids {
			stake, err := s.getStake(c, id)
			if err != nil {
				return err
			}
			result = append(result, stake)
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) handleFund(w http.ResponseWriter, req *http.Request) error {
	var body FundRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.rt.Call(req.Context(), "fund", func(c *builtin.Contracts) error {
		return c.Staking.Fund(body.Caller, utils.Amount(body.Amount))
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/tiers").
		Methods(http.MethodGet).
		Name("GET /staking/tiers").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTiers))
	sub.Path("/tiers").
		Methods(http.MethodPost).
		Name("POST /staking/tiers").
		HandlerFunc(utils.WrapHandlerFunc(s.handleAddTier))
	sub.Path("/tiers/{index}").
		Methods(http.MethodPut).
		Name("PUT /staking/tiers/{index}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUpdateTier))
	sub.Path("/totals").
		Methods(http.MethodGet).
		Name("GET /staking/totals").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotals))
	sub.Path("/stakes").
		Methods(http.MethodPost).
		Name("POST /staking/stakes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/stakes/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/stakes/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/stakes/{id}/withdraw").
		Methods(http.MethodPost).
		Name("POST /staking/stakes/{id}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/accounts/{address}/stakes").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{address}/stakes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccountStakes))
	sub.Path("/fund").
		Methods(http.MethodPost).
		Name("POST /staking/fund").
		HandlerFunc(utils.WrapHandlerFunc(s.handleFund))
}
