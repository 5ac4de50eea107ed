// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/api/utils"
	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/builtin/executor"
	"github.com/vechain/thor-staking/builtin/staking/accrual"
	"github.com/vechain/thor-staking/runtime"
)

type API struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *API {
	return &API{rt}
}

func (a *API) handleGetGovernance(w http.ResponseWriter, req *http.Request) error {
	var result Governance
	if err := a.rt.View(func(c *builtin.Contracts) error {
		governor, err := c.Staking.Governor()
		if err != nil {
			return err
		}
		pending, err := c.Staking.PendingGovernor()
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
		impl, err := c.StakingProxy.Implementation()
		if err != nil {
			return err
		}
		result = Governance{
			Governor:        governor,
			Paused:          paused,
			EarlyExitPolicy: policy.String(),
			Implementation:  impl,
			Versions:        builtin.StakingImplementations.Versions(),
		}
		if !pending.IsZero() {
			result.PendingGovernor = &pending
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

// call decodes a request body of type T and runs fn on it as one call.
func call[T any](a *API, w http.ResponseWriter, req *http.Request, name string, fn func(c *builtin.Contracts, body *T) error) error {
	var body T
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.rt.Call(req.Context(), name, func(c *builtin.Contracts) error {
		return fn(c, &body)
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (a *API) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	return call(a, w, req, "transfer_governance", func(c *builtin.Contracts, body *TransferRequest) error {
		return c.Staking.TransferGovernance(body.Caller, body.NewGovernor)
	})
}

func (a *API) handleClaim(w http.ResponseWriter, req *http.Request) error {
	return call(a, w, req, "claim_governance", func(c *builtin.Contracts, body *CallerRequest) error {
		return c.Staking.ClaimGovernance(body.Caller)
	})
}

func (a *API) handlePause(w http.ResponseWriter, req *http.Request) error {
	return call(a, w, req, "pause", func(c *builtin.Contracts, body *CallerRequest) error {
		return c.Staking.Pause(body.Caller)
	})
}

func (a *API) handleUnpause(w http.ResponseWriter, req *http.Request) error {
	return call(a, w, req, "unpause", func(c *builtin.Contracts, body *CallerRequest) error {
		return c.Staking.Unpause(body.Caller)
	})
}

func (a *API) handleSetPolicy(w http.ResponseWriter, req *http.Request) error {
	var body PolicyRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	policy, err := accrual.ParsePolicy(body.Policy)
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := a.rt.Call(req.Context(), "set_early_exit_policy", func(c *builtin.Contracts) error {
		return c.Staking.SetEarlyExitPolicy(body.Caller, policy)
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (a *API) handleUpgrade(w http.ResponseWriter, req *http.Request) error {
	return call(a, w, req, "upgrade", func(c *builtin.Contracts, body *UpgradeRequest) error {
		return c.StakingProxy.UpgradeTo(body.Caller, body.Version)
	})
}

func (a *API) handleGetExecutor(w http.ResponseWriter, req *http.Request) error {
	var result Executor
	if err := a.rt.View(func(c *builtin.Contracts) (err error) {
		if result.Admin, err = c.Executor.Admin(); err != nil {
			return err
		}
		result.Delay, err = c.Executor.Delay()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (a *API) handlePropose(w http.ResponseWriter, req *http.Request) error {
	var body ProposeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	action := &executor.Action{Method: body.Method, Args: []byte(body.Args)}
	var id *big.Int
	if err := a.rt.Call(req.Context(), "propose", func(c *builtin.Contracts) (err error) {
		id, err = c.Executor.Propose(body.Caller, action, a.rt.Now())
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"id": (*math.HexOrDecimal256)(id)})
}

func (a *API) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.BigVar(req, "id")
	if err != nil {
		return err
	}
	var result *Proposal
	if err := a.rt.View(func(c *builtin.Contracts) error {
		proposal, err := c.Executor.Get(id)
		if err != nil {
			return err
		}
		result = convertProposal((*math.HexOrDecimal256)(id), proposal)
		return nil
	}); err != nil {
		if errors.Is(err, executor.ErrProposalNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, result)
}

func (a *API) handleExecute(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.BigVar(req, "id")
	if err != nil {
		return err
	}
	return call(a, w, req, "execute", func(c *builtin.Contracts, body *CallerRequest) error {
		return c.Executor.Execute(body.Caller, id, a.rt.Now(), c)
	})
}

func (a *API) handleCancel(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.BigVar(req, "id")
	if err != nil {
		return err
	}
	return call(a, w, req, "cancel", func(c *builtin.Contracts, body *CallerRequest) error {
		return c.Executor.Cancel(body.Caller, id)
	})
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /governance").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetGovernance))

	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST /governance/transfer").
		HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("POST /governance/claim").
		HandlerFunc(utils.WrapHandlerFunc(a.handleClaim))
	sub.Path("/pause").
		Methods(http.MethodPost).
		Name("POST /governance/pause").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePause))
	sub.Path("/unpause").
		Methods(http.MethodPost).
		Name("POST /governance/unpause").
		HandlerFunc(utils.WrapHandlerFunc(a.handleUnpause))
	sub.Path("/early-exit-policy").
		Methods(http.MethodPut).
		Name("PUT /governance/early-exit-policy").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetPolicy))
	sub.Path("/upgrade").
		Methods(http.MethodPost).
		Name("POST /governance/upgrade").
		HandlerFunc(utils.WrapHandlerFunc(a.handleUpgrade))
	sub.Path("/executor").
		Methods(http.MethodGet).
		Name("GET /governance/executor").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetExecutor))
	sub.Path("/executor/proposals").
		Methods(http.MethodPost).
		Name("POST /governance/executor/proposals").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePropose))
	sub.Path("/executor/proposals/{id}").
		Methods(http.MethodGet).
		Name("GET /governance/executor/proposals/{id}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetProposal))
	sub.Path("/executor/proposals/{id}/execute").
		Methods(http.MethodPost).
		Name("POST /governance/executor/proposals/{id}/execute").
		HandlerFunc(utils.WrapHandlerFunc(a.handleExecute))
	sub.Path("/executor/proposals/{id}/cancel").
		Methods(http.MethodPost).
		Name("POST /governance/executor/proposals/{id}/cancel").
		HandlerFunc(utils.WrapHandlerFunc(a.handleCancel))
}
