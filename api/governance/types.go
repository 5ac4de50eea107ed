// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/thor-staking/builtin/executor"
	"github.com/vechain/thor-staking/thor"
)

type Governance struct {
	Governor        thor.Address  `json:"governor"`
	PendingGovernor *thor.Address `json:"pendingGovernor"`
	Paused          bool          `json:"paused"`
	EarlyExitPolicy string        `json:"earlyExitPolicy"`
	Implementation  string        `json:"implementation"`
	Versions        []string      `json:"versions"`
}

type CallerRequest struct {
	Caller thor.Address `json:"caller"`
}

type TransferRequest struct {
	Caller      thor.Address `json:"caller"`
	NewGovernor thor.Address `json:"newGovernor"`
}

type PolicyRequest struct {
	Caller thor.Address `json:"caller"`
	Policy string       `json:"policy"`
}

type UpgradeRequest struct {
	Caller  thor.Address `json:"caller"`
	Version string       `json:"version"`
}

type Executor struct {
	Admin thor.Address `json:"admin"`
	Delay uint64       `json:"delay"`
}

// ProposeRequest queues a privileged call. Args is the RLP encoding of the method arguments.
type ProposeRequest struct {
	Caller thor.Address  `json:"caller"`
	Method string        `json:"method"`
	Args   hexutil.Bytes `json:"args"`
}

type Proposal struct {
	ID         *math.HexOrDecimal256 `json:"id"`
	Proposer   thor.Address          `json:"proposer"`
	Method     string                `json:"method"`
	Args       hexutil.Bytes         `json:"args"`
	ProposedAt uint64                `json:"proposedAt"`
	ETA        uint64                `json:"eta"`
	Executed   bool                  `json:"executed"`
	Cancelled  bool                  `json:"cancelled"`
}

func convertProposal(id *math.HexOrDecimal256, p *executor.Proposal) *Proposal {
	return &Proposal{
		ID:         id,
		Proposer:   p.Proposer,
		Method:     p.Action.Method,
		Args:       hexutil.Bytes(p.Action.Args),
		ProposedAt: p.ProposedAt,
		ETA:        p.ETA,
		Executed:   p.Executed,
		Cancelled:  p.Cancelled,
	}
}
