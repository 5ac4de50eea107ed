// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
)

// RateScale is the fixed-point scale of tier rates. A rate of RateScale pays 100% of principal.
var RateScale = big.NewInt(1e18)

const (
	// MaxDropDepth bounds the depth of an air-drop merkle commitment.
	MaxDropDepth = 32

	// Day in seconds.
	Day = uint64(24 * 60 * 60)
)

// well-known addresses of the built-in contracts
var (
	GovernanceAddress = BytesToAddress([]byte("Governance"))
	StakingAddress    = BytesToAddress([]byte("Staking"))
	TokenAddress      = BytesToAddress([]byte("Token"))
	ExecutorAddress   = BytesToAddress([]byte("Executor"))
	ParamsAddress     = BytesToAddress([]byte("Params"))
)

// keys of governance parameters
var (
	KeyEarlyExitPolicy = BytesToBytes32([]byte("early-exit-policy"))
	KeyPaused          = BytesToBytes32([]byte("paused"))
)
