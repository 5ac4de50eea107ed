// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/reverts"
)

var ErrInvalidPolicy = reverts.New("invalid early exit policy")

func revertLabel(err error) string {
	var revert *reverts.ErrRevert
	if errors.As(err, &revert) {
		return revert.Error()
	}
	return "internal"
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
