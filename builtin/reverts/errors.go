// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

// Reverts shared by the built-in contracts. Match them with errors.Is.
var (
	ErrUninitialized      = New("uninitialized")
	ErrAlreadyInitialized = New("already initialized")
	ErrLengthMismatch     = New("length mismatch")
	ErrEmptyConfig        = New("empty config")
	ErrInvalidTier        = New("invalid tier")
	ErrTierInUse          = New("tier in use")
	ErrZeroAmount         = New("zero amount")
	ErrNotOwner           = New("not owner")
	ErrNotFound           = New("not found")
	ErrAlreadyWithdrawn   = New("already withdrawn")
	ErrInvalidProof       = New("invalid proof")
	ErrAlreadyClaimed     = New("already claimed")
	ErrNotGovernor        = New("not governor")
	ErrTransferFailed     = New("transfer failed")
	ErrOverflow           = New("overflow")
	ErrPaused             = New("paused")
	ErrInsufficientPool   = New("insufficient reward pool")
)
