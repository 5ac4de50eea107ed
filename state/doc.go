// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage.
// It follows the flow as bellow:
//
//	        o
//	        |
//	[ revertable state ]
//	        |
//	[ stacked map ] -> [ journal ] -> [ stage ] -> [ kv batch ]
//	        |
//	  [ lru cache ]
//	        |
//	   [ kv store ]
//
// Every slot belongs to a contract address. Slot values are RLP encoded.
package state
