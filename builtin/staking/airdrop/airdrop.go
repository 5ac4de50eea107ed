// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package airdrop

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/merkle"
	"github.com/vechain/thor-staking/thor"
)

var (
	slotDrops  = thor.BytesToBytes32([]byte("drops"))
	slotClaims = thor.BytesToBytes32([]byte("drop-claims"))

	ErrInvalidDepth = reverts.New("invalid depth")
)

// Drop is the active commitment of a drop type.
type Drop struct {
	Root          thor.Bytes32
	Depth         uint8
	Tier          uint32 // tier of the bonus stakes
	Claimed       uint64
	ClaimedAmount *big.Int
}

type dropKey uint8

func (k dropKey) Bytes() []byte { return []byte{byte(k)} }

// wordKey addresses 256 consecutive leaves of a drop type in the claim bitmap.
type wordKey struct {
	dropType uint8
	word     uint64
}

func (k wordKey) Bytes() []byte {
	var b [9]byte
	b[0] = k.dropType
	binary.BigEndian.PutUint64(b[1:], k.word)
	return b[:]
}

// Service keeps one commitment per drop type and the bitmap of consumed leaves.
// The bitmap is keyed by drop type only, so it outlives root replacement.
type Service struct {
	drops  *solidity.Mapping[dropKey, *Drop]
	claims *solidity.Mapping[wordKey, *big.Int]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		drops:  solidity.NewMapping[dropKey, *Drop](sctx, slotDrops),
		claims: solidity.NewMapping[wordKey, *big.Int](sctx, slotClaims),
	}
}

func (s *Service) Get(dropType uint8) (*Drop, error) {
	drop, err := s.drops.Get(dropKey(dropType))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get drop")
	}
	if drop.ClaimedAmount == nil {
		drop.ClaimedAmount = new(big.Int)
	}
	return drop, nil
}

// SetRoot installs a commitment and returns the one it replaced. Claim counters carry over.
func (s *Service) SetRoot(dropType uint8, root thor.Bytes32, depth uint8, tier uint32) (*Drop, error) {
	if depth == 0 || depth > thor.MaxDropDepth {
		return nil, ErrInvalidDepth
	}
	previous, err := s.Get(dropType)
	if err != nil {
		return nil, err
	}
	next := *previous
	next.Root = root
	next.Depth = depth
	next.Tier = tier
	if err := s.drops.Set(dropKey(dropType), &next); err != nil {
		return nil, err
	}
	return previous, nil
}

func (s *Service) IsClaimed(dropType uint8, leafIndex uint64) (bool, error) {
	word, err := s.claims.Get(wordKey{dropType, leafIndex / 256})
	if err != nil {
		return false, errors.Wrap(err, "failed to get claim bitmap")
	}
	return word.Bit(int(leafIndex%256)) == 1, nil
}

// Verify checks a claim of amount by claimer against the active commitment of dropType.
// The bitmap is consulted before the proof, so a replay reports ErrAlreadyClaimed whatever amount it names.
func (s *Service) Verify(dropType uint8, claimer thor.Address, amount *big.Int, leafIndex uint64, proof []thor.Bytes32) (*Drop, error) {
	drop, err := s.Get(dropType)
	if err != nil {
		return nil, err
	}
	if drop.Root.IsZero() || drop.Depth == 0 {
		return nil, reverts.ErrInvalidProof
	}
	if leafIndex >= uint64(1)<<drop.Depth {
		return nil, reverts.ErrInvalidProof
	}

	claimed, err := s.IsClaimed(dropType, leafIndex)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, reverts.ErrAlreadyClaimed
	}

	leaf, err := merkle.LeafHash(claimer, amount, leafIndex)
	if err != nil {
		return nil, reverts.ErrOverflow
	}
	if !merkle.Verify(drop.Root, drop.Depth, leafIndex, leaf, proof) {
		return nil, reverts.ErrInvalidProof
	}
	return drop, nil
}

// MarkClaimed consumes a leaf and counts the claim against the drop.
func (s *Service) MarkClaimed(dropType uint8, drop *Drop, leafIndex uint64, amount *big.Int) error {
	key := wordKey{dropType, leafIndex / 256}
	word, err := s.claims.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get claim bitmap")
	}
	bit := int(leafIndex % 256)
	if word.Bit(bit) == 1 {
		return reverts.ErrAlreadyClaimed
	}
	if err := s.claims.Set(key, word.SetBit(word, bit, 1)); err != nil {
		return err
	}

	drop.Claimed++
	drop.ClaimedAmount = new(big.Int).Add(drop.ClaimedAmount, amount)
	return s.drops.Set(dropKey(dropType), drop)
}
