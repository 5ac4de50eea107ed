// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/thor-staking/genesis"
	"github.com/vechain/thor-staking/merkle"
	"github.com/vechain/thor-staking/thor"
)

// DropEntry is one recipient of an air-drop, its position in the input is the leaf index.
type DropEntry struct {
	Address thor.Address    `yaml:"address"`
	Amount  *genesis.Amount `yaml:"amount"`
}

type DropClaim struct {
	Index   uint64                `json:"index"`
	Address thor.Address          `json:"address"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
	Proof   []thor.Bytes32        `json:"proof"`
}

type DropOutput struct {
	Root   thor.Bytes32 `json:"root"`
	Depth  uint8        `json:"depth"`
	Claims []*DropClaim `json:"claims"`
}

func airdropAction(ctx *cli.Context) error {
	initLogger(ctx)

	input := ctx.String(inputFlag.Name)
	if input == "" {
		return errors.New("missing --input")
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(err, "read input")
	}
	var entries []*DropEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return errors.Wrap(err, "decode input")
	}

	bar := pb.New64(int64(len(entries))).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	out, err := buildDrop(entries, func() { bar.Increment() })
	if err != nil {
		return err
	}
	bar.Finish()
	logger.Info("air-drop built", "entries", len(entries), "root", out.Root, "depth", out.Depth)

	var w io.Writer = os.Stdout
	if path := ctx.String(outputFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// buildDrop hashes the entries into a tree and collects a proof per entry.
// progress is called once per entry.
func buildDrop(entries []*DropEntry, progress func()) (*DropOutput, error) {
	if len(entries) == 0 {
		return nil, errors.New("no entries")
	}
	leaves := make([]thor.Bytes32, 0, len(entries))
	for i, e := range entries {
		if e.Amount == nil || (*big.Int)(e.Amount).Sign() <= 0 {
			return nil, errors.Errorf("entry %d: amount must be positive", i)
		}
		leaf, err := merkle.LeafHash(e.Address, (*big.Int)(e.Amount), uint64(i))
		if err != nil {
			return nil, errors.WithMessagef(err, "entry %d", i)
		}
		leaves = append(leaves, leaf)
	}

	tree, err := merkle.NewTree(leaves)
	if err != nil {
		return nil, err
	}
	out := &DropOutput{
		Root:   tree.Root(),
		Depth:  tree.Depth(),
		Claims: make([]*DropClaim, 0, len(entries)),
	}
	for i, e := range entries {
		proof, err := tree.Proof(uint64(i))
		if err != nil {
			return nil, err
		}
		out.Claims = append(out.Claims, &DropClaim{
			Index:   uint64(i),
			Address: e.Address,
			Amount:  (*math.HexOrDecimal256)(e.Amount),
			Proof:   proof,
		})
		if progress != nil {
			progress()
		}
	}
	return out, nil
}
