// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/builtin/staking/accrual"
	"github.com/vechain/thor-staking/thor"
)

// Genesis describes the initial state of the staking engine.
type Genesis struct {
	Governor        thor.Address `yaml:"governor"`
	EarlyExitPolicy string       `yaml:"earlyExitPolicy,omitempty"`
	Paused          bool         `yaml:"paused,omitempty"`
	Tiers           []Tier       `yaml:"tiers"`
	Accounts        []Account    `yaml:"accounts,omitempty"`
	RewardPool      *Amount      `yaml:"rewardPool,omitempty"`
	Drops           []Drop       `yaml:"drops,omitempty"`
	Executor        *Executor    `yaml:"executor,omitempty"`
}

type Tier struct {
	Duration Duration `yaml:"duration"`
	Rate     Rate     `yaml:"rate"`
}

type Account struct {
	Address thor.Address `yaml:"address"`
	Balance *Amount      `yaml:"balance"`
}

type Drop struct {
	Type  uint8        `yaml:"type"`
	Root  thor.Bytes32 `yaml:"root"`
	Depth uint8        `yaml:"depth"`
	Tier  uint32       `yaml:"tier"`
}

// Executor installs the timelock. With Governs set, governance is handed to the
// executor once the rest of genesis is applied.
type Executor struct {
	Admin   thor.Address `yaml:"admin"`
	Delay   Duration     `yaml:"delay"`
	Governs bool         `yaml:"governs,omitempty"`
}

// Amount is a token amount, written in decimal or 0x-prefixed hex.
type Amount = math.HexOrDecimal256

// Duration is a span in whole seconds. It accepts Go duration strings and a "d" suffix for days.
type Duration uint64

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	if uint64(d)%thor.Day == 0 {
		return fmt.Sprintf("%dd", uint64(d)/thor.Day), nil
	}
	return (time.Duration(d) * time.Second).String(), nil
}

// ParseDuration parses "30d", "720h" or "45s" into seconds.
func ParseDuration(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseUint(days, 10, 64)
		if err != nil {
			return 0, errors.Errorf("invalid duration %q", s)
		}
		return n * thor.Day, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration %q", s)
	}
	if d < 0 || d%time.Second != 0 {
		return 0, errors.Errorf("invalid duration %q: must be whole non-negative seconds", s)
	}
	return uint64(d / time.Second), nil
}

// Rate is a reward rate in 1e18 fixed point.
type Rate struct {
	big.Int
}

func (r *Rate) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseRate(s)
	if err != nil {
		return err
	}
	r.Set(parsed)
	return nil
}

func (r Rate) MarshalYAML() (any, error) {
	return new(big.Rat).SetFrac(&r.Int, thor.RateScale).FloatString(18), nil
}

// ParseRate parses a decimal fraction ("0.006") or a percentage ("0.6%") into 1e18 fixed point.
// Precision below 1e-18 is rejected rather than rounded.
func ParseRate(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	scale := new(big.Rat).SetInt(thor.RateScale)
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		s = strings.TrimSpace(pct)
		scale.Quo(scale, big.NewRat(100, 1))
	}
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, errors.Errorf("invalid rate %q", s)
	}
	if rat.Sign() < 0 {
		return nil, errors.Errorf("invalid rate %q: negative", s)
	}
	rat.Mul(rat, scale)
	if !rat.IsInt() {
		return nil, errors.Errorf("invalid rate %q: too precise", s)
	}
	return new(big.Int).Set(rat.Num()), nil
}

// Load reads a genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML genesis.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Validate checks what the engine would otherwise reject halfway through Apply.
func (g *Genesis) Validate() error {
	if g.Governor.IsZero() {
		return errors.New("governor must be set")
	}
	if len(g.Tiers) == 0 {
		return errors.New("at least one tier is required")
	}
	for i, tier := range g.Tiers {
		if tier.Duration == 0 {
			return errors.Errorf("tier %d: duration must be positive", i)
		}
	}
	if _, err := accrual.ParsePolicy(g.EarlyExitPolicy); err != nil {
		return err
	}
	for _, a := range g.Accounts {
		if a.Balance == nil || (*big.Int)(a.Balance).Sign() < 1 {
			return errors.Errorf("%s: balance must be a positive integer", a.Address)
		}
	}
	for _, d := range g.Drops {
		if int(d.Tier) >= len(g.Tiers) {
			return errors.Errorf("drop %d: unknown tier %d", d.Type, d.Tier)
		}
		if d.Depth == 0 || d.Depth > thor.MaxDropDepth {
			return errors.Errorf("drop %d: depth must be within 1..%d", d.Type, thor.MaxDropDepth)
		}
	}
	if g.Executor != nil && g.Executor.Admin.IsZero() {
		return errors.New("executor admin must be set")
	}
	return nil
}

// ID identifies the genesis content.
func (g *Genesis) ID() (thor.Bytes32, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	return thor.Blake2b(data), nil
}

// Apply writes the genesis state through the built-in contracts.
func (g *Genesis) Apply(c *builtin.Contracts) error {
	for _, a := range g.Accounts {
		if err := c.Token.Mint(a.Address, (*big.Int)(a.Balance)); err != nil {
			return errors.WithMessagef(err, "mint %s", a.Address)
		}
	}
	if g.RewardPool != nil && (*big.Int)(g.RewardPool).Sign() > 0 {
		// the pool is whatever the engine holds above the locked principal
		if err := c.Token.Mint(c.Staking.Address(), (*big.Int)(g.RewardPool)); err != nil {
			return errors.WithMessage(err, "fund reward pool")
		}
	}

	durations := make([]uint64, 0, len(g.Tiers))
	rates := make([]*big.Int, 0, len(g.Tiers))
	for _, tier := range g.Tiers {
		durations = append(durations, uint64(tier.Duration))
		rates = append(rates, new(big.Int).Set(&tier.Rate.Int))
	}
	if err := c.Staking.Initialize(g.Governor, durations, rates); err != nil {
		return errors.WithMessage(err, "initialize staking")
	}

	policy, err := accrual.ParsePolicy(g.EarlyExitPolicy)
	if err != nil {
		return err
	}
	if err := c.Staking.SetEarlyExitPolicy(g.Governor, policy); err != nil {
		return errors.WithMessage(err, "set early exit policy")
	}
	for _, d := range g.Drops {
		if err := c.Staking.SetAirDropRoot(g.Governor, d.Type, d.Root, d.Depth, d.Tier); err != nil {
			return errors.WithMessagef(err, "set drop %d", d.Type)
		}
	}
	if g.Paused {
		if err := c.Staking.Pause(g.Governor); err != nil {
			return errors.WithMessage(err, "pause")
		}
	}

	if g.Executor != nil {
		c.Executor.Setup(g.Executor.Admin, uint64(g.Executor.Delay))
		if g.Executor.Governs {
			executor := c.Executor.Address()
			if err := c.Staking.TransferGovernance(g.Governor, executor); err != nil {
				return errors.WithMessage(err, "hand governance to executor")
			}
			if err := c.Staking.ClaimGovernance(executor); err != nil {
				return errors.WithMessage(err, "hand governance to executor")
			}
		}
	}
	return nil
}
