// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package proxy keeps a contract address stable while its logic is swapped.
// The active implementation is a version name stored in the proxied contract's own storage,
// resolved against a registry of factories. Every implementation shares the same slots.
package proxy

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/governance"
	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/log"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

var (
	logger = log.WithContext("pkg", "proxy")

	slotImplementation = thor.BytesToBytes32([]byte("implementation"))

	ErrUnknownImplementation = reverts.New("unknown implementation")
)

// Registry maps version names to implementation factories.
type Registry[F any] struct {
	lock      sync.RWMutex
	def       string
	factories map[string]F
}

// NewRegistry creates a registry whose default version is def, served by f.
func NewRegistry[F any](def string, f F) *Registry[F] {
	return &Registry[F]{
		def:       def,
		factories: map[string]F{def: f},
	}
}

func (r *Registry[F]) Register(version string, f F) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.factories[version] = f
}

func (r *Registry[F]) Lookup(version string) (F, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f, ok := r.factories[version]
	return f, ok
}

// Default returns the version used before any upgrade.
func (r *Registry[F]) Default() string {
	return r.def
}

func (r *Registry[F]) Versions() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	versions := make([]string, 0, len(r.factories))
	for v := range r.factories {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Proxy binds the implementation pointer of one contract.
type Proxy[F any] struct {
	sctx     *solidity.Context
	gov      *governance.Governance
	registry *Registry[F]
	impl     *solidity.Raw[string]
}

func New[F any](addr thor.Address, state *state.State, gov *governance.Governance, registry *Registry[F], sink solidity.EventSink) *Proxy[F] {
	sctx := solidity.NewContext(addr, state, sink)
	return &Proxy[F]{
		sctx:     sctx,
		gov:      gov,
		registry: registry,
		impl:     solidity.NewRaw[string](sctx, slotImplementation),
	}
}

// Implementation returns the active version.
func (p *Proxy[F]) Implementation() (string, error) {
	version, err := p.impl.Get()
	if err != nil {
		return "", errors.Wrap(err, "failed to get implementation")
	}
	if version == "" {
		return p.registry.Default(), nil
	}
	return version, nil
}

// Resolve returns the factory of the active version.
func (p *Proxy[F]) Resolve() (F, error) {
	var zero F
	version, err := p.Implementation()
	if err != nil {
		return zero, err
	}
	f, ok := p.registry.Lookup(version)
	if !ok {
		return zero, errors.Errorf("implementation %q is not registered", version)
	}
	return f, nil
}

// UpgradeTo points the proxy at version.
func (p *Proxy[F]) UpgradeTo(caller thor.Address, version string) error {
	if err := p.gov.Check(caller); err != nil {
		return err
	}
	if _, ok := p.registry.Lookup(version); !ok {
		return ErrUnknownImplementation
	}
	previous, err := p.Implementation()
	if err != nil {
		return err
	}
	if err := p.impl.Set(version); err != nil {
		return err
	}
	logger.Info("implementation upgraded", "contract", p.sctx.Address(), "from", previous, "to", version)
	p.sctx.Emit("Upgraded", nil, map[string]any{"from": previous, "to": version})
	return nil
}
