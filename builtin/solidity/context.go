// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

// Event is a log entry emitted by a built-in contract.
type Event struct {
	Address thor.Address
	Name    string
	Topics  []thor.Bytes32
	Data    map[string]any
}

// EventSink receives events emitted during a call.
type EventSink interface {
	Emit(ev *Event)
}

// Context binds a contract address to the state it reads and writes.
type Context struct {
	address thor.Address
	state   *state.State
	sink    EventSink
}

func NewContext(address thor.Address, state *state.State, sink EventSink) *Context {
	return &Context{
		address: address,
		state:   state,
		sink:    sink,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Emit forwards an event to the sink, if any.
func (c *Context) Emit(name string, topics []thor.Bytes32, data map[string]any) {
	if c.sink == nil {
		return
	}
	c.sink.Emit(&Event{
		Address: c.address,
		Name:    name,
		Topics:  topics,
		Data:    data,
	})
}
