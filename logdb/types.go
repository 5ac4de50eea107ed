// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/thor"
)

// MaxTopics is the number of indexed topics kept per event.
const MaxTopics = 3

// Event represents a contract event that can be stored in db.
type Event struct {
	Seq     uint64 // assigned on insert
	Time    uint64
	Address thor.Address // always a contract address
	Name    string
	Topics  [MaxTopics]*thor.Bytes32
	Data    []byte // JSON object
}

// NewEvent converts an emitted event to Event.
func NewEvent(time uint64, ev *solidity.Event) (*Event, error) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s data", ev.Name)
	}
	e := &Event{
		Time:    time,
		Address: ev.Address,
		Name:    ev.Name,
		Data:    data,
	}
	for i := 0; i < len(ev.Topics) && i < MaxTopics; i++ {
		topic := ev.Topics[i]
		e.Topics[i] = &topic
	}
	return e, nil
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive time range. To below From means unbounded.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Nil fields match everything.
type EventFilter struct {
	After   uint64 // only events with a higher Seq
	Address *thor.Address
	Name    string
	Topics  [MaxTopics]*thor.Bytes32
	Range   *Range
	Options *Options
	Order   Order
}
