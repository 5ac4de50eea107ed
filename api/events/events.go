// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/api/utils"
	"github.com/vechain/thor-staking/logdb"
	"github.com/vechain/thor-staking/thor"
)

type Event struct {
	Seq     uint64          `json:"seq"`
	Time    uint64          `json:"time"`
	Address thor.Address    `json:"address"`
	Name    string          `json:"name"`
	Topics  []*thor.Bytes32 `json:"topics"`
	Data    json.RawMessage `json:"data"`
}

// ConvertEvent converts a stored event to its API form.
func ConvertEvent(e *logdb.Event) *Event {
	ev := &Event{
		Seq:     e.Seq,
		Time:    e.Time,
		Address: e.Address,
		Name:    e.Name,
		Data:    json.RawMessage(e.Data),
	}
	for _, topic := range e.Topics {
		if topic != nil {
			ev.Topics = append(ev.Topics, topic)
		}
	}
	return ev
}

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, limit uint64) *Events {
	return &Events{db, limit}
}

func parseUint(query url.Values, name string) (uint64, bool, error) {
	s := query.Get(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, false, utils.BadRequest(errors.WithMessage(err, name))
	}
	return v, true, nil
}

// ParseCriteria reads the address, name and topic criteria from the query string.
func ParseCriteria(query url.Values) (*logdb.EventFilter, error) {
	filter := &logdb.EventFilter{Name: query.Get("name")}
	if s := query.Get("address"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "address"))
		}
		filter.Address = &addr
	}
	for i := range logdb.MaxTopics {
		name := "topic" + strconv.Itoa(i)
		if s := query.Get(name); s != "" {
			topic, err := thor.ParseBytes32(s)
			if err != nil {
				return nil, utils.BadRequest(errors.WithMessage(err, name))
			}
			filter.Topics[i] = &topic
		}
	}
	return filter, nil
}

func (e *Events) parseFilter(query url.Values) (*logdb.EventFilter, error) {
	filter, err := ParseCriteria(query)
	if err != nil {
		return nil, err
	}
	filter.Options = &logdb.Options{Limit: e.limit}

	from, hasFrom, err := parseUint(query, "from")
	if err != nil {
		return nil, err
	}
	to, hasTo, err := parseUint(query, "to")
	if err != nil {
		return nil, err
	}
	if hasFrom || hasTo {
		if !hasTo {
			to = math.MaxInt64
		} else if to < from {
			return nil, utils.BadRequest(errors.New("to: before from"))
		}
		filter.Range = &logdb.Range{From: from, To: to}
	}

	switch order := query.Get("order"); order {
	case "", string(logdb.ASC):
		filter.Order = logdb.ASC
	case string(logdb.DESC):
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(errors.Errorf("order: unknown %q", order))
	}

	offset, _, err := parseUint(query, "offset")
	if err != nil {
		return nil, err
	}
	filter.Options.Offset = offset
	limit, hasLimit, err := parseUint(query, "limit")
	if err != nil {
		return nil, err
	}
	if hasLimit {
		if limit > e.limit {
			return nil, utils.Forbidden(errors.Errorf("limit: exceeds maximum %d", e.limit))
		}
		filter.Options.Limit = limit
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	events, err := e.db.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	result := make([]*Event, 0, len(events))
	for _, ev := range events {
		result = append(result, ConvertEvent(ev))
	}
	return utils.WriteJSON(w, result)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
