// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/api/events"
	"github.com/vechain/thor-staking/api/utils"
	"github.com/vechain/thor-staking/log"
	"github.com/vechain/thor-staking/logdb"
	"github.com/vechain/thor-staking/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	pingPeriod   = 20 * time.Second
	pongWait     = 3 * pingPeriod
	writeTimeout = 10 * time.Second
	batchLimit   = 100
)

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				origin = strings.ToLower(origin)
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := events.ParseCriteria(req.URL.Query())
	if err != nil {
		return err
	}
	var pos uint64
	if s := req.URL.Query().Get("pos"); s != "" {
		if pos, err = strconv.ParseUint(s, 0, 64); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "pos"))
		}
	}

	s.wg.Add(1)
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	if err := s.pipe(req.Context(), conn, filter, pos); err != nil {
		logger.Debug("subscription closed", "err", err)
	}
	return nil
}

// pipe streams the events matching filter with a Seq above pos, then each new one as it is indexed.
func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, filter *logdb.EventFilter, pos uint64) error {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		changed := s.rt.Changed()

		filter.After = pos
		filter.Options = &logdb.Options{Limit: batchLimit}
		evs, err := s.rt.LogDB().FilterEvents(ctx, filter)
		if err != nil {
			return err
		}
		for _, ev := range evs {
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(events.ConvertEvent(ev)); err != nil {
				return err
			}
			pos = ev.Seq
		}
		if len(evs) == batchLimit {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeTimeout))
		case <-closed:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return err
			}
		case <-changed:
		}
	}
}

// Close ends all subscriptions and waits for them to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
