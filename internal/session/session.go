// Package session owns the live game state for one connection. A single
// goroutine serializes every mutation: inbound server events, local user
// commands, and subscriber management all funnel through one inbox, so
// events are applied strictly in arrival order and no two mutations
// interleave.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NATON4/letter-game-frontend/internal/game"
	"github.com/NATON4/letter-game-frontend/internal/transport"
	"github.com/NATON4/letter-game-frontend/pkg/protocol"
)

type Msg interface{ isSessionMsg() }

type FromServer struct {
	Event protocol.ServerEvent
}

func (FromServer) isSessionMsg() {}

type FromUser struct {
	Cmd game.Command
}

func (FromUser) isSessionMsg() {}

type Subscribe struct {
	ID     string
	Outbox chan Snapshot // where this subscriber wants to receive snapshots
}

func (Subscribe) isSessionMsg() {}

type Unsubscribe struct{ ID string }

func (Unsubscribe) isSessionMsg() {}

// Reset discards all state for a fresh connection. The transport owner sends
// this on reconnect-with-new-session.
type Reset struct{}

func (Reset) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Snapshot struct {
	Version int
	State   game.State
}

type View struct {
	Version        int
	NumSubscribers int
	State          game.State
}

type Session struct {
	inbox   chan Msg
	state   game.State
	version int
	subs    map[string]chan Snapshot
	tr      transport.Transport
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, tr transport.Transport, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:  make(chan Msg, 64),
		state:  game.NewState(),
		subs:   make(map[string]chan Snapshot),
		tr:     tr,
		log:    log.Named("session"),
		ctx:    ctx,
		cancel: cancel,
	}

	go s.loop()
	go s.pump()
	return s
}

// Inbox exposes the message channel so the UI, the debug API, and tests can
// talk to the session.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// pump forwards transport events into the inbox until the connection is gone.
func (s *Session) pump() {
	for ev := range s.tr.Events() {
		select {
		case s.inbox <- FromServer{Event: ev}:
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Subscribe:
				// Register subscriber + send current snapshot immediately
				s.subs[msg.ID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: s.version, State: s.state}

			case Unsubscribe:
				delete(s.subs, msg.ID)

			case FromServer:
				s.state = game.Apply(s.state, msg.Event)
				s.version++
				s.log.Debug("applied event",
					zap.String("event", string(msg.Event.Kind)),
					zap.Int("version", s.version))
				s.broadcast(Snapshot{Version: s.version, State: s.state})

			case FromUser:
				intents, newState, err := game.Handle(s.state, msg.Cmd)
				if err != nil {
					// Rejections surface only as disabled affordances.
					s.log.Debug("rejected command",
						zap.String("command", string(msg.Cmd.Type)),
						zap.Error(err))
					break
				}
				s.state = newState
				s.version++
				for _, it := range intents {
					s.send(it)
				}
				s.broadcast(Snapshot{Version: s.version, State: s.state})

			case Reset:
				s.state = game.NewState()
				s.version++
				s.broadcast(Snapshot{Version: s.version, State: s.state})

			case GetState:
				// reflect internal state without data races
				msg.Reply <- View{
					Version:        s.version,
					NumSubscribers: len(s.subs),
					State:          s.state,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// send pushes one intent to the server. The optimistic state change already
// happened; a failed write is logged and the server's next events reconcile.
func (s *Session) send(it protocol.Intent) {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	if err := s.tr.Send(ctx, it); err != nil {
		s.log.Warn("intent send failed",
			zap.String("intent", string(it.Kind)),
			zap.Error(err))
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.subs {
		close(ch) // Tell subscriber no more snapshots
		delete(s.subs, id)
	}
	s.cancel()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.subs {
		select {
		case ch <- snap:
			//ok
		default:
			// Subscriber is slow/full - drop them.
			s.log.Warn("dropping slow subscriber", zap.String("id", id))
			close(ch)
			delete(s.subs, id)
		}
	}
}
