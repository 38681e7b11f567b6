// Package transport carries frames between the client and the game server.
// The session layer only sees the Transport interface, so tests drive it
// with the in-memory Pipe instead of a live connection.
package transport

import (
	"context"
	"sync"

	"github.com/NATON4/letter-game-frontend/pkg/protocol"
)

type Transport interface {
	// Send emits one intent. An intent, once sent, cannot be withdrawn.
	Send(ctx context.Context, it protocol.Intent) error
	// Events yields inbound events in arrival order. The channel closes
	// when the connection is gone.
	Events() <-chan protocol.ServerEvent
	Close() error
}

// Pipe is a channel-backed Transport double. Tests push events in with
// PushEvent and inspect what the client sent with Intents.
type Pipe struct {
	events chan protocol.ServerEvent

	mu   sync.Mutex
	sent []protocol.Intent
}

func NewPipe() *Pipe {
	return &Pipe{events: make(chan protocol.ServerEvent, 16)}
}

func (p *Pipe) Send(_ context.Context, it protocol.Intent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, it)
	return nil
}

func (p *Pipe) Events() <-chan protocol.ServerEvent { return p.events }

func (p *Pipe) Close() error {
	close(p.events)
	return nil
}

// PushEvent feeds one inbound event, as the server would.
func (p *Pipe) PushEvent(ev protocol.ServerEvent) { p.events <- ev }

// Intents returns a copy of everything sent so far.
func (p *Pipe) Intents() []protocol.Intent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]protocol.Intent, len(p.sent))
	copy(out, p.sent)
	return out
}
