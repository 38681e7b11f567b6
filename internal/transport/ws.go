package transport

import (
	"context"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NATON4/letter-game-frontend/pkg/protocol"
)

const writeTimeout = 3 * time.Second

// WS is the real Transport: one websocket connection to the game server.
type WS struct {
	conn   *websocket.Conn
	events chan protocol.ServerEvent
	id     string
	log    *zap.Logger
	cancel context.CancelFunc
}

// Dial connects to the server and starts the read loop. The connection lives
// until Close or until ctx is cancelled. Each connection identifies itself
// with a fresh client id so server logs can tell sessions apart.
func Dial(ctx context.Context, serverURL string, log *zap.Logger) (*WS, error) {
	id := uuid.NewString()

	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("client", id)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	readCtx, cancel := context.WithCancel(ctx)
	w := &WS{
		conn:   conn,
		events: make(chan protocol.ServerEvent, 16),
		id:     id,
		log:    log.Named("transport").With(zap.String("client", id)),
		cancel: cancel,
	}

	go w.readLoop(readCtx)

	w.log.Info("connected", zap.String("server", serverURL))
	return w, nil
}

func (w *WS) readLoop(ctx context.Context) {
	defer close(w.events)

	for {
		_, data, err := w.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				w.log.Info("server closed connection")
			default:
				if ctx.Err() == nil {
					w.log.Warn("read failed", zap.Error(err))
				}
			}
			return
		}

		ev, ok := protocol.ParseServerEvent(data)
		if !ok {
			// Bad frames are dropped, never fatal.
			w.log.Warn("dropping malformed frame", zap.ByteString("frame", data))
			continue
		}

		select {
		case w.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (w *WS) Send(ctx context.Context, it protocol.Intent) error {
	data, err := protocol.EncodeIntent(it)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return w.conn.Write(ctx, websocket.MessageText, data)
}

func (w *WS) Events() <-chan protocol.ServerEvent { return w.events }

func (w *WS) Close() error {
	w.cancel()
	return w.conn.Close(websocket.StatusNormalClosure, "bye")
}
