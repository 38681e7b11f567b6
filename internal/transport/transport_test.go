package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NATON4/letter-game-frontend/pkg/protocol"
)

func recvEvent(t *testing.T, ch <-chan protocol.ServerEvent) protocol.ServerEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "event channel closed unexpectedly")
		return ev
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
		return protocol.ServerEvent{} // unreachable
	}
}

func TestPipe_PreservesOrder(t *testing.T) {
	p := NewPipe()

	p.PushEvent(protocol.ServerEvent{Kind: protocol.EvtWinnerAlert, Text: "bob"})
	p.PushEvent(protocol.ServerEvent{Kind: protocol.EvtResetGame})

	require.Equal(t, protocol.EvtWinnerAlert, recvEvent(t, p.Events()).Kind)
	require.Equal(t, protocol.EvtResetGame, recvEvent(t, p.Events()).Kind)

	require.NoError(t, p.Send(context.Background(), protocol.Intent{Kind: protocol.IntJoinRoom, RoomID: "room42"}))
	require.NoError(t, p.Send(context.Background(), protocol.Intent{Kind: protocol.IntCheckLetter, Letter: "g"}))

	sent := p.Intents()
	require.Len(t, sent, 2)
	require.Equal(t, protocol.IntJoinRoom, sent[0].Kind)
	require.Equal(t, protocol.IntCheckLetter, sent[1].Kind)
}

func TestWS_RoundTripAndMalformedFrameSkip(t *testing.T) {
	received := make(chan []byte, 1)
	clientIDs := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close(websocket.StatusNormalClosure, "bye")

		ctx := r.Context()
		clientIDs <- r.URL.Query().Get("client")

		_ = c.Write(ctx, websocket.MessageText, []byte(`{"event":"gameStatus","payload":true}`))

		_, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		received <- data

		// A junk frame the client must skip, then a real one.
		_ = c.Write(ctx, websocket.MessageText, []byte(`not even json`))
		_ = c.Write(ctx, websocket.MessageText, []byte(`{"event":"initialLetter","payload":"g"}`))

		// Hold the connection until the client hangs up.
		_, _, _ = c.Read(ctx)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), zap.NewNop())
	require.NoError(t, err)
	defer ws.Close()

	require.NotEmpty(t, <-clientIDs, "dial should identify the client")

	ev := recvEvent(t, ws.Events())
	require.Equal(t, protocol.EvtGameStatus, ev.Kind)
	require.True(t, ev.Flag)

	require.NoError(t, ws.Send(ctx, protocol.Intent{Kind: protocol.IntCheckLetter, Letter: "g"}))
	require.JSONEq(t, `{"event":"checkLetter","payload":{"letter":"g"}}`, string(<-received))

	// The malformed frame is dropped; the next event is the letter.
	ev = recvEvent(t, ws.Events())
	require.Equal(t, protocol.EvtInitialLetter, ev.Kind)
	require.Equal(t, "g", ev.Text)
}
