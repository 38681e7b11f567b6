package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NATON4/letter-game-frontend/internal/game"
	"github.com/NATON4/letter-game-frontend/internal/session"
	"github.com/NATON4/letter-game-frontend/internal/transport"
	"github.com/NATON4/letter-game-frontend/pkg/protocol"
)

func startDebugServer(t *testing.T) (*httptest.Server, *transport.Pipe) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pipe := transport.NewPipe()
	s := session.New(ctx, pipe, zap.NewNop())

	srv := httptest.NewServer(SetupRoutes(s))
	t.Cleanup(srv.Close)
	return srv, pipe
}

func waitForState(t *testing.T, srv *httptest.Server, pred func(stateResponse) bool) stateResponse {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		resp, err := http.Get(srv.URL + "/state")
		require.NoError(t, err)

		var got stateResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		resp.Body.Close()

		if pred(got) {
			return got
		}
		select {
		case <-deadline:
			t.Fatalf("state never matched, last: %+v", got)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := startDebugServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStateSnapshotReflectsSession(t *testing.T) {
	srv, pipe := startDebugServer(t)

	pipe.PushEvent(protocol.ServerEvent{Kind: protocol.EvtGameStatus, Flag: true})
	pipe.PushEvent(protocol.ServerEvent{Kind: protocol.EvtInitialLetter, Text: "g"})

	got := waitForState(t, srv, func(r stateResponse) bool {
		return r.State.Round.CurrentLetter == "g"
	})
	require.Equal(t, game.PhaseAwaitingIdentity, got.State.Phase)
	require.True(t, got.State.Round.Started)
}

func TestInviteQR(t *testing.T) {
	srv, pipe := startDebugServer(t)

	resp, err := http.Get(srv.URL + "/invite")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode, "no room yet")

	pipe.PushEvent(protocol.ServerEvent{Kind: protocol.EvtRoomName, Text: "room42"})
	waitForState(t, srv, func(r stateResponse) bool {
		return r.State.Session.RoomID == "room42"
	})

	resp, err = http.Get(srv.URL + "/invite")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}
