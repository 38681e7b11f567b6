package ui

import (
	"strings"
	"testing"

	"github.com/NATON4/letter-game-frontend/internal/game"
	"github.com/NATON4/letter-game-frontend/internal/session"
	"github.com/NATON4/letter-game-frontend/pkg/protocol"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		want   game.Command
		wantOK bool
	}{
		{name: "nickname", line: "/nick ann", want: game.Command{Type: game.CmdSubmitNickname, Nickname: "ann"}, wantOK: true},
		{name: "join", line: "/join room42", want: game.Command{Type: game.CmdJoinRoom, RoomID: "room42"}, wantOK: true},
		{name: "target", line: "/target 50", want: game.Command{Type: game.CmdSetWinningScore, Score: 50}, wantOK: true},
		{name: "target not a number", line: "/target lots", wantOK: false},
		{name: "keypress", line: "g", want: game.Command{Type: game.CmdKeyPress, Key: "g"}, wantOK: true},
		{name: "multi-char line is not a keypress", line: "gh", wantOK: false},
		{name: "unknown verb", line: "/dance", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseLine(tc.line)
			if ok != tc.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRenderWinnerBanner(t *testing.T) {
	st := game.NewState()
	st.Phase = game.PhaseInRoom
	st.Scoreboard = []protocol.UserEntry{{Nickname: "bob", Score: 20}}
	st.Winner = "bob"

	out := Render(session.Snapshot{State: st})
	if !strings.Contains(out, "bob has won with 20 points") {
		t.Fatalf("missing winner banner: %q", out)
	}

	// Winner not on the board: nameless banner, no failure.
	st.Winner = "ghost"
	out = Render(session.Snapshot{State: st})
	if !strings.Contains(out, "A player has won") {
		t.Fatalf("missing degraded banner: %q", out)
	}
}
