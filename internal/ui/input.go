package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/NATON4/letter-game-frontend/internal/game"
	"github.com/NATON4/letter-game-frontend/internal/session"
)

const help = `Commands:
  /nick <name>    set your nickname
  /create         create a room
  /join <room>    join an existing room
  /target <n>     set the winning score (2, 10, 20 or 50)
  /reset          reset scores in the room
  /start          ask the server to start the game
  /quit           leave
Any single character is sent as a keypress.`

// Run drives the interactive loop: snapshots are printed as they arrive,
// stdin lines become commands. Returns when the input ends, /quit is typed,
// or the session stops broadcasting.
func Run(ctx context.Context, s *session.Session, in io.Reader, out io.Writer) {
	snaps := make(chan session.Snapshot, 8)
	id := uuid.NewString()
	s.Inbox() <- session.Subscribe{ID: id, Outbox: snaps}
	defer func() { s.Inbox() <- session.Unsubscribe{ID: id} }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range snaps {
			fmt.Fprintln(out, Render(snap))
		}
	}()

	fmt.Fprintln(out, help)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return
		}

		cmd, ok := parseLine(line)
		if !ok {
			fmt.Fprintln(out, help)
			continue
		}
		s.Inbox() <- session.FromUser{Cmd: cmd}
	}
}

func parseLine(line string) (game.Command, bool) {
	if !strings.HasPrefix(line, "/") {
		if utf8.RuneCountInString(line) != 1 {
			return game.Command{}, false
		}
		return game.Command{Type: game.CmdKeyPress, Key: line}, true
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "/nick":
		return game.Command{Type: game.CmdSubmitNickname, Nickname: rest}, true
	case "/create":
		return game.Command{Type: game.CmdCreateRoom}, true
	case "/join":
		return game.Command{Type: game.CmdJoinRoom, RoomID: rest}, true
	case "/target":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return game.Command{}, false
		}
		return game.Command{Type: game.CmdSetWinningScore, Score: n}, true
	case "/reset":
		return game.Command{Type: game.CmdRequestReset}, true
	case "/start":
		return game.Command{Type: game.CmdRequestStart}, true
	default:
		return game.Command{}, false
	}
}
