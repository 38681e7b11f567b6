// Package ui is the terminal front end: it turns session snapshots into
// text and stdin lines into game commands. All game rules live elsewhere;
// nothing in here decides anything.
package ui

import (
	"fmt"
	"strings"

	"github.com/NATON4/letter-game-frontend/internal/game"
	"github.com/NATON4/letter-game-frontend/internal/session"
)

const (
	ansiGreen  = "\033[1;32m"
	ansiYellow = "\033[1;33m"
	ansiDim    = "\033[1;90m"
	ansiReset  = "\033[0m"
)

// Render draws one snapshot as a block of text.
func Render(snap session.Snapshot) string {
	var b strings.Builder
	st := snap.State

	switch st.Phase {
	case game.PhaseIdle:
		b.WriteString("Waiting for the server to start a game. Type /start to ask for one.\n")

	case game.PhaseAwaitingIdentity:
		b.WriteString("Game is on! Pick a nickname with /nick <name>, then /create or /join <room>.\n")
		if st.Session.Nickname != "" {
			fmt.Fprintf(&b, "Nickname: %s\n", st.Session.Nickname)
		}

	case game.PhaseInRoom:
		renderRoom(&b, st)
	}

	return b.String()
}

func renderRoom(b *strings.Builder, st game.State) {
	room := st.RoomRef()
	if st.Session.RoomID == "" && room != "" {
		fmt.Fprintf(b, "Room: %s (joining...)\n", room)
	} else if room != "" {
		fmt.Fprintf(b, "Room: %s\n", room)
	}

	if st.Round.CurrentLetter != "" {
		fmt.Fprintf(b, "\n  Press: %s%s%s\n\n", ansiGreen, strings.ToUpper(st.Round.CurrentLetter), ansiReset)
	}

	fmt.Fprintf(b, "Score: %s%d%s / %d\n", ansiYellow, st.Score, ansiReset, st.Round.WinningScore)

	if len(st.Scoreboard) > 0 {
		b.WriteString("Players:\n")
		for _, u := range st.Scoreboard {
			fmt.Fprintf(b, "  %-16s %d\n", u.Nickname, u.Score)
		}
	}

	if st.Winner != "" {
		if entry, ok := st.WinnerEntry(); ok {
			fmt.Fprintf(b, "%s*** %s has won with %d points! ***%s\n", ansiGreen, entry.Nickname, entry.Score, ansiReset)
		} else {
			// Winner left the board; degrade to a nameless banner.
			fmt.Fprintf(b, "%s*** A player has won! ***%s\n", ansiGreen, ansiReset)
		}
	}

	if st.Round.Resetting {
		fmt.Fprintf(b, "%sResetting scores...%s\n", ansiDim, ansiReset)
	}
}
