package game

import (
	"slices"

	"github.com/NATON4/letter-game-frontend/pkg/protocol"
)

type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAwaitingIdentity Phase = "awaitingIdentity"
	PhaseInRoom           Phase = "inRoom"
)

// DefaultWinningScore is what a fresh session targets until the user or the
// server says otherwise.
const DefaultWinningScore = 20

// AllowedWinningScores is the full set of score targets the server accepts.
var AllowedWinningScores = []int{2, 10, 20, 50}

// undefinedNickname is the sentinel the server puts on scoreboard rows for
// sockets that have not registered a player yet.
const undefinedNickname = "undefined"

// Session is the identity half of the state. RoomID is only ever set from a
// roomName echo; PendingRoomID holds what the user asked for in the meantime.
type Session struct {
	Nickname          string
	RoomID            string
	PendingRoomID     string
	NicknameConfirmed bool
	Joined            bool
}

// Round is the game half of the state. WinningScore tracks the value shown to
// the user; PendingWinningScore is non-zero while a locally chosen target is
// still waiting for the server echo.
type Round struct {
	Started             bool
	CurrentLetter       string
	WinningScore        int
	PendingWinningScore int
	Resetting           bool
}

// State is the full UI snapshot. It is a value type: Apply and Handle return
// modified copies, never mutate the caller's copy in place.
type State struct {
	Phase      Phase
	Session    Session
	Round      Round
	Score      int
	Scoreboard []protocol.UserEntry
	Winner     string
}

func NewState() State {
	return State{
		Phase: PhaseIdle,
		Round: Round{WinningScore: DefaultWinningScore},
	}
}

// WinnerEntry resolves the winner reference against the scoreboard. The
// second return is false when no winner is set or the nickname is no longer
// on the board, in which case display degrades to a nameless banner.
func (s State) WinnerEntry() (protocol.UserEntry, bool) {
	if s.Winner == "" {
		return protocol.UserEntry{}, false
	}
	for _, u := range s.Scoreboard {
		if u.Nickname == s.Winner {
			return u, true
		}
	}
	return protocol.UserEntry{}, false
}

// RoomRef is the best known room reference: the confirmed id when the server
// has echoed it, otherwise whatever join is still pending.
func (s State) RoomRef() string {
	if s.Session.RoomID != "" {
		return s.Session.RoomID
	}
	return s.Session.PendingRoomID
}

func allowedWinningScore(v int) bool {
	return slices.Contains(AllowedWinningScores, v)
}

// sortScoreboard drops the unregistered-socket sentinel and orders rows by
// descending score. The sort is stable so equal scores keep the server's
// order.
func sortScoreboard(users []protocol.UserEntry) []protocol.UserEntry {
	out := make([]protocol.UserEntry, 0, len(users))
	for _, u := range users {
		if u.Nickname == undefinedNickname {
			continue
		}
		out = append(out, u)
	}
	slices.SortStableFunc(out, func(a, b protocol.UserEntry) int {
		return b.Score - a.Score
	})
	return out
}
