package game

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/NATON4/letter-game-frontend/pkg/protocol"
)

var ErrEmptyNickname = errors.New("empty nickname")
var ErrEmptyRoomID = errors.New("empty room id")
var ErrAlreadyJoined = errors.New("already joined a room")
var ErrNotInRoom = errors.New("not in a room")
var ErrNoActiveLetter = errors.New("no active letter")
var ErrNotSingleKey = errors.New("key must be a single character")
var ErrInvalidWinningScore = errors.New("winning score not allowed")
var ErrUnsupportedCommand = errors.New("unsupported command")

// Apply folds one server event into the state. It is total: unknown event
// kinds and malformed payloads leave the state untouched, so the UI always
// keeps its last known good snapshot. The server is authoritative for every
// field set here; Apply never second-guesses a value beyond shape checks.
func Apply(s State, ev protocol.ServerEvent) State {
	switch ev.Kind {
	case protocol.EvtGameStatus:
		s.Round.Started = ev.Flag
		if ev.Flag {
			if s.Phase == PhaseIdle {
				s.Phase = PhaseAwaitingIdentity
			}
		} else if s.Phase == PhaseInRoom {
			// The optimistic join was contradicted; fall back and let the
			// user re-identify. The typed nickname is kept for convenience.
			s.Phase = PhaseAwaitingIdentity
			s.Session.NicknameConfirmed = false
			s.Session.Joined = false
			s.Session.RoomID = ""
			s.Session.PendingRoomID = ""
		}

	case protocol.EvtInitialLetter:
		if utf8.RuneCountInString(ev.Text) == 1 {
			s.Round.CurrentLetter = ev.Text
		}

	case protocol.EvtUserScore:
		if ev.Number >= 0 {
			s.Score = ev.Number
		}

	case protocol.EvtUserList:
		// Whole-board replacement; never patched incrementally.
		s.Scoreboard = sortScoreboard(ev.Users)

	case protocol.EvtRoomName:
		if ev.Text != "" {
			s.Session.RoomID = ev.Text
			s.Session.PendingRoomID = ""
			s.Session.Joined = true
		}

	case protocol.EvtWinnerAlert:
		s.Winner = ev.Text

	case protocol.EvtResetScores:
		s.Score = 0
		s.Winner = ""

	case protocol.EvtResetGame:
		s.Score = 0
		s.Winner = ""
		s.Round.Resetting = false

	case protocol.EvtResetLetters:
		if len(ev.Letters) > 0 && utf8.RuneCountInString(ev.Letters[0]) == 1 {
			s.Round.CurrentLetter = ev.Letters[0]
		}
		s.Winner = ""

	case protocol.EvtScoreToWin:
		if allowedWinningScore(ev.Number) {
			s.Round.WinningScore = ev.Number
			s.Round.PendingWinningScore = 0
		}
	}

	return s
}

type CommandType string

const (
	CmdSubmitNickname  CommandType = "SubmitNickname"
	CmdCreateRoom      CommandType = "CreateRoom"
	CmdJoinRoom        CommandType = "JoinRoom"
	CmdKeyPress        CommandType = "KeyPress"
	CmdSetWinningScore CommandType = "SetWinningScore"
	CmdRequestReset    CommandType = "RequestReset"
	CmdRequestStart    CommandType = "RequestStart"
)

type Command struct {
	Type     CommandType
	Nickname string
	RoomID   string
	Key      string
	Score    int
}

// Handle turns one local user action into outbound intents plus the
// optimistic state the UI shows until the server confirms or contradicts it.
// A returned error means the action was rejected and nothing was emitted;
// callers surface rejections only through disabled affordances, never as
// fatal failures.
func Handle(s State, cmd Command) ([]protocol.Intent, State, error) {
	newState := s

	switch cmd.Type {
	case CmdSubmitNickname:
		nick := strings.TrimSpace(cmd.Nickname)
		if nick == "" {
			return nil, s, ErrEmptyNickname
		}
		// Captured locally only; registration happens on create/join.
		newState.Session.Nickname = nick
		return nil, newState, nil

	case CmdCreateRoom:
		if s.Session.Nickname == "" {
			return nil, s, ErrEmptyNickname
		}
		if s.Session.Joined || s.Phase == PhaseInRoom {
			return nil, s, ErrAlreadyJoined
		}

		intents := []protocol.Intent{{
			Kind:     protocol.IntStartGame,
			Nickname: s.Session.Nickname,
			Score:    s.Round.WinningScore,
		}}

		newState.Phase = PhaseInRoom
		newState.Session.NicknameConfirmed = true
		return intents, newState, nil

	case CmdJoinRoom:
		if s.Session.Nickname == "" {
			return nil, s, ErrEmptyNickname
		}
		roomID := strings.TrimSpace(cmd.RoomID)
		if roomID == "" {
			return nil, s, ErrEmptyRoomID
		}
		if s.Session.Joined || s.Phase == PhaseInRoom {
			return nil, s, ErrAlreadyJoined
		}

		// Registration before join, always in this order; the server echoes
		// roomName to confirm.
		intents := []protocol.Intent{
			{Kind: protocol.IntStartGame, Nickname: s.Session.Nickname},
			{Kind: protocol.IntJoinRoom, RoomID: roomID},
		}

		newState.Phase = PhaseInRoom
		newState.Session.NicknameConfirmed = true
		newState.Session.PendingRoomID = roomID
		return intents, newState, nil

	case CmdKeyPress:
		if s.Phase != PhaseInRoom {
			return nil, s, ErrNotInRoom
		}
		if s.Round.CurrentLetter == "" {
			return nil, s, ErrNoActiveLetter
		}
		if utf8.RuneCountInString(cmd.Key) != 1 {
			return nil, s, ErrNotSingleKey
		}

		// Every keypress is forwarded raw; the server decides correctness.
		intents := []protocol.Intent{{Kind: protocol.IntCheckLetter, Letter: cmd.Key}}
		return intents, s, nil

	case CmdSetWinningScore:
		if !allowedWinningScore(cmd.Score) {
			return nil, s, ErrInvalidWinningScore
		}

		intents := []protocol.Intent{{Kind: protocol.IntScoreToWin, Score: cmd.Score}}

		newState.Round.WinningScore = cmd.Score
		newState.Round.PendingWinningScore = cmd.Score
		return intents, newState, nil

	case CmdRequestReset:
		if s.Phase != PhaseInRoom {
			return nil, s, ErrNotInRoom
		}

		intents := []protocol.Intent{{Kind: protocol.IntResetScores, RoomID: s.RoomRef()}}

		newState.Round.Resetting = true
		return intents, newState, nil

	case CmdRequestStart:
		// Only the gameStatus event advances the phase; this just asks.
		intents := []protocol.Intent{{Kind: protocol.IntStartGame}}
		return intents, s, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}
