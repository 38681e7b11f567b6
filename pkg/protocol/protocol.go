// Package protocol defines the wire format shared with the letter-game
// server: one JSON envelope per frame, discriminated by event name.
// Event names match the socket.io channel the original web client used,
// so this client can sit next to it on the same server.
package protocol

import "encoding/json"

type EventKind string

// Server -> client events.
const (
	EvtGameStatus    EventKind = "gameStatus"
	EvtInitialLetter EventKind = "initialLetter"
	EvtUserScore     EventKind = "userScore"
	EvtUserList      EventKind = "userListUpdate"
	EvtRoomName      EventKind = "roomName"
	EvtWinnerAlert   EventKind = "showWinnerAlert"
	EvtResetScores   EventKind = "resetScores"
	EvtResetGame     EventKind = "resetGame"
	EvtResetLetters  EventKind = "resetLetters"
	EvtScoreToWin    EventKind = "updateScoreToWin"
)

type IntentKind string

// Client -> server intents. StartGame doubles as identity registration:
// a bare payload asks the server to start, a payload carrying a nickname
// registers the local player (optionally with a room id and score target).
const (
	IntStartGame   IntentKind = "startGame"
	IntJoinRoom    IntentKind = "joinRoom"
	IntCheckLetter IntentKind = "checkLetter"
	IntScoreToWin  IntentKind = "updateScoreToWin"
	IntResetScores IntentKind = "resetScores"
)

// UserEntry is one scoreboard row as the server sends it.
type UserEntry struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// ServerEvent is a decoded inbound frame. Only the field matching Kind is
// meaningful; the rest stay zero.
type ServerEvent struct {
	Kind    EventKind
	Flag    bool
	Text    string
	Number  int
	Users   []UserEntry
	Letters []string
}

// Intent is an outbound user action. Only the fields relevant to Kind are
// encoded; zero values are omitted from the wire.
type Intent struct {
	Kind     IntentKind
	Nickname string
	RoomID   string
	Letter   string
	Score    int
}

type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type intentPayload struct {
	Nickname string `json:"nickname,omitempty"`
	RoomID   string `json:"roomId,omitempty"`
	Letter   string `json:"letter,omitempty"`
	Score    int    `json:"scoreToWin,omitempty"`
}

// ParseServerEvent decodes one inbound frame. ok is false only for frames
// that cannot be decoded at all; events with unknown names pass through with
// Kind set so the reducer can ignore them, which keeps old clients working
// against newer servers.
func ParseServerEvent(data []byte) (ServerEvent, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
		return ServerEvent{}, false
	}

	ev := ServerEvent{Kind: EventKind(env.Event)}

	switch ev.Kind {
	case EvtGameStatus:
		if err := json.Unmarshal(env.Payload, &ev.Flag); err != nil {
			return ServerEvent{}, false
		}
	case EvtInitialLetter, EvtRoomName, EvtWinnerAlert:
		if err := json.Unmarshal(env.Payload, &ev.Text); err != nil {
			return ServerEvent{}, false
		}
	case EvtUserScore, EvtScoreToWin:
		if err := json.Unmarshal(env.Payload, &ev.Number); err != nil {
			return ServerEvent{}, false
		}
	case EvtUserList:
		if err := json.Unmarshal(env.Payload, &ev.Users); err != nil {
			return ServerEvent{}, false
		}
	case EvtResetLetters:
		if err := json.Unmarshal(env.Payload, &ev.Letters); err != nil {
			return ServerEvent{}, false
		}
	case EvtResetScores, EvtResetGame:
		// Payload is either absent or a room id; tolerate both.
		if len(env.Payload) > 0 {
			_ = json.Unmarshal(env.Payload, &ev.Text)
		}
	}

	return ev, true
}

// EncodeIntent renders one outbound frame.
func EncodeIntent(it Intent) ([]byte, error) {
	p := intentPayload{
		Nickname: it.Nickname,
		RoomID:   it.RoomID,
		Letter:   it.Letter,
		Score:    it.Score,
	}

	var payload json.RawMessage
	if p != (intentPayload{}) {
		var err error
		payload, err = json.Marshal(p)
		if err != nil {
			return nil, err
		}
	}

	return json.Marshal(envelope{Event: string(it.Kind), Payload: payload})
}
