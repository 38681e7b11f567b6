package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/NATON4/letter-game-frontend/internal/game"
	"github.com/NATON4/letter-game-frontend/internal/session"
)

const replyTimeout = 2 * time.Second

type stateResponse struct {
	Version int        `json:"version"`
	State   game.State `json:"state"`
}

func getView(s *session.Session) (session.View, bool) {
	reply := make(chan session.View, 1)
	s.Inbox() <- session.GetState{Reply: reply}

	select {
	case v := <-reply:
		return v, true
	case <-time.After(replyTimeout):
		return session.View{}, false
	}
}

func StateSnapshot(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := getView(s)
		if !ok {
			http.Error(w, "session not responding", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stateResponse{
			Version: view.Version,
			State:   view.State,
		})
	}
}

// InviteQR renders the current room reference as a QR code so another player
// can scan it and join.
func InviteQR(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := getView(s)
		if !ok {
			http.Error(w, "session not responding", http.StatusServiceUnavailable)
			return
		}

		room := view.State.RoomRef()
		if room == "" {
			http.Error(w, "no room to invite to", http.StatusNotFound)
			return
		}

		png, err := qrcode.Encode(room, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "failed to render invite", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
