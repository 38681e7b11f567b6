package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NATON4/letter-game-frontend/internal/session"
)

// SetupRoutes builds the local debug listener: a read-only window into the
// running session. Nothing here mutates game state.
func SetupRoutes(s *session.Session) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/state", StateSnapshot(s))
	r.Get("/invite", InviteQR(s))
	return r
}
