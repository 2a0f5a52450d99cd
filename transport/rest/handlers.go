package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type handlers struct {
	logger   *slog.Logger
	sessions sessionRepo
}

type sessionData struct {
	SessionID string `json:"sessionId"`
}

type sessionResponse struct {
	Success bool        `json:"success"`
	Data    sessionData `json:"data"`
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// createSession issues a fresh opaque session identifier. Clients call
// this once and present the identifier on every socket connection.
func (that *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "createSession")

	sessionID, err := that.sessions.Create(r.Context())
	if err != nil {
		log.Error("failed to create session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(sessionResponse{
		Success: true,
		Data:    sessionData{SessionID: sessionID},
	}); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}
