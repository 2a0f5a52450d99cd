package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
	"github.com/rocketscienceinc/gameroom-backend/internal/protocol"
)

type roomManager interface {
	RefreshRooms(conn entity.Connection)
	CreateRoom(sessionID, name string, conn entity.Connection)
	JoinRoom(sessionID, roomID string, conn entity.Connection)
	LeaveRoom(sessionID, roomID string, conn entity.Connection)
	Pick(sessionID, roomID string, y, x int, conn entity.Connection)
	PlayBot(sessionID, roomID string, conn entity.Connection)
	Disconnect(conn entity.Connection)
}

type sessionRepo interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type sessionRegistry interface {
	Bind(sessionID string, conn entity.Connection)
}

// Server upgrades connections and routes inbound commands to the room
// manager. Every connection must present an issued session identifier.
type Server struct {
	logger   *slog.Logger
	rooms    roomManager
	sessions sessionRepo
	registry sessionRegistry

	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, rooms roomManager, sessions sessionRepo, registry sessionRegistry) *Server {
	return &Server{
		logger:   logger.With("component", "websocket"),
		rooms:    rooms,
		sessions: sessions,
		registry: registry,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS upgrades the connection and refuses sessions that were never
// issued. The refusal travels over the socket so the client can render
// it, matching the handshake contract.
func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	sessionID := r.URL.Query().Get("sessionId")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	if sessionID == "" {
		that.refuse(log, conn, "sessionId is required")
		return
	}

	issued, err := that.sessions.Exists(r.Context(), sessionID)
	if err != nil {
		log.Error("failed to look up session", "error", err)
		that.refuse(log, conn, "session lookup failed")
		return
	}

	if !issued {
		that.refuse(log, conn, "unknown session")
		return
	}

	log.Info("connection established", "sessionID", sessionID)

	client := newClient(that.logger, conn, sessionID)
	that.registry.Bind(sessionID, client)

	go client.writePump()
	client.readPump(that)
}

func (that *Server) refuse(log *slog.Logger, conn *websocket.Conn, reason string) {
	if err := conn.WriteJSON(protocol.NewErrorEvent(protocol.EventUnauthorized, reason)); err != nil {
		log.Warn("failed to write refusal", "error", err)
	}

	_ = conn.Close()
}
