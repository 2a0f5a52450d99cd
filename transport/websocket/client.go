package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gameroom-backend/internal/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	sendBufferSize = 32
)

var (
	ErrSendBufferFull = errors.New("client send buffer is full")
	ErrConnClosed     = errors.New("client connection is closed")
)

// Client is one connected peer. The read pump feeds inbound frames to
// the dispatcher; the write pump drains the send channel so all writes
// to the underlying connection are serialized.
type Client struct {
	logger    *slog.Logger
	conn      *websocket.Conn
	send      chan []byte
	sessionID string

	// mu guards closed. Broadcast and settlement paths hold connection
	// snapshots taken before a departure, so a Push can land after the
	// read pump shut the client down; it must get an error, not a send
	// on a closed channel.
	mu     sync.Mutex
	closed bool
}

func newClient(logger *slog.Logger, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		logger:    logger.With("component", "client", "sessionID", sessionID),
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		sessionID: sessionID,
	}
}

// Push enqueues one event for delivery. It never blocks; a peer that
// cannot drain its buffer loses the frame and the error is reported to
// the caller.
func (that *Client) Push(event *protocol.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return ErrConnClosed
	}

	select {
	case that.send <- raw:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// shutdown marks the client closed and closes the send channel so the
// write pump drains and exits. Safe to call more than once; Push calls
// racing with it fail with ErrConnClosed.
func (that *Client) shutdown() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}

func (that *Client) readPump(srv *Server) {
	defer func() {
		srv.rooms.Disconnect(that)
		that.shutdown()
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.logger.Warn("unexpected close", "error", err)
			}
			return
		}

		srv.dispatch(that, raw)
	}
}

func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
