package usecase

import (
	"sync"

	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
)

type session struct {
	conn   entity.Connection
	roomID string
}

// SessionRegistry maps session identifiers to their live connection
// and, when joined, the room they occupy. One registry instance is
// owned by the application; tests construct their own.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*session),
	}
}

// Bind associates the live connection with a session, superseding any
// prior handle. The prior handle is not closed here.
func (that *SessionRegistry) Bind(sessionID string, conn entity.Connection) {
	that.mu.Lock()
	defer that.mu.Unlock()

	existing, ok := that.sessions[sessionID]
	if !ok {
		that.sessions[sessionID] = &session{conn: conn}
		return
	}

	existing.conn = conn
}

// ResolveDisconnect looks up which session owned the now-closed
// connection and removes it, reporting the room the session occupied.
// A session that already rebound to a newer connection is left alone.
func (that *SessionRegistry) ResolveDisconnect(conn entity.Connection) (sessionID, roomID string, ok bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, sess := range that.sessions {
		if sess.conn == conn {
			delete(that.sessions, id)
			return id, sess.roomID, true
		}
	}

	return "", "", false
}

// SetRoom records which room the session currently occupies.
func (that *SessionRegistry) SetRoom(sessionID, roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if sess, ok := that.sessions[sessionID]; ok {
		sess.roomID = roomID
	}
}

func (that *SessionRegistry) ClearRoom(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if sess, ok := that.sessions[sessionID]; ok {
		sess.roomID = ""
	}
}

// RoomOf reports the room the session currently occupies, if any.
func (that *SessionRegistry) RoomOf(sessionID string) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sess, ok := that.sessions[sessionID]
	if !ok || sess.roomID == "" {
		return "", false
	}

	return sess.roomID, true
}

// Connection returns the live handle of a session, if any.
func (that *SessionRegistry) Connection(sessionID string) (entity.Connection, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sess, ok := that.sessions[sessionID]
	if !ok || sess.conn == nil {
		return nil, false
	}

	return sess.conn, true
}

// Connections snapshots all live handles so broadcasts never iterate
// the registry while it mutates.
func (that *SessionRegistry) Connections() []entity.Connection {
	that.mu.RLock()
	defer that.mu.RUnlock()

	conns := make([]entity.Connection, 0, len(that.sessions))
	for _, sess := range that.sessions {
		if sess.conn != nil {
			conns = append(conns, sess.conn)
		}
	}

	return conns
}
