package entity

import (
	"sync"
	"time"
)

const MaxRoomPlayers = 2

// Participant is one occupant of a room. The connection handle is
// routing state; it is replaced wholesale when the session reconnects.
type Participant struct {
	SessionID string
	Conn      Connection
	Symbol    string
	Score     int
}

// Room pairs up to two participants with one game instance. All
// mutable state is guarded by the room mutex; no two handlers for the
// same room may interleave.
type Room struct {
	mu sync.Mutex

	ID    string
	Name  string
	Owner string

	Players []*Participant
	Game    *Game

	settlement *time.Timer
}

func NewRoom(id, name, owner string) *Room {
	return &Room{
		ID:    id,
		Name:  name,
		Owner: owner,
		Game:  NewGame(),
	}
}

func (that *Room) Lock() {
	that.mu.Lock()
}

func (that *Room) Unlock() {
	that.mu.Unlock()
}

// Full is always derived from the participant count, never set.
// Callers must hold the room lock.
func (that *Room) Full() bool {
	return len(that.Players) == MaxRoomPlayers
}

// FindPlayer matches by session identity, not connection identity, so
// a reconnect with a new transport handle finds its seat. Callers must
// hold the room lock.
func (that *Room) FindPlayer(sessionID string) *Participant {
	for _, player := range that.Players {
		if player.SessionID == sessionID {
			return player
		}
	}
	return nil
}

// ScheduleSettlement arms the deferred end-of-round continuation,
// replacing any pending one. Callers must hold the room lock; the
// callback runs without it.
func (that *Room) ScheduleSettlement(delay time.Duration, fn func()) {
	if that.settlement != nil {
		that.settlement.Stop()
	}
	that.settlement = time.AfterFunc(delay, fn)
}

// CancelSettlement stops a pending settlement, if any. Callers must
// hold the room lock.
func (that *Room) CancelSettlement() {
	if that.settlement != nil {
		that.settlement.Stop()
		that.settlement = nil
	}
}
