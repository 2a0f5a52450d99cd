package usecase

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
	"github.com/rocketscienceinc/gameroom-backend/internal/protocol"
)

// RoomManager owns the room directory and every room transition: join,
// leave, move application, deferred end-of-round settlement and the
// fan-out of the resulting snapshots. One instance is constructed at
// process start.
type RoomManager struct {
	logger   *slog.Logger
	registry *SessionRegistry

	botPolicy       entity.MovePolicy
	settlementDelay time.Duration

	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRoomManager(logger *slog.Logger, registry *SessionRegistry, botPolicy entity.MovePolicy, settlementDelay time.Duration) *RoomManager {
	return &RoomManager{
		logger:   logger.With("component", "rooms"),
		registry: registry,

		botPolicy:       botPolicy,
		settlementDelay: settlementDelay,

		rooms: make(map[string]*entity.Room),
	}
}

// RefreshRooms replies with the full lobby listing to the requester
// only.
func (that *RoomManager) RefreshRooms(conn entity.Connection) {
	log := that.logger.With("method", "RefreshRooms")

	that.send(log, conn, protocol.NewEvent(protocol.EventRoomsData, &protocol.RoomsData{Rooms: that.roomSummaries()}))
}

// CreateRoom allocates an empty room owned by the creating session,
// confirms to the requester and refreshes the lobby for everyone.
func (that *RoomManager) CreateRoom(sessionID, name string, conn entity.Connection) {
	log := that.logger.With("method", "CreateRoom", "sessionID", sessionID)

	room := entity.NewRoom(uuid.NewString(), name, sessionID)

	that.mu.Lock()
	that.rooms[room.ID] = room
	that.mu.Unlock()

	that.send(log, conn, protocol.NewEvent(protocol.EventCreateRoomCallback, &protocol.CreateRoomCallback{RoomID: room.ID}))
	that.broadcastRooms(log, nil)

	log.Info("room created", "roomID", room.ID)
}

// JoinRoom handles join, re-join and full-room rejection per session
// identity. The second occupant starts the match; the lobby refresh
// excludes the joining connection.
func (that *RoomManager) JoinRoom(sessionID, roomID string, conn entity.Connection) {
	log := that.logger.With("method", "JoinRoom", "sessionID", sessionID, "roomID", roomID)

	room, ok := that.getRoom(roomID)
	if !ok {
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventRoomNotFound, ""))
		return
	}

	// a session occupies at most one room; switching rooms departs the
	// old one first so it never carries a dead seat
	if prior, occupied := that.registry.RoomOf(sessionID); occupied && prior != roomID {
		if priorRoom, found := that.getRoom(prior); found {
			that.depart(log, priorRoom, sessionID, conn)
		} else {
			that.registry.ClearRoom(sessionID)
		}
	}

	room.Lock()

	if self := room.FindPlayer(sessionID); self != nil {
		// reconnect: refresh the transport handle, snapshot, no mutation
		self.Conn = conn
		roomData := roomSnapshot(room)
		gameData := gameSnapshot(room.Game, self.Symbol)
		room.Unlock()

		that.registry.SetRoom(sessionID, roomID)
		that.send(log, conn, protocol.NewEvent(protocol.EventRoomData, roomData))
		that.send(log, conn, protocol.NewEvent(protocol.EventGameData, gameData))
		return
	}

	if room.Full() {
		room.Unlock()
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventRoomFull, ""))
		return
	}

	joiner := &entity.Participant{SessionID: sessionID, Conn: conn}
	room.Players = append(room.Players, joiner)

	if room.Full() {
		room.Game.StartMatch()
		room.Players[0].Symbol = room.Game.FirstMark
		room.Players[1].Symbol = room.Game.SecondMark
	}

	roomData := roomSnapshot(room)
	gameData := gameSnapshot(room.Game, joiner.Symbol)
	recipients := participantConns(room)
	room.Unlock()

	that.registry.SetRoom(sessionID, roomID)

	for _, recipient := range recipients {
		that.send(log, recipient, protocol.NewEvent(protocol.EventRoomData, roomData))
	}
	that.send(log, conn, protocol.NewEvent(protocol.EventGameData, gameData))
	that.broadcastRooms(log, conn)

	log.Info("player joined room")
}

// Pick applies a move for the acting session and fans the new game
// snapshot out to both participants. A terminal placement schedules
// the deferred settlement.
func (that *RoomManager) Pick(sessionID, roomID string, y, x int, conn entity.Connection) {
	log := that.logger.With("method", "Pick", "sessionID", sessionID, "roomID", roomID)

	room, ok := that.getRoom(roomID)
	if !ok {
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventRoomNotFound, ""))
		return
	}

	room.Lock()

	if !room.Full() && !room.Game.IsBotMatch() {
		room.Unlock()
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventMustTwoPlayer, ""))
		return
	}

	if !room.Game.IsPlaying() {
		room.Unlock()
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventGameNotPlaying, ""))
		return
	}

	self := room.FindPlayer(sessionID)
	if self == nil || self.Symbol != room.Game.Current {
		room.Unlock()
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventGamePickFail, ""))
		return
	}

	if !room.Game.Place(y, x) {
		room.Unlock()
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventGamePickFail, ""))
		return
	}

	snapshots := gameSnapshots(room)
	if room.Game.IsEnded() {
		that.scheduleSettlement(room)
	}
	room.Unlock()

	for _, snap := range snapshots {
		that.send(log, snap.conn, protocol.NewEvent(protocol.EventGameData, snap.data))
	}
}

// PlayBot starts a match against the bot policy for a sole occupant.
func (that *RoomManager) PlayBot(sessionID, roomID string, conn entity.Connection) {
	log := that.logger.With("method", "PlayBot", "sessionID", sessionID, "roomID", roomID)

	room, ok := that.getRoom(roomID)
	if !ok {
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventRoomNotFound, ""))
		return
	}

	room.Lock()

	self := room.FindPlayer(sessionID)
	if self == nil || room.Full() {
		room.Unlock()
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventInvalidCommand, "bot match needs a sole occupant"))
		return
	}

	room.Game.StartMatchWithBot(that.botPolicy)
	self.Symbol = room.Game.FirstMark
	gameData := gameSnapshot(room.Game, self.Symbol)
	room.Unlock()

	that.send(log, conn, protocol.NewEvent(protocol.EventGameData, gameData))

	log.Info("bot match started")
}

// LeaveRoom runs the departure transition for an explicit leave.
func (that *RoomManager) LeaveRoom(sessionID, roomID string, conn entity.Connection) {
	log := that.logger.With("method", "LeaveRoom", "sessionID", sessionID, "roomID", roomID)

	room, ok := that.getRoom(roomID)
	if !ok {
		that.send(log, conn, protocol.NewErrorEvent(protocol.EventRoomNotFound, ""))
		return
	}

	that.depart(log, room, sessionID, conn)
}

// Disconnect resolves a closed connection to its session and, if the
// session occupied a room, runs the departure transition. Closed
// transports are lifecycle, not errors.
func (that *RoomManager) Disconnect(conn entity.Connection) {
	log := that.logger.With("method", "Disconnect")

	sessionID, roomID, ok := that.registry.ResolveDisconnect(conn)
	if !ok {
		return
	}

	log = log.With("sessionID", sessionID)
	log.Info("session disconnected")

	if roomID == "" {
		return
	}

	room, ok := that.getRoom(roomID)
	if !ok {
		return
	}

	that.depart(log, room, sessionID, nil)
}

// depart removes a participant. The pre-removal roster goes to the
// remaining participants first; an emptied room is deleted, a
// half-empty room gets a fresh game and its ownership transfers to the
// remaining occupant.
func (that *RoomManager) depart(log *slog.Logger, room *entity.Room, sessionID string, acting entity.Connection) {
	room.Lock()

	leaver := room.FindPlayer(sessionID)
	if leaver == nil {
		room.Unlock()
		return
	}

	roster := roomSnapshot(room)

	recipients := make([]entity.Connection, 0, len(room.Players))
	remaining := make([]*entity.Participant, 0, len(room.Players))
	for _, player := range room.Players {
		if player.SessionID == sessionID {
			continue
		}
		recipients = append(recipients, player.Conn)
		remaining = append(remaining, player)
	}

	room.Players = remaining
	room.CancelSettlement()

	deleted := len(remaining) == 0
	if deleted {
		room.Unlock()

		that.mu.Lock()
		delete(that.rooms, room.ID)
		that.mu.Unlock()
	} else {
		room.Owner = remaining[0].SessionID
		room.Game = entity.NewGame()
		room.Unlock()
	}

	that.registry.ClearRoom(sessionID)

	for _, recipient := range recipients {
		that.send(log, recipient, protocol.NewEvent(protocol.EventRoomData, roster))
	}
	that.broadcastRooms(log, acting)

	log.Info("player left room", "roomID", room.ID, "roomDeleted", deleted)
}

// scheduleSettlement arms the deferred continuation that tallies the
// score and starts the next round. The participant set is captured now
// and re-validated when the timer fires; no lock is held in between.
// Callers must hold the room lock.
func (that *RoomManager) scheduleSettlement(room *entity.Room) {
	participants := make([]string, 0, len(room.Players))
	for _, player := range room.Players {
		participants = append(participants, player.SessionID)
	}

	room.ScheduleSettlement(that.settlementDelay, func() {
		that.settle(room.ID, participants)
	})
}

func (that *RoomManager) settle(roomID string, participants []string) {
	log := that.logger.With("method", "settle", "roomID", roomID)

	room, ok := that.getRoom(roomID)
	if !ok {
		// room deleted during the delay
		return
	}

	room.Lock()

	if len(room.Players) != len(participants) {
		room.Unlock()
		return
	}
	for i, player := range room.Players {
		if player.SessionID != participants[i] {
			room.Unlock()
			return
		}
	}

	if winner := room.Game.Winner; winner != entity.EmptyCell {
		for _, player := range room.Players {
			if player.Symbol == winner {
				player.Score++
			}
		}
	}

	if room.Game.IsBotMatch() {
		room.Game.StartMatchWithBot(room.Game.Policy())
	} else {
		room.Game.StartMatch()
	}
	for i, player := range room.Players {
		if i == 0 {
			player.Symbol = room.Game.FirstMark
		} else {
			player.Symbol = room.Game.SecondMark
		}
	}

	snapshots := gameSnapshots(room)
	roster := roomSnapshot(room)
	room.Unlock()

	for _, snap := range snapshots {
		that.send(log, snap.conn, protocol.NewEvent(protocol.EventGameData, snap.data))
		that.send(log, snap.conn, protocol.NewEvent(protocol.EventRoomData, roster))
	}

	log.Info("round settled")
}

func (that *RoomManager) getRoom(id string) (*entity.Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	return room, ok
}

// roomSummaries snapshots the directory without nesting the directory
// lock inside any room lock.
func (that *RoomManager) roomSummaries() []protocol.RoomSummary {
	that.mu.RLock()
	rooms := make([]*entity.Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		rooms = append(rooms, room)
	}
	that.mu.RUnlock()

	summaries := make([]protocol.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		room.Lock()
		summaries = append(summaries, protocol.RoomSummary{ID: room.ID, Name: room.Name, Full: room.Full()})
		room.Unlock()
	}

	return summaries
}

// broadcastRooms pushes the lobby listing to every connected client
// except the excluded one. Excluded clients are skipped, never cut the
// iteration short.
func (that *RoomManager) broadcastRooms(log *slog.Logger, exclude entity.Connection) {
	data := &protocol.RoomsData{Rooms: that.roomSummaries()}

	for _, conn := range that.registry.Connections() {
		if conn == exclude {
			continue
		}
		that.send(log, conn, protocol.NewEvent(protocol.EventRoomsData, data))
	}
}

func (that *RoomManager) send(log *slog.Logger, conn entity.Connection, event *protocol.Event) {
	if conn == nil {
		return
	}

	if err := conn.Push(event); err != nil {
		log.Warn("failed to push event", "event", event.Event, "error", err)
	}
}

// participantConns collects the transport handles of every occupant.
// Callers must hold the room lock.
func participantConns(room *entity.Room) []entity.Connection {
	conns := make([]entity.Connection, 0, len(room.Players))
	for _, player := range room.Players {
		conns = append(conns, player.Conn)
	}

	return conns
}

type gameRecipient struct {
	conn entity.Connection
	data *protocol.GameData
}

// gameSnapshots builds one snapshot per participant, each echoing that
// participant's own mark as self. Callers must hold the room lock.
func gameSnapshots(room *entity.Room) []gameRecipient {
	recipients := make([]gameRecipient, 0, len(room.Players))
	for _, player := range room.Players {
		recipients = append(recipients, gameRecipient{
			conn: player.Conn,
			data: gameSnapshot(room.Game, player.Symbol),
		})
	}

	return recipients
}

func gameSnapshot(game *entity.Game, self string) *protocol.GameData {
	return &protocol.GameData{
		State:  game.State,
		Board:  game.Board,
		Round:  game.Round,
		Self:   self,
		Next:   game.Current,
		Winner: game.Winner,
	}
}

func roomSnapshot(room *entity.Room) *protocol.RoomData {
	players := make([]protocol.PlayerInfo, 0, len(room.Players))
	for _, player := range room.Players {
		players = append(players, protocol.PlayerInfo{Symbol: player.Symbol, Score: player.Score})
	}

	return &protocol.RoomData{
		Room: protocol.RoomInfo{
			ID:      room.ID,
			Name:    room.Name,
			Full:    room.Full(),
			Players: players,
		},
	}
}
