package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
	"github.com/rocketscienceinc/gameroom-backend/internal/protocol"
)

// dispatch decodes one inbound frame, validates its required fields and
// routes it. Malformed or unrecognized commands answer the sender only
// and change no state.
func (that *Server) dispatch(client *Client, raw []byte) {
	log := that.logger.With("method", "dispatch", "sessionID", client.sessionID)

	var msg protocol.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		that.reject(client, "invalid message")
		return
	}

	switch msg.Command {
	case protocol.CommandPing:
		if err := client.Push(&protocol.Event{Success: true, Event: protocol.EventPong}); err != nil {
			log.Warn("failed to push pong", "error", err)
		}

	case protocol.CommandRefreshRooms:
		that.rooms.RefreshRooms(client)

	case protocol.CommandCreateRoom:
		var req protocol.CreateRoomRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.Name == "" {
			that.reject(client, "name is required")
			return
		}
		that.rooms.CreateRoom(client.sessionID, req.Name, client)

	case protocol.CommandJoinRoom:
		var req protocol.JoinRoomRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.RoomID == "" {
			that.reject(client, "roomId is required")
			return
		}
		that.rooms.JoinRoom(client.sessionID, req.RoomID, client)

	case protocol.CommandLeaveRoom:
		var req protocol.LeaveRoomRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.RoomID == "" {
			that.reject(client, "roomId is required")
			return
		}
		that.rooms.LeaveRoom(client.sessionID, req.RoomID, client)

	case protocol.CommandPick:
		var req protocol.PickRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.RoomID == "" || req.Y == nil || req.X == nil {
			that.reject(client, "roomId, y and x are required")
			return
		}
		if !inRange(*req.Y) || !inRange(*req.X) {
			that.reject(client, "y and x must be within the board")
			return
		}
		that.rooms.Pick(client.sessionID, req.RoomID, *req.Y, *req.X, client)

	case protocol.CommandPlayBot:
		var req protocol.PlayBotRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.RoomID == "" {
			that.reject(client, "roomId is required")
			return
		}
		that.rooms.PlayBot(client.sessionID, req.RoomID, client)

	default:
		that.reject(client, "invalid command")
	}
}

func (that *Server) reject(client *Client, reason string) {
	if err := client.Push(protocol.NewErrorEvent(protocol.EventInvalidCommand, reason)); err != nil {
		that.logger.Warn("failed to push rejection", "sessionID", client.sessionID, "error", err)
	}
}

func inRange(v int) bool {
	return v >= 0 && v < entity.BoardSize
}
