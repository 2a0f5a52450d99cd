// Package protocol defines the wire format spoken over the socket:
// inbound command frames and outbound event frames, both JSON.
package protocol

import "encoding/json"

// Commands accepted from clients.
const (
	CommandPing         = "PING"
	CommandRefreshRooms = "REFRESH_ROOMS"
	CommandCreateRoom   = "CREATE_ROOM"
	CommandJoinRoom     = "JOIN_ROOM"
	CommandLeaveRoom    = "LEAVE_ROOM"
	CommandPick         = "PICK"
	CommandPlayBot      = "PLAY_BOT"
)

// Events pushed to clients.
const (
	EventPong               = "PONG"
	EventRoomsData          = "ROOMS_DATA"
	EventCreateRoomCallback = "CREATE_ROOM_CALLBACK"
	EventRoomData           = "ROOM_DATA"
	EventGameData           = "GAME_DATA"
	EventRoomFull           = "ROOM_FULL"
	EventRoomNotFound       = "ROOM_NOT_FOUND"
	EventMustTwoPlayer      = "MUST_TWO_PLAYER"
	EventGameNotPlaying     = "GAME_NOT_PLAYING"
	EventGamePickFail       = "GAME_PICK_FAIL"
	EventInvalidCommand     = "GAME_INVALID_COMMAND"
	EventUnauthorized       = "UNAUTHORIZED"
)

// Message is one inbound client frame.
type Message struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Event is one outbound server frame.
type Event struct {
	Success bool   `json:"success"`
	Event   string `json:"event"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func NewEvent(event string, data any) *Event {
	return &Event{Success: true, Event: event, Data: data}
}

func NewErrorEvent(event, message string) *Event {
	return &Event{Event: event, Message: message}
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type LeaveRoomRequest struct {
	RoomID string `json:"roomId"`
}

type PlayBotRequest struct {
	RoomID string `json:"roomId"`
}

// PickRequest carries board coordinates. Y and X are pointers so that
// an absent field can be told apart from a valid zero.
type PickRequest struct {
	RoomID string `json:"roomId"`
	Y      *int   `json:"y"`
	X      *int   `json:"x"`
}

type RoomSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Full bool   `json:"full"`
}

type RoomsData struct {
	Rooms []RoomSummary `json:"rooms"`
}

type CreateRoomCallback struct {
	RoomID string `json:"roomId"`
}

type PlayerInfo struct {
	Symbol string `json:"symbol"`
	Score  int    `json:"score"`
}

type RoomInfo struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Full    bool         `json:"full"`
	Players []PlayerInfo `json:"players"`
}

type RoomData struct {
	Room RoomInfo `json:"room"`
}

// GameData is the game snapshot sent after every state change. Self is
// the recipient's own mark so a reconnecting or multi-tab client can
// orient itself.
type GameData struct {
	State  string       `json:"state"`
	Board  [3][3]string `json:"board"`
	Round  int          `json:"round"`
	Self   string       `json:"self"`
	Next   string       `json:"next"`
	Winner string       `json:"winner"`
}
