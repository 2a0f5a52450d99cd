package entity

import "github.com/rocketscienceinc/gameroom-backend/internal/protocol"

// Connection is a write-capable handle to one connected client. The
// transport owns the handle; rooms and registries only route through
// it.
type Connection interface {
	Push(event *protocol.Event) error
}
