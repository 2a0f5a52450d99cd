package entity

import "time"

// Session is one issued session identifier. Clients cache it across
// reconnects; it is independent of any single transport connection.
type Session struct {
	ID       string    `json:"id"`
	IssuedAt time.Time `json:"issued_at"`
}
