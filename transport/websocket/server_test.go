package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gameroom-backend/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestServer_Handshake(t *testing.T) {
	t.Run("Missing session id is refused over the socket", func(t *testing.T) {
		// Given: a running server
		srv := newTestServer(&fakeRooms{}, true)
		ts := httptest.NewServer(http.HandlerFunc(srv.serveWS))
		defer ts.Close()

		// When: a client connects without a session id
		conn := dialWS(t, ts, "")

		// Then: the refusal travels over the socket
		var event protocol.Event
		require.NoError(t, conn.ReadJSON(&event))
		assert.False(t, event.Success)
		assert.Equal(t, protocol.EventUnauthorized, event.Event)
	})

	t.Run("Unknown session is refused", func(t *testing.T) {
		// Given: a server whose session store issued nothing
		srv := newTestServer(&fakeRooms{}, false)
		ts := httptest.NewServer(http.HandlerFunc(srv.serveWS))
		defer ts.Close()

		// When: a client presents a session that was never issued
		conn := dialWS(t, ts, "?sessionId=never-issued")

		// Then: the refusal travels over the socket
		var event protocol.Event
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, protocol.EventUnauthorized, event.Event)
	})

	t.Run("Issued session converses", func(t *testing.T) {
		// Given: a server that recognizes the session
		rooms := &fakeRooms{}
		srv := newTestServer(rooms, true)
		ts := httptest.NewServer(http.HandlerFunc(srv.serveWS))
		defer ts.Close()

		// When: the client connects and pings
		conn := dialWS(t, ts, "?sessionId=issued")
		require.NoError(t, conn.WriteJSON(protocol.Message{Command: protocol.CommandPing}))

		// Then: the server answers pong on the same socket
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var event protocol.Event
		require.NoError(t, conn.ReadJSON(&event))
		assert.True(t, event.Success)
		assert.Equal(t, protocol.EventPong, event.Event)
	})
}
