package websocket

import (
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/gameroom-backend/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Push(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Enqueues while the client is live", func(t *testing.T) {
		// Given: a live client
		client := newClient(logger, nil, "s1")

		// When: an event is pushed
		err := client.Push(protocol.NewEvent(protocol.EventPong, nil))

		// Then: it is queued for the write pump
		require.NoError(t, err)
		assert.Len(t, client.send, 1)
	})

	t.Run("Reports a full buffer without blocking", func(t *testing.T) {
		// Given: a client whose peer drains nothing
		client := newClient(logger, nil, "s1")
		for i := 0; i < sendBufferSize; i++ {
			require.NoError(t, client.Push(protocol.NewEvent(protocol.EventPong, nil)))
		}

		// When: one more event is pushed
		err := client.Push(protocol.NewEvent(protocol.EventPong, nil))

		// Then: the frame is dropped with an error
		assert.ErrorIs(t, err, ErrSendBufferFull)
	})

	t.Run("Fails after shutdown instead of panicking", func(t *testing.T) {
		// Given: a client whose read pump already shut it down
		client := newClient(logger, nil, "s1")
		client.shutdown()

		// When: a lobby broadcast holding a pre-departure snapshot
		// still pushes to it
		err := client.Push(protocol.NewEvent(protocol.EventRoomsData, &protocol.RoomsData{}))

		// Then: the push reports the closed connection
		assert.ErrorIs(t, err, ErrConnClosed)
	})

	t.Run("Shutdown is idempotent", func(t *testing.T) {
		// Given: a client shut down once
		client := newClient(logger, nil, "s1")
		client.shutdown()

		// When: the shutdown runs again
		client.shutdown()

		// Then: pushes still just fail
		assert.ErrorIs(t, client.Push(protocol.NewEvent(protocol.EventPong, nil)), ErrConnClosed)
	})
}
