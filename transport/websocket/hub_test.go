package websocket

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// drain reads everything currently queued for the client.
func drain(c *client) []*Message {
	var msgs []*Message
	for {
		select {
		case msg := <-c.send:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func TestHub_Broadcast(t *testing.T) {
	t.Run("Delivers to every subscriber in issue order", func(t *testing.T) {
		// Given: two clients subscribed to the same room
		hub := newTestHub()

		c1 := newClient("conn1", nil)
		c2 := newClient("conn2", nil)
		hub.register(c1)
		hub.register(c2)
		hub.Subscribe("conn1", "r1")
		hub.Subscribe("conn2", "r1")

		// When: two broadcasts go out
		hub.Broadcast("r1", "room-update", map[string]string{"seq": "1"})
		hub.Broadcast("r1", "room-update", map[string]string{"seq": "2"})

		// Then: both clients got both, in order
		for _, c := range []*client{c1, c2} {
			msgs := drain(c)
			require.Len(t, msgs, 2)
			assert.JSONEq(t, `{"seq":"1"}`, string(msgs[0].Payload))
			assert.JSONEq(t, `{"seq":"2"}`, string(msgs[1].Payload))
		}
	})

	t.Run("Skips other rooms and unsubscribed clients", func(t *testing.T) {
		// Given: one client in the room and one outside it
		hub := newTestHub()

		member := newClient("conn1", nil)
		outsider := newClient("conn2", nil)
		hub.register(member)
		hub.register(outsider)
		hub.Subscribe("conn1", "r1")
		hub.Subscribe("conn2", "r2")

		// When: broadcasting to r1
		hub.Broadcast("r1", "room-update", nil)

		// Then: only the member receives it
		assert.Len(t, drain(member), 1)
		assert.Empty(t, drain(outsider))

		// When: the member unsubscribes and another broadcast goes out
		hub.Unsubscribe("conn1", "r1")
		hub.Broadcast("r1", "room-update", nil)

		// Then: nobody receives it
		assert.Empty(t, drain(member))
	})

	t.Run("A full send buffer drops instead of blocking", func(t *testing.T) {
		// Given: a subscriber whose queue is already full
		hub := newTestHub()

		c := newClient("conn1", nil)
		hub.register(c)
		hub.Subscribe("conn1", "r1")

		for i := 0; i < sendBufferSize; i++ {
			hub.Broadcast("r1", "room-update", nil)
		}

		// When: one more broadcast arrives
		hub.Broadcast("r1", "room-update", nil)

		// Then: the overflow was dropped, the queue holds the buffer size
		assert.Len(t, drain(c), sendBufferSize)
	})
}

func TestHub_Unicast(t *testing.T) {
	// Given: two registered clients
	hub := newTestHub()

	c1 := newClient("conn1", nil)
	c2 := newClient("conn2", nil)
	hub.register(c1)
	hub.register(c2)

	// When: unicasting to one of them
	hub.Unicast("conn1", "join-error", "Room Full")

	// Then: only that client receives the message
	msgs := drain(c1)
	require.Len(t, msgs, 1)
	assert.Equal(t, "join-error", msgs[0].Action)
	assert.Empty(t, drain(c2))

	// And: unicasting to an unknown connection is a no-op
	hub.Unicast("ghost", "join-error", "Room Full")
}

func TestHub_Unregister(t *testing.T) {
	// Given: a registered, subscribed client
	hub := newTestHub()

	c := newClient("conn1", nil)
	hub.register(c)
	hub.Subscribe("conn1", "r1")

	// When: the connection is unregistered
	hub.unregister("conn1")

	// Then: its queue is closed and broadcasts no longer reach it
	_, open := <-c.send
	assert.False(t, open)

	hub.Broadcast("r1", "room-update", nil)

	// And: unregistering twice is harmless
	hub.unregister("conn1")
}
