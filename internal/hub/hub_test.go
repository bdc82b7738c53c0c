package hub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoquiz-duel/internal/hub"
)

func TestHub_SendToRegisteredClient(t *testing.T) {
	h := hub.NewHub()
	c := hub.NewClient("c1")
	h.Register(c)

	h.Send("c1", []byte("hello"))
	h.Send("unknown", []byte("dropped"))

	require.Len(t, c.Send, 1)
	assert.Equal(t, []byte("hello"), <-c.Send)
	assert.Equal(t, 1, h.Len())
}

func TestHub_UnregisterClosesQueue(t *testing.T) {
	h := hub.NewHub()
	c := hub.NewClient("c1")
	h.Register(c)

	assert.True(t, h.Unregister("c1"))
	assert.False(t, h.Unregister("c1"), "second unregister is a no-op")

	_, open := <-c.Send
	assert.False(t, open)
	assert.Zero(t, h.Len())

	assert.NotPanics(t, func() { h.Send("c1", []byte("late")) })
}

func TestHub_FullQueueDropsClient(t *testing.T) {
	h := hub.NewHub()
	c := hub.NewClient("c1")
	h.Register(c)

	for i := 0; i < hub.SendBufferSize; i++ {
		h.Send("c1", []byte("x"))
	}
	assert.Equal(t, 1, h.Len())

	h.Send("c1", []byte("overflow"))
	assert.Zero(t, h.Len())
	assert.False(t, h.Unregister("c1"))

	n := 0
	for range c.Send {
		n++
	}
	assert.Equal(t, hub.SendBufferSize, n, "queued messages are still drained before close")
}

func TestHub_ReRegisterClosesOldQueue(t *testing.T) {
	h := hub.NewHub()
	old := hub.NewClient("c1")
	h.Register(old)

	fresh := hub.NewClient("c1")
	h.Register(fresh)

	_, open := <-old.Send
	assert.False(t, open)

	h.Send("c1", []byte("hi"))
	assert.Equal(t, []byte("hi"), <-fresh.Send)
}
