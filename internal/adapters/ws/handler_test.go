package ws

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *WsHandler {
	return NewHandler(WsHandlerParams{Logger: zerolog.Nop()})
}

func TestRemoveEventChannelIsIdempotent(t *testing.T) {
	t.Parallel()

	handler := newTestHandler()
	eventChan := handler.createEventChannel("client-1")

	require.NotPanics(t, func() {
		handler.removeEventChannel("client-1")
		handler.removeEventChannel("client-1")
	})

	_, ok := <-eventChan
	require.False(t, ok)
	require.Nil(t, handler.getEventChannel("client-1"))
}

func TestCreateEventChannelReusesExisting(t *testing.T) {
	t.Parallel()

	handler := newTestHandler()
	first := handler.createEventChannel("client-1")
	second := handler.createEventChannel("client-1")
	require.True(t, first == second)
}

// A client that unsubscribed its last auction still disconnects cleanly: the
// handler owns the event channel, closes it exactly once, and the event
// listener exits instead of forwarding zero-value events.
func TestListenerStopsWhenEventChannelCloses(t *testing.T) {
	t.Parallel()

	handler := newTestHandler()
	client := newTestClient(t)
	handler.registerClient(client)
	handler.createEventChannel(client.id)

	done := make(chan struct{})
	go func() {
		handler.listenForClientEvents(client)
		close(done)
	}()

	handler.unregisterClient(client)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("event listener did not stop after the channel closed")
	}
}
