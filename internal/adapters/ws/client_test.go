package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// newTestConn dials a throwaway websocket server and returns the client side
func newTestConn(t *testing.T) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Hold the connection until the peer goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	return conn
}

func newTestClient(t *testing.T) *WsClient {
	t.Helper()
	client := NewClient(WsClientParams{
		UserID: uuid.New(),
		Conn:   newTestConn(t),
		Logger: zerolog.Nop(),
	})
	t.Cleanup(client.Stop)
	return client
}

func TestClientSendAfterStop(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	client.Stop()

	err := client.Send(NewServerMessage(MessageTypePong))
	require.Error(t, err)

	// A send that raced past the stopped check must land in the buffer, not
	// panic on a closed channel
	require.NotPanics(t, func() { client.sendChan <- NewServerMessage(MessageTypePong) })
}

func TestClientStopIsIdempotent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	require.NotPanics(t, func() {
		client.Stop()
		client.Stop()
	})
}
