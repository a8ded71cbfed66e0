package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Wyydra/huddle/internal/config"
	"github.com/Wyydra/huddle/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var testConfig = config.WebSocketConfig{
	PingInterval:   time.Second,
	PongWait:       2 * time.Second,
	WriteWait:      time.Second,
	MaxMessageSize: 4096,
	SendBuffer:     2,
}

// newConnPair returns the server and client ends of one websocket connection.
func newConnPair(t *testing.T) (server, peer *websocket.Conn) {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	select {
	case server = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("server side of the connection never arrived")
	}
	t.Cleanup(func() { server.Close() })
	return server, peer
}

func TestClient_SendBufferFull(t *testing.T) {
	req := require.New(t)
	conn, _ := newConnPair(t)
	c := NewClient("a", conn, testConfig)

	req.NoError(c.Send(domain.UserJoined("b")))
	req.NoError(c.Send(domain.UserJoined("c")))
	req.ErrorIs(c.Send(domain.UserJoined("d")), ErrSendBufferFull)
}

func TestClient_SendAfterClose(t *testing.T) {
	req := require.New(t)
	conn, _ := newConnPair(t)
	c := NewClient("a", conn, testConfig)

	req.NoError(c.Close())
	req.NoError(c.Close())
	req.ErrorIs(c.Send(domain.UserJoined("b")), ErrClientClosed)
}

func TestClient_WritePumpDeliversThenCloses(t *testing.T) {
	req := require.New(t)
	conn, peer := newConnPair(t)
	c := NewClient("a", conn, testConfig)
	go c.WritePump()

	req.NoError(c.Send(domain.UserJoined("b")))

	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg domain.Message
	req.NoError(peer.ReadJSON(&msg))
	req.Equal(domain.UserJoined("b"), msg)

	req.NoError(c.Close())
	_, _, err := peer.ReadMessage()
	req.True(websocket.IsCloseError(err, websocket.CloseNoStatusReceived), "got %v", err)
}
