package wsnet

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mooso/pheromessage/gossipset"
)

func TestHubDeliversToConnectedNodeAsJSON(t *testing.T) {
	hub := NewHub[gossipset.Message[string]](nil)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, hub.Connect(NodeID("node-0"), w, r))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server a moment to finish registering the connection.
	time.Sleep(50 * time.Millisecond)

	message := gossipset.AddMessage("gadget")
	require.NoError(t, hub.Deliver(&message, []NodeID{"node-0"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame[gossipset.Message[string]]
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "gadget", frame.Message.Value)
}

func TestHubDeliverSkipsUnconnectedNodes(t *testing.T) {
	hub := NewHub[gossipset.Message[string]](nil)
	message := gossipset.AddMessage("nobody-home")
	err := hub.Deliver(&message, []NodeID{"ghost"})
	assert.NoError(t, err)
}
