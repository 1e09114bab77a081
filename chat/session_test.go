package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newChatTestServer serves the chat endpoint the same way the HTTP layer
// does: identity and peer come from query parameters, one session per
// connection. Persistence is disabled, this test covers relay only.
func newChatTestServer(t *testing.T, hub *Hub) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		session := NewSession(hub, ws, nil, nil, r.URL.Query().Get("user_id"), r.URL.Query().Get("contact_id"))
		session.Serve()
	}))
}

func dial(t *testing.T, srv *httptest.Server, userID string, contactID string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user_id=" + userID + "&contact_id=" + contactID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.Nil(t, err)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) serverFrame {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	assert.Nil(t, err)

	var frame serverFrame
	assert.Nil(t, json.Unmarshal(raw, &frame))
	return frame
}

func TestSessionRelay(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	srv := newChatTestServer(t, hub)
	defer srv.Close()

	// (7,42) and (42,7) land in the same room no matter the connect order.
	conn1 := dial(t, srv, "7", "42")
	defer conn1.Close()
	conn2 := dial(t, srv, "42", "7")
	defer conn2.Close()
	conn3 := dial(t, srv, "7", "99")
	defer conn3.Close()

	// Registration races the first send without a sync point, wait for both
	// sessions to be members.
	time.Sleep(100 * time.Millisecond)

	assert.Nil(t, conn1.WriteJSON(map[string]string{"message": "hello"}))

	// Sender and peer both receive the tagged frame.
	frame := readFrame(t, conn1)
	assert.Equal(t, serverFrame{Type: "chat", Message: "hello"}, frame)
	frame = readFrame(t, conn2)
	assert.Equal(t, serverFrame{Type: "chat", Message: "hello"}, frame)

	// The unrelated room stays silent.
	conn3.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := conn3.ReadMessage()
	assert.NotNil(t, err)
}

func TestSessionDeregisterOnClose(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	srv := newChatTestServer(t, hub)
	defer srv.Close()

	conn1 := dial(t, srv, "7", "42")
	defer conn1.Close()
	conn2 := dial(t, srv, "42", "7")

	time.Sleep(100 * time.Millisecond)
	conn2.Close()
	time.Sleep(100 * time.Millisecond)

	// Relay to the closed peer neither blocks nor errors the room.
	assert.Nil(t, conn1.WriteJSON(map[string]string{"message": "still here"}))
	frame := readFrame(t, conn1)
	assert.Equal(t, serverFrame{Type: "chat", Message: "still here"}, frame)
}
