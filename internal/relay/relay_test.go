package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRelay(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	server := httptest.NewServer(Router(hub))
	t.Cleanup(server.Close)
	return hub, server
}

func wsURL(server *httptest.Server, code string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + code
}

func dial(t *testing.T, server *httptest.Server, code string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, code), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHealthz(t *testing.T) {
	_, server := newTestRelay(t)
	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateRoom(t *testing.T) {
	_, server := newTestRelay(t)
	resp, err := http.Post(server.URL+"/rooms", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Code, 6)
}

func TestRejectsInvalidRoomCode(t *testing.T) {
	_, server := newTestRelay(t)
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "bad"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFanOutSkipsSender(t *testing.T) {
	hub, server := newTestRelay(t)
	code := "ABC234"

	a := dial(t, server, code)
	b := dial(t, server, code)
	c := dial(t, server, code)
	require.Eventually(t, func() bool { return hub.RoomSize(code) == 3 },
		time.Second, 10*time.Millisecond)

	frame := []byte(`{"event":"player_state","payload":{}}`)
	require.NoError(t, a.WriteMessage(websocket.TextMessage, frame))

	for _, conn := range []*websocket.Conn{b, c} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, got, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, string(frame), string(got))
	}

	// The sender must not hear its own frame back.
	require.NoError(t, a.SetReadDeadline(time.Now().Add(100 * time.Millisecond)))
	_, _, err := a.ReadMessage()
	assert.Error(t, err)
}

func TestRoomsAreIsolated(t *testing.T) {
	hub, server := newTestRelay(t)

	a := dial(t, server, "ABC234")
	b := dial(t, server, "XYZ789")
	require.Eventually(t, func() bool {
		return hub.RoomSize("ABC234") == 1 && hub.RoomSize("XYZ789") == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"event":"presence_ping"}`)))

	require.NoError(t, b.SetReadDeadline(time.Now().Add(100 * time.Millisecond)))
	_, _, err := b.ReadMessage()
	assert.Error(t, err, "a frame must never cross rooms")
}

func TestEmptyRoomIsReaped(t *testing.T) {
	hub, server := newTestRelay(t)
	code := "ABC234"

	conn := dial(t, server, code)
	require.Eventually(t, func() bool { return hub.RoomSize(code) == 1 },
		time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.RoomSize(code) == 0 },
		time.Second, 10*time.Millisecond)
}
