package ws_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "number-duel/internal/api/http"
	"number-duel/internal/api/ws"
	"number-duel/internal/config"
	"number-duel/internal/room"
	"number-duel/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	cfg.SetAIDelayMS(5)
	mem := store.NewMemoryStore()
	queue := httpapi.NewPollQueue()
	dispatch := room.NewDispatcher(queue)
	mgr := room.NewManager(mem, cfg, dispatch)
	hub := ws.NewHub(mgr, dispatch, "*")

	srv := httptest.NewServer(httpapi.NewRouter(mgr, mem, cfg, hub, queue))
	t.Cleanup(srv.Close)
	return srv, mem
}

func dial(t *testing.T, srv *httptest.Server, playerID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?player_id=" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev map[string]any
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestSocketCreateRoom(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "sock1")

	ev := readEvent(t, conn)
	assert.Equal(t, "connected", ev["type"])
	assert.Equal(t, "sock1", ev["playerId"])

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action": "create_room",
		"data":   map[string]any{"playerName": "Sock"},
	}))

	ev = readEvent(t, conn)
	assert.Equal(t, room.EventRoomCreated, ev["type"])
	roomID, _ := ev["roomId"].(string)
	assert.Len(t, roomID, 8)
}

func TestSocketUnknownAction(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "sock2")
	readEvent(t, conn) // connected

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "launch_missiles"}))

	ev := readEvent(t, conn)
	assert.Equal(t, "error", ev["type"])
	assert.Equal(t, "launch_missiles", ev["action"])
}

// Two sockets in one room: the joiner's event reaches the creator.
func TestSocketFanout(t *testing.T) {
	srv, _ := newTestServer(t)
	creator := dial(t, srv, "host")
	readEvent(t, creator) // connected

	require.NoError(t, creator.WriteJSON(map[string]any{
		"action": "create_room",
		"data":   map[string]any{"playerName": "Host"},
	}))
	created := readEvent(t, creator)
	roomID := created["roomId"].(string)

	joiner := dial(t, srv, "guest")
	readEvent(t, joiner) // connected
	require.NoError(t, joiner.WriteJSON(map[string]any{
		"action": "join_room",
		"data":   map[string]any{"roomId": roomID, "playerName": "Guest"},
	}))

	assert.Equal(t, room.EventJoinedRoom, readEvent(t, joiner)["type"])
	assert.Equal(t, room.EventPlayerJoined, readEvent(t, creator)["type"])
}

// Reconnecting under the same player id replaces the socket. The old
// connection's teardown must not unbind the player or delete the room
// while the new socket is live.
func TestSocketReconnectKeepsRoom(t *testing.T) {
	srv, mem := newTestServer(t)

	first := dial(t, srv, "twin")
	readEvent(t, first) // connected
	require.NoError(t, first.WriteJSON(map[string]any{
		"action": "create_room",
		"data":   map[string]any{"playerName": "Twin"},
	}))
	readEvent(t, first) // room_created

	second := dial(t, srv, "twin")
	readEvent(t, second) // connected

	require.Never(t, func() bool {
		rooms, _ := mem.Counts()
		return rooms == 0
	}, 300*time.Millisecond, 20*time.Millisecond, "replaced socket tore down the room")

	// dropping the live socket still counts as leaving
	second.Close()
	require.Eventually(t, func() bool {
		rooms, players := mem.Counts()
		return rooms == 0 && players == 0
	}, 2*time.Second, 5*time.Millisecond)
}

// Dropping the socket counts as leaving: the room is torn down.
func TestSocketDisconnectCleansUp(t *testing.T) {
	srv, mem := newTestServer(t)
	conn := dial(t, srv, "ghost")
	readEvent(t, conn) // connected

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action": "create_room",
		"data":   map[string]any{"playerName": "Ghost"},
	}))
	readEvent(t, conn) // room_created

	conn.Close()

	require.Eventually(t, func() bool {
		rooms, players := mem.Counts()
		return rooms == 0 && players == 0
	}, 2*time.Second, 5*time.Millisecond)
}
