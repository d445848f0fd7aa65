package ws

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"number-duel/internal/game"
	"number-duel/internal/room"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// sendBuffer bounds per-client backpressure; events past it are dropped
// rather than blocking the game operation that produced them.
const sendBuffer = 32

type client struct {
	conn *websocket.Conn
	send chan room.Event
}

// writePump serializes all writes for one connection. It keeps draining
// after a write error so Deliver never blocks on a dead socket.
func (cl *client) writePump() {
	broken := false
	for ev := range cl.send {
		if broken {
			continue
		}
		if err := cl.conn.WriteJSON(ev); err != nil {
			log.Printf("websocket write failed: %v", err)
			cl.conn.Close()
			broken = true
		}
	}
	cl.conn.Close()
}

// Hub owns the socket transport: one connection per player, inbound
// messages carrying the same {action, data} envelope as the other
// transports, outbound events delivered through the dispatcher binding.
type Hub struct {
	engine   Engine
	dispatch *room.Dispatcher
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub(engine Engine, dispatch *room.Dispatcher, allowOrigin string) *Hub {
	return &Hub{
		engine:   engine,
		dispatch: dispatch,
		clients:  map[string]*client{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return allowOrigin == "*" || r.Header.Get("Origin") == allowOrigin
			},
		},
	}
}

// Deliver implements room.Sink. Non-blocking: a full buffer drops the
// event and reports it to the dispatcher, which logs and moves on.
func (h *Hub) Deliver(playerID string, ev room.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cl, ok := h.clients[playerID]
	if !ok {
		return errors.New("no open socket for player")
	}
	select {
	case cl.send <- ev:
		return nil
	default:
		return errors.New("client send buffer full")
	}
}

func (h *Hub) register(playerID string, cl *client) {
	h.mu.Lock()
	if old, ok := h.clients[playerID]; ok {
		close(old.send)
	}
	h.clients[playerID] = cl
	h.mu.Unlock()
}

// unregister reports whether cl still owned the registration. A
// connection replaced by a newer socket for the same player returns
// false and must not tear down the new socket's state.
func (h *Hub) unregister(playerID string, cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[playerID]; ok && cur == cl {
		delete(h.clients, playerID)
		close(cl.send)
		return true
	}
	return false
}

// wsMessage is the inbound envelope.
type wsMessage struct {
	Action string `json:"action"`
	Data   struct {
		RoomID     string `json:"roomId"`
		PlayerName string `json:"playerName"`
		Card       int    `json:"card"`
		Difficulty string `json:"difficulty"`
	} `json:"data"`
}

// HandleWS upgrades the connection and runs the read loop. The player
// identity comes from the player_id query parameter; without one a
// fresh id is generated and announced in the opening "connected" event.
func (h *Hub) HandleWS(c *gin.Context) {
	playerID := c.Query("player_id")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	cl := &client{conn: conn, send: make(chan room.Event, sendBuffer)}
	h.register(playerID, cl)
	h.dispatch.Bind(playerID, h)
	go cl.writePump()

	h.sendTo(playerID, room.Event{"type": "connected", "playerId": playerID})
	log.Printf("socket connected for player %s", playerID)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		h.handleAction(playerID, msg)
	}

	if !h.unregister(playerID, cl) {
		log.Printf("socket for player %s superseded by a newer connection", playerID)
		return
	}
	h.dispatch.Unbind(playerID)
	h.engine.Leave(playerID)
	log.Printf("socket closed for player %s", playerID)
}

func (h *Hub) sendTo(playerID string, ev room.Event) {
	if err := h.Deliver(playerID, ev); err != nil {
		log.Printf("event %s to player %s dropped: %v", ev.Kind(), playerID, err)
	}
}

func (h *Hub) handleAction(playerID string, msg wsMessage) {
	var err error
	switch msg.Action {
	case "create_room":
		_, _, err = h.engine.CreateRoom(playerID, msg.Data.PlayerName)
	case "create_ai_room":
		var difficulty game.Difficulty
		difficulty, err = game.ParseDifficulty(msg.Data.Difficulty)
		if err == nil {
			_, _, err = h.engine.CreateAIRoom(playerID, msg.Data.PlayerName, difficulty)
		}
	case "join_room":
		_, _, err = h.engine.JoinRoom(msg.Data.RoomID, playerID, msg.Data.PlayerName)
	case "start_game":
		_, err = h.engine.StartGame(msg.Data.RoomID)
	case "play_card":
		err = h.engine.PlayCard(msg.Data.RoomID, playerID, msg.Data.Card)
	case "leave_room":
		h.engine.Leave(playerID)
	default:
		err = errors.New("unknown action")
	}
	if err != nil {
		h.sendTo(playerID, room.Event{
			"type":    "error",
			"action":  msg.Action,
			"message": err.Error(),
		})
	}
}
