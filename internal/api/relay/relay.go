// Package relay is the pub/sub transport: clients publish game actions
// to a shared NATS subject and receive their events on a per-player
// subject. Semantics mirror the HTTP and socket transports exactly.
package relay

import (
	"encoding/json"
	"errors"
	"log"

	"number-duel/internal/game"
	"number-duel/internal/room"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	// ActionSubject receives {action, ...} envelopes from all clients.
	ActionSubject = "duel.actions"
	// ClientSubjectPrefix + playerID is where a player's events land.
	ClientSubjectPrefix = "duel.client."
)

// Engine is the subset of the room manager the relay drives.
type Engine interface {
	CreateRoom(playerID, playerName string) (*room.Room, *room.Player, error)
	CreateAIRoom(playerID, playerName string, difficulty game.Difficulty) (*room.Room, *room.Player, error)
	JoinRoom(roomID, playerID, playerName string) (*room.Room, *room.Player, error)
	StartGame(roomID string) (*room.Room, error)
	PlayCard(roomID, playerID string, card int) error
	Leave(playerID string)
}

// actionMessage is the inbound envelope, one JSON object per action.
type actionMessage struct {
	Action     string `json:"action"`
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Card       int    `json:"card"`
	Difficulty string `json:"difficulty"`
}

type Relay struct {
	nc       *nats.Conn
	engine   Engine
	dispatch *room.Dispatcher
	sub      *nats.Subscription
}

// Connect dials the broker and subscribes to the action subject.
func Connect(url string, engine Engine, dispatch *room.Dispatcher) (*Relay, error) {
	nc, err := nats.Connect(url, nats.Name("number-duel"))
	if err != nil {
		return nil, err
	}
	r := &Relay{nc: nc, engine: engine, dispatch: dispatch}
	sub, err := nc.Subscribe(ActionSubject, r.handleAction)
	if err != nil {
		nc.Close()
		return nil, err
	}
	r.sub = sub
	return r, nil
}

// Deliver implements room.Sink by publishing onto the player's subject.
// NATS publishes are buffered client-side, so this never blocks a game
// operation.
func (r *Relay) Deliver(playerID string, ev room.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.nc.Publish(ClientSubjectPrefix+playerID, data)
}

// reply is the request/response half for clients that publish with a
// reply inbox. Events still flow through the player subject either way.
func (r *Relay) reply(msg *nats.Msg, payload map[string]any) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := r.nc.Publish(msg.Reply, data); err != nil {
		log.Printf("relay reply failed: %v", err)
	}
}

func (r *Relay) handleAction(msg *nats.Msg) {
	var req actionMessage
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		r.reply(msg, map[string]any{"success": false, "error": "invalid payload"})
		return
	}
	if req.PlayerID == "" {
		req.PlayerID = uuid.NewString()
	}

	// From the first action on, this player's events go over the relay.
	r.dispatch.Bind(req.PlayerID, r)

	var (
		rm  *room.Room
		err error
	)
	switch req.Action {
	case "create_room":
		rm, _, err = r.engine.CreateRoom(req.PlayerID, req.PlayerName)
	case "create_ai_room":
		var difficulty game.Difficulty
		difficulty, err = game.ParseDifficulty(req.Difficulty)
		if err == nil {
			rm, _, err = r.engine.CreateAIRoom(req.PlayerID, req.PlayerName, difficulty)
		}
	case "join_room":
		rm, _, err = r.engine.JoinRoom(req.RoomID, req.PlayerID, req.PlayerName)
	case "start_game":
		rm, err = r.engine.StartGame(req.RoomID)
	case "play_card":
		err = r.engine.PlayCard(req.RoomID, req.PlayerID, req.Card)
	case "leave_room":
		r.engine.Leave(req.PlayerID)
		r.dispatch.Unbind(req.PlayerID)
	default:
		err = errors.New("unknown action")
	}

	if err != nil {
		r.reply(msg, map[string]any{"success": false, "error": err.Error()})
		if err2 := r.Deliver(req.PlayerID, room.Event{
			"type":    "error",
			"action":  req.Action,
			"message": err.Error(),
		}); err2 != nil {
			log.Printf("relay error event dropped: %v", err2)
		}
		return
	}

	resp := map[string]any{"success": true, "playerId": req.PlayerID}
	if rm != nil {
		resp["roomId"] = rm.ID
	}
	r.reply(msg, resp)
}

// Close stops consuming actions and flushes outstanding publishes.
func (r *Relay) Close() {
	if r.sub != nil {
		if err := r.sub.Unsubscribe(); err != nil {
			log.Printf("relay unsubscribe failed: %v", err)
		}
	}
	if err := r.nc.Drain(); err != nil {
		r.nc.Close()
	}
}
