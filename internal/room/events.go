package room

import (
	"log"
	"sync"
)

// Event kinds pushed to clients. Payload keys sit alongside "type" at
// the top level, mirroring what clients of every transport decode.
const (
	EventRoomCreated   = "room_created"
	EventAIGameStarted = "ai_game_started"
	EventJoinedRoom    = "joined_room"
	EventPlayerJoined  = "player_joined"
	EventGameStarted   = "game_started"
	EventCardPlayed    = "card_played"
	EventRoundResult   = "round_result"
	EventGameFinished  = "game_finished"
	EventPlayerLeft    = "player_left"
)

// Event is a loosely structured notification. The "type" key carries
// the kind; the remaining keys are kind-specific.
type Event map[string]any

func newEvent(kind string, fields map[string]any) Event {
	ev := Event{"type": kind}
	for k, v := range fields {
		ev[k] = v
	}
	return ev
}

// Kind returns the event's type tag.
func (e Event) Kind() string {
	kind, _ := e["type"].(string)
	return kind
}

// Sink delivers events to a single player over whatever transport that
// player is attached to. Deliver must not block: implementations buffer
// or drop.
type Sink interface {
	Deliver(playerID string, ev Event) error
}

// Dispatcher routes events to per-player sinks. A transport binds a
// player when it takes over delivery (socket connect, relay action);
// unbound players fall back to the default sink, the HTTP poll queue.
//
// Delivery is best-effort by contract: a failing sink is logged and
// never surfaces into the game operation that triggered the event.
type Dispatcher struct {
	mu       sync.RWMutex
	sinks    map[string]Sink
	fallback Sink
}

func NewDispatcher(fallback Sink) *Dispatcher {
	return &Dispatcher{
		sinks:    make(map[string]Sink),
		fallback: fallback,
	}
}

func (d *Dispatcher) Bind(playerID string, s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks[playerID] = s
}

func (d *Dispatcher) Unbind(playerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sinks, playerID)
}

// Send delivers one event to one player.
func (d *Dispatcher) Send(playerID string, ev Event) {
	d.mu.RLock()
	sink, ok := d.sinks[playerID]
	if !ok {
		sink = d.fallback
	}
	d.mu.RUnlock()

	if sink == nil {
		return
	}
	if err := sink.Deliver(playerID, ev); err != nil {
		log.Printf("event %s to player %s dropped: %v", ev.Kind(), playerID, err)
	}
}

// Notify fans an event out to every seated player except exclude. The
// AI seat never receives events.
func (d *Dispatcher) Notify(r *Room, exclude string, ev Event) {
	for _, p := range r.Players {
		if p.IsAI || p.ID == exclude {
			continue
		}
		d.Send(p.ID, ev)
	}
}
