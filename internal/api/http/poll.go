package http

import (
	"sync"

	"number-duel/internal/room"
)

// PollQueue buffers events per player until the next poll drains them.
// It is the dispatcher's fallback sink, so HTTP-only clients need no
// registration step beyond their first action.
type PollQueue struct {
	mu     sync.Mutex
	queues map[string][]room.Event
}

func NewPollQueue() *PollQueue {
	return &PollQueue{queues: map[string][]room.Event{}}
}

func (q *PollQueue) Deliver(playerID string, ev room.Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queues[playerID] = append(q.queues[playerID], ev)
	return nil
}

// Drain returns and clears the player's pending events.
func (q *PollQueue) Drain(playerID string) []room.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.queues[playerID]
	delete(q.queues, playerID)
	if events == nil {
		events = []room.Event{}
	}
	return events
}
