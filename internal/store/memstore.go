package store

import (
	"errors"
	"sync"

	"number-duel/internal/room"
)

// ErrRoomIDTaken is returned when a generated room id collides with a
// live room. The caller regenerates instead of silently overwriting.
var ErrRoomIDTaken = errors.New("room id already in use")

// MemoryStore keeps all rooms and the player->room index in process
// memory. Rooms are mutated in place through their own lock; the store
// lock only guards the maps.
type MemoryStore struct {
	mu      sync.RWMutex
	rooms   map[string]*room.Room
	players map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:   map[string]*room.Room{},
		players: map[string]string{},
	}
}

func (m *MemoryStore) GetRoom(id string) (*room.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

func (m *MemoryStore) SaveRoom(r *room.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.rooms[r.ID]; ok && existing != r {
		return ErrRoomIDTaken
	}
	m.rooms[r.ID] = r
	return nil
}

func (m *MemoryStore) DeleteRoom(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
}

func (m *MemoryStore) BindPlayer(playerID, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[playerID] = roomID
}

func (m *MemoryStore) PlayerRoom(playerID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.players[playerID]
	return id, ok
}

func (m *MemoryStore) UnbindPlayer(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, playerID)
}

// Counts reports live rooms and bound players, for the stats endpoint.
func (m *MemoryStore) Counts() (rooms, players int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms), len(m.players)
}
