package room

import (
	"errors"
	"log"
	"time"

	"number-duel/internal/config"
	"number-duel/internal/game"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrWrongPlayerCount = errors.New("wrong player count")
	ErrInvalidPlay      = errors.New("invalid play")
	ErrGameStarted      = errors.New("game already started")
)

// Store is the registry the manager mutates rooms through. Injected so
// the engine never reaches for a process-wide singleton.
type Store interface {
	GetRoom(id string) (*Room, bool)
	SaveRoom(r *Room) error
	DeleteRoom(id string)
	BindPlayer(playerID, roomID string)
	PlayerRoom(playerID string) (string, bool)
	UnbindPlayer(playerID string)
}

// Manager is the game engine: every client action enters here, and
// every successful mutation leaves as events through the dispatcher.
type Manager struct {
	store    Store
	cfg      *config.Config
	dispatch *Dispatcher
}

func NewManager(s Store, cfg *config.Config, d *Dispatcher) *Manager {
	return &Manager{store: s, cfg: cfg, dispatch: d}
}

const createAttempts = 5

// allocRoom generates ids until the store accepts one. The id space
// makes collisions negligible but the store still enforces uniqueness.
func (m *Manager) allocRoom(isAIGame bool, difficulty game.Difficulty) (*Room, error) {
	for i := 0; i < createAttempts; i++ {
		r := NewRoom(NewRoomID(), isAIGame, difficulty)
		if err := m.store.SaveRoom(r); err == nil {
			return r, nil
		}
	}
	return nil, errors.New("could not allocate a unique room id")
}

func ensureIdentity(playerID, playerName string) (string, string) {
	if playerID == "" {
		playerID = uuid.NewString()
	}
	if playerName == "" {
		playerName = "Player"
	}
	return playerID, playerName
}

// CreateRoom opens a two-human room and seats the creator as player1.
func (m *Manager) CreateRoom(playerID, playerName string) (*Room, *Player, error) {
	playerID, playerName = ensureIdentity(playerID, playerName)
	r, err := m.allocRoom(false, "")
	if err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	p := Player{ID: playerID, Name: playerName, Position: game.SeatPlayer1}
	r.Players = append(r.Players, p)
	m.store.BindPlayer(playerID, r.ID)
	m.dispatch.Send(playerID, newEvent(EventRoomCreated, map[string]any{
		"roomId": r.ID,
		"player": p,
		"room":   r.summary(),
	}))
	snap := r.snapshot()
	r.mu.Unlock()

	log.Printf("room %s created by %s", snap.ID, playerID)
	return snap, &p, nil
}

// CreateAIRoom opens a room against the machine opponent. AI games
// start immediately: there is nobody else to wait for.
func (m *Manager) CreateAIRoom(playerID, playerName string, difficulty game.Difficulty) (*Room, *Player, error) {
	playerID, playerName = ensureIdentity(playerID, playerName)
	r, err := m.allocRoom(true, difficulty)
	if err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	p := Player{ID: playerID, Name: playerName, Position: game.SeatPlayer1}
	r.Players = append(r.Players, p)
	m.store.BindPlayer(playerID, r.ID)
	if err := m.startLocked(r); err != nil {
		r.mu.Unlock()
		return nil, nil, err
	}
	m.dispatch.Send(playerID, newEvent(EventAIGameStarted, map[string]any{
		"roomId": r.ID,
		"player": p,
		"room":   r.summary(),
	}))
	snap := r.snapshot()
	r.mu.Unlock()

	log.Printf("ai room %s (%s) created by %s", snap.ID, difficulty, playerID)
	return snap, &p, nil
}

// JoinRoom seats a player in an existing room. Joining a room you are
// already seated in returns your existing seat instead of burning the
// second one.
func (m *Manager) JoinRoom(roomID, playerID, playerName string) (*Room, *Player, error) {
	playerID, playerName = ensureIdentity(playerID, playerName)
	r, ok := m.store.GetRoom(roomID)
	if !ok {
		return nil, nil, ErrRoomNotFound
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, nil, ErrRoomNotFound
	}
	if existing := r.player(playerID); existing != nil {
		p := *existing
		snap := r.snapshot()
		r.mu.Unlock()
		return snap, &p, nil
	}
	if len(r.Players) >= 2 {
		r.mu.Unlock()
		return nil, nil, ErrRoomFull
	}
	seat := game.SeatPlayer1
	if len(r.Players) == 1 {
		seat = game.SeatPlayer2
	}
	p := Player{ID: playerID, Name: playerName, Position: seat}
	r.Players = append(r.Players, p)
	m.store.BindPlayer(playerID, r.ID)

	m.dispatch.Send(playerID, newEvent(EventJoinedRoom, map[string]any{
		"roomId": r.ID,
		"player": p,
		"room":   r.summary(),
	}))
	m.dispatch.Notify(r, playerID, newEvent(EventPlayerJoined, map[string]any{
		"player": p,
		"room":   r.summary(),
	}))
	snap := r.snapshot()
	r.mu.Unlock()

	return snap, &p, nil
}

// StartGame moves a waiting room into play once the seat count matches
// the game type.
func (m *Manager) StartGame(roomID string) (*Room, error) {
	r, ok := m.store.GetRoom(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if err := m.startLocked(r); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	snap := r.snapshot()
	m.dispatch.Notify(r, "", newEvent(EventGameStarted, map[string]any{
		"room": snap,
	}))
	r.mu.Unlock()
	return snap, nil
}

// startLocked holds the waiting->playing transition. The AI opponent
// takes its seat here, not at room creation. Caller holds r.mu.
func (m *Manager) startLocked(r *Room) error {
	if r.State != StateWaiting {
		return ErrGameStarted
	}
	if r.IsAIGame && len(r.Players) != 1 {
		return ErrWrongPlayerCount
	}
	if !r.IsAIGame && len(r.Players) != 2 {
		return ErrWrongPlayerCount
	}
	r.resetGame()
	r.State = StatePlaying
	r.CurrentRound = 1
	if r.IsAIGame {
		r.Players = append(r.Players, Player{
			ID:       AIPlayerID,
			Name:     "AI",
			Position: game.SeatPlayer2,
			IsAI:     true,
		})
	}
	return nil
}

// PlayCard commits a card for the seat owned by playerID. A successful
// commit either arms the deferred AI move or, with both seats filled,
// resolves the round in the same critical section.
func (m *Manager) PlayCard(roomID, playerID string, card int) error {
	r, ok := m.store.GetRoom(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// the room may have been torn down between fetch and lock
	if r.closed {
		return ErrRoomNotFound
	}
	if err := r.commitPlay(playerID, card); err != nil {
		return err
	}
	m.dispatch.Notify(r, "", newEvent(EventCardPlayed, map[string]any{
		"playerId":    playerID,
		"card":        card,
		"currentPlay": r.currentPlaySnapshot(),
		"cards":       r.cardsSnapshot(),
	}))

	if r.IsAIGame && r.CurrentPlay[game.SeatPlayer1] != nil && r.CurrentPlay[game.SeatPlayer2] == nil {
		m.scheduleAIMoveLocked(r)
		return nil
	}
	m.evaluateLocked(r)
	return nil
}

// commitPlay validates and records a single play. All-or-nothing: any
// failed check leaves the room untouched.
func (r *Room) commitPlay(playerID string, card int) error {
	if r.State != StatePlaying {
		return ErrInvalidPlay
	}
	p := r.player(playerID)
	if p == nil {
		return ErrInvalidPlay
	}
	seat := p.Position
	if r.CurrentPlay[seat] != nil {
		return ErrInvalidPlay
	}
	hand := r.Cards[seat]
	idx := -1
	for i, v := range hand {
		if v == card {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrInvalidPlay
	}
	r.Cards[seat] = append(hand[:idx], hand[idx+1:]...)
	c := card
	r.CurrentPlay[seat] = &c
	return nil
}

// evaluateLocked resolves the round when both seats have committed.
// Clearing the plays in the same critical section as the score update
// is what makes double-evaluation impossible. Caller holds r.mu.
func (m *Manager) evaluateLocked(r *Room) {
	p1 := r.CurrentPlay[game.SeatPlayer1]
	p2 := r.CurrentPlay[game.SeatPlayer2]
	if p1 == nil || p2 == nil {
		return
	}

	winner, reason := game.Resolve(*p1, *p2)
	result := RoundResult{
		Round:       r.CurrentRound,
		Player1Card: *p1,
		Player2Card: *p2,
		Winner:      winner,
		Reason:      reason,
	}
	r.RoundResults = append(r.RoundResults, result)
	// ties stay in the history but score nothing
	if winner != game.SeatTie {
		r.Scores[winner]++
	}
	r.CurrentPlay[game.SeatPlayer1] = nil
	r.CurrentPlay[game.SeatPlayer2] = nil
	r.CurrentRound++
	if r.CurrentRound > r.MaxRounds {
		r.State = StateFinished
	}

	scores := map[game.Seat]int{}
	for seat, s := range r.Scores {
		scores[seat] = s
	}
	m.dispatch.Notify(r, "", newEvent(EventRoundResult, map[string]any{
		"result":       result,
		"scores":       scores,
		"currentRound": r.CurrentRound,
		"gameState":    r.State,
	}))

	if r.State == StateFinished {
		m.dispatch.Notify(r, "", newEvent(EventGameFinished, map[string]any{
			"result": r.gameResult(),
		}))
	}
}

// gameResult builds the aggregate outcome. Winner is decided by total
// score only, never by the last round. Caller holds r.mu.
func (r *Room) gameResult() *GameResult {
	s1 := r.Scores[game.SeatPlayer1]
	s2 := r.Scores[game.SeatPlayer2]
	winner := game.SeatTie
	if s1 > s2 {
		winner = game.SeatPlayer1
	} else if s2 > s1 {
		winner = game.SeatPlayer2
	}
	return &GameResult{
		Winner: winner,
		Scores: map[game.Seat]int{game.SeatPlayer1: s1, game.SeatPlayer2: s2},
		Rounds: append([]RoundResult(nil), r.RoundResults...),
	}
}

// GameResult returns the outcome of a finished duel, or nil while the
// game is still in progress.
func (m *Manager) GameResult(roomID string) (*GameResult, error) {
	r, ok := m.store.GetRoom(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRoomNotFound
	}
	if r.State != StateFinished {
		return nil, nil
	}
	return r.gameResult(), nil
}

// scheduleAIMoveLocked arms the deferred AI play for the current round.
// The closure carries only the room id and the round it was armed for;
// everything else is re-validated when the timer fires. Caller holds
// r.mu.
func (m *Manager) scheduleAIMoveLocked(r *Room) {
	if r.aiTimer != nil {
		return
	}
	roomID := r.ID
	round := r.CurrentRound
	r.aiTimer = time.AfterFunc(m.cfg.AIDelay(), func() {
		m.runAIMove(roomID, round)
	})
}

// runAIMove executes a deferred AI play. The room is re-fetched and the
// arming preconditions re-checked: the opponent may have left or the
// round may have moved on while the timer was pending.
func (m *Manager) runAIMove(roomID string, round int) {
	r, ok := m.store.GetRoom(roomID)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.aiTimer = nil
	if r.closed || r.State != StatePlaying || r.CurrentRound != round {
		return
	}
	if r.CurrentPlay[game.SeatPlayer1] == nil || r.CurrentPlay[game.SeatPlayer2] != nil {
		return
	}

	card, ok := game.ChooseCard(r.Cards[game.SeatPlayer2], r.AIDifficulty)
	if !ok {
		return
	}
	if err := r.commitPlay(AIPlayerID, card); err != nil {
		log.Printf("ai move rejected in room %s: %v", roomID, err)
		return
	}
	m.dispatch.Notify(r, "", newEvent(EventCardPlayed, map[string]any{
		"playerId":    AIPlayerID,
		"card":        card,
		"currentPlay": r.currentPlaySnapshot(),
		"cards":       r.cardsSnapshot(),
	}))
	m.evaluateLocked(r)
}

// Leave removes the player from their room, cancels any pending AI
// move and deletes the room once no humans remain. Unknown players are
// a no-op: disconnects can race with cleanup.
func (m *Manager) Leave(playerID string) {
	roomID, ok := m.store.PlayerRoom(playerID)
	m.store.UnbindPlayer(playerID)
	if !ok {
		return
	}
	r, ok := m.store.GetRoom(roomID)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.Players {
		if r.Players[i].ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	humans := 0
	for _, p := range r.Players {
		if !p.IsAI {
			humans++
		}
	}
	if humans == 0 {
		r.cancelAIMove()
		r.closed = true
		m.store.DeleteRoom(r.ID)
		log.Printf("room %s deleted", r.ID)
		return
	}
	m.dispatch.Notify(r, "", newEvent(EventPlayerLeft, map[string]any{
		"playerId": playerID,
		"room":     r.summary(),
	}))
}

// RoomSnapshot returns a deep copy of the room, safe to read without
// coordination.
func (m *Manager) RoomSnapshot(roomID string) (*Room, bool) {
	r, ok := m.store.GetRoom(roomID)
	if !ok {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, false
	}
	return r.snapshot(), true
}
