package room

import (
	"math/rand"
	"sync"
	"time"

	"number-duel/internal/game"
)

// GameState is the per-room lifecycle phase. Transitions only ever move
// forward: waiting -> playing -> finished.
type GameState string

const (
	StateWaiting  GameState = "waiting"
	StatePlaying  GameState = "playing"
	StateFinished GameState = "finished"
)

// MaxRounds is the fixed length of a duel: one round per card in hand.
const MaxRounds = 9

// AIPlayerID is the well-known id of the machine opponent.
const AIPlayerID = "ai_player"

type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Position game.Seat `json:"position"`
	IsAI     bool      `json:"isAI,omitempty"`
}

// RoundResult records one resolved round. Immutable once appended.
type RoundResult struct {
	Round       int       `json:"round"`
	Player1Card int       `json:"player1Card"`
	Player2Card int       `json:"player2Card"`
	Winner      game.Seat `json:"winner"`
	Reason      string    `json:"reason"`
}

// GameResult is the aggregate outcome of a finished duel.
type GameResult struct {
	Winner game.Seat         `json:"winner"`
	Scores map[game.Seat]int `json:"scores"`
	Rounds []RoundResult     `json:"rounds"`
}

// Room owns all mutable state of one duel. Every engine operation runs
// as a critical section under mu; nothing outside this package touches
// the fields of a live room directly.
type Room struct {
	ID           string              `json:"id"`
	Players      []Player            `json:"players"`
	State        GameState           `json:"gameState"`
	CurrentRound int                 `json:"currentRound"`
	MaxRounds    int                 `json:"maxRounds"`
	Scores       map[game.Seat]int   `json:"scores"`
	Cards        map[game.Seat][]int `json:"cards"`
	CurrentPlay  map[game.Seat]*int  `json:"currentPlay"`
	RoundResults []RoundResult       `json:"roundResults"`
	IsAIGame     bool                `json:"isAIGame"`
	AIDifficulty game.Difficulty     `json:"aiDifficulty,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`

	mu      sync.Mutex
	aiTimer *time.Timer
	closed  bool // set when the room is deleted; stale timers check it
}

// cancelAIMove stops a pending deferred AI play, if any. Caller holds
// mu. A timer that already fired blocks on mu and bails out on the
// closed flag or the revalidation checks.
func (r *Room) cancelAIMove() {
	if r.aiTimer != nil {
		r.aiTimer.Stop()
		r.aiTimer = nil
	}
}

// NewRoom builds a room in the waiting state with full hands dealt.
func NewRoom(id string, isAIGame bool, difficulty game.Difficulty) *Room {
	r := &Room{
		ID:        id,
		State:     StateWaiting,
		MaxRounds: MaxRounds,
		IsAIGame:  isAIGame,
		CreatedAt: time.Now(),
	}
	if isAIGame {
		r.AIDifficulty = difficulty
	}
	r.resetGame()
	return r
}

// resetGame reinitializes every per-game counter. Caller holds mu (or
// owns the room exclusively, as NewRoom does).
func (r *Room) resetGame() {
	r.Scores = map[game.Seat]int{game.SeatPlayer1: 0, game.SeatPlayer2: 0}
	r.Cards = map[game.Seat][]int{
		game.SeatPlayer1: game.FullHand(),
		game.SeatPlayer2: game.FullHand(),
	}
	r.CurrentPlay = map[game.Seat]*int{game.SeatPlayer1: nil, game.SeatPlayer2: nil}
	r.RoundResults = nil
	r.CurrentRound = 0
}

// player returns the seated player with the given id, or nil.
func (r *Room) player(id string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// summary is the compact room view carried by lobby-phase events.
func (r *Room) summary() map[string]any {
	s := map[string]any{
		"players":   append([]Player(nil), r.Players...),
		"gameState": r.State,
	}
	if r.IsAIGame {
		s["isAIGame"] = true
		s["aiDifficulty"] = r.AIDifficulty
	}
	return s
}

// snapshot deep-copies the room so event payloads and callers outside
// the critical section never alias live state.
func (r *Room) snapshot() *Room {
	cp := &Room{
		ID:           r.ID,
		Players:      append([]Player(nil), r.Players...),
		State:        r.State,
		CurrentRound: r.CurrentRound,
		MaxRounds:    r.MaxRounds,
		Scores:       map[game.Seat]int{},
		Cards:        map[game.Seat][]int{},
		CurrentPlay:  map[game.Seat]*int{},
		RoundResults: append([]RoundResult(nil), r.RoundResults...),
		IsAIGame:     r.IsAIGame,
		AIDifficulty: r.AIDifficulty,
		CreatedAt:    r.CreatedAt,
	}
	for seat, score := range r.Scores {
		cp.Scores[seat] = score
	}
	for seat, hand := range r.Cards {
		cp.Cards[seat] = append([]int(nil), hand...)
	}
	for seat, play := range r.CurrentPlay {
		if play == nil {
			cp.CurrentPlay[seat] = nil
			continue
		}
		v := *play
		cp.CurrentPlay[seat] = &v
	}
	return cp
}

// currentPlaySnapshot copies just the committed plays for event payloads.
func (r *Room) currentPlaySnapshot() map[game.Seat]*int {
	out := map[game.Seat]*int{}
	for seat, play := range r.CurrentPlay {
		if play == nil {
			out[seat] = nil
			continue
		}
		v := *play
		out[seat] = &v
	}
	return out
}

// cardsSnapshot copies the remaining hands for event payloads.
func (r *Room) cardsSnapshot() map[game.Seat][]int {
	out := map[game.Seat][]int{}
	for seat, hand := range r.Cards {
		out[seat] = append([]int(nil), hand...)
	}
	return out
}

// roomIDLetters deliberately omits easily confused characters.
const roomIDLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewRoomID generates a short join token. Uniqueness is enforced by the
// store at insertion time, not here.
func NewRoomID() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = roomIDLetters[rand.Intn(len(roomIDLetters))]
	}
	return string(b)
}
