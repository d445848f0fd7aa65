package game

import "fmt"

// Seat identifies one of the two fixed positions in a room. SeatTie is
// only ever used as a round or game outcome, never as a position.
type Seat string

const (
	SeatPlayer1 Seat = "player1"
	SeatPlayer2 Seat = "player2"
	SeatTie     Seat = "tie"
)

const (
	MinCard = 1
	MaxCard = 9
)

// Resolve compares the two cards committed in a round and returns the
// winning seat with a human-readable reason. Comparison follows numeric
// order with one exception: 1 beats 9. Equal cards draw.
func Resolve(p1, p2 int) (Seat, string) {
	switch {
	case p1 == MinCard && p2 == MaxCard:
		return SeatPlayer1, "1 beats 9"
	case p1 == MaxCard && p2 == MinCard:
		return SeatPlayer2, "1 beats 9"
	case p1 > p2:
		return SeatPlayer1, fmt.Sprintf("%d > %d", p1, p2)
	case p2 > p1:
		return SeatPlayer2, fmt.Sprintf("%d > %d", p2, p1)
	default:
		return SeatTie, "draw"
	}
}

// FullHand returns a fresh hand holding every card value once.
func FullHand() []int {
	h := make([]int, 0, MaxCard)
	for v := MinCard; v <= MaxCard; v++ {
		h = append(h, v)
	}
	return h
}
