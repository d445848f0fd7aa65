package game_test

import (
	"fmt"
	"testing"

	"number-duel/internal/game"

	"github.com/stretchr/testify/assert"
)

func TestResolveUpset(t *testing.T) {
	winner, reason := game.Resolve(1, 9)
	assert.Equal(t, game.SeatPlayer1, winner)
	assert.Equal(t, "1 beats 9", reason)

	winner, reason = game.Resolve(9, 1)
	assert.Equal(t, game.SeatPlayer2, winner)
	assert.Equal(t, "1 beats 9", reason)
}

func TestResolveEqualCardsDraw(t *testing.T) {
	for v := game.MinCard; v <= game.MaxCard; v++ {
		winner, reason := game.Resolve(v, v)
		assert.Equal(t, game.SeatTie, winner, "cards %d vs %d", v, v)
		assert.Equal(t, "draw", reason)
	}
}

// Every non-upset pair follows numeric order, and swapping the cards
// swaps the winner.
func TestResolveTotalOrder(t *testing.T) {
	for a := game.MinCard; a <= game.MaxCard; a++ {
		for b := game.MinCard; b <= game.MaxCard; b++ {
			winner, reason := game.Resolve(a, b)
			assert.NotEmpty(t, reason)

			if (a == 1 && b == 9) || (a == 9 && b == 1) {
				continue
			}
			switch {
			case a > b:
				assert.Equal(t, game.SeatPlayer1, winner, "%d vs %d", a, b)
				assert.Equal(t, fmt.Sprintf("%d > %d", a, b), reason)
			case b > a:
				assert.Equal(t, game.SeatPlayer2, winner, "%d vs %d", a, b)
				assert.Equal(t, fmt.Sprintf("%d > %d", b, a), reason)
			default:
				assert.Equal(t, game.SeatTie, winner)
			}

			// antisymmetry
			swapped, _ := game.Resolve(b, a)
			switch winner {
			case game.SeatPlayer1:
				assert.Equal(t, game.SeatPlayer2, swapped)
			case game.SeatPlayer2:
				assert.Equal(t, game.SeatPlayer1, swapped)
			default:
				assert.Equal(t, game.SeatTie, swapped)
			}
		}
	}
}

func TestFullHand(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, game.FullHand())
}
