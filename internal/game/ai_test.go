package game_test

import (
	"testing"

	"number-duel/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    game.Difficulty
		wantErr bool
	}{
		{"easy", game.DifficultyEasy, false},
		{"normal", game.DifficultyNormal, false},
		{"hard", game.DifficultyHard, false},
		{"", game.DifficultyNormal, false},
		{"nightmare", "", true},
	}
	for _, tt := range tests {
		got, err := game.ParseDifficulty(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
		} else {
			require.NoError(t, err, "input %q", tt.in)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestChooseCardEmptyHand(t *testing.T) {
	for _, d := range []game.Difficulty{game.DifficultyEasy, game.DifficultyNormal, game.DifficultyHard} {
		_, ok := game.ChooseCard(nil, d)
		assert.False(t, ok)
	}
}

// Whatever the difficulty, the chosen card must come from the hand.
func TestChooseCardStaysInHand(t *testing.T) {
	hand := []int{2, 4, 7, 9}
	inHand := map[int]bool{2: true, 4: true, 7: true, 9: true}

	for _, d := range []game.Difficulty{game.DifficultyEasy, game.DifficultyNormal, game.DifficultyHard} {
		for i := 0; i < 500; i++ {
			card, ok := game.ChooseCard(hand, d)
			require.True(t, ok)
			require.True(t, inHand[card], "difficulty %s chose %d", d, card)
		}
	}
	// the hand itself must not be reordered by strategy sorting
	assert.Equal(t, []int{2, 4, 7, 9}, hand)
}

func TestChooseCardSingleCard(t *testing.T) {
	for _, d := range []game.Difficulty{game.DifficultyEasy, game.DifficultyNormal, game.DifficultyHard} {
		card, ok := game.ChooseCard([]int{5}, d)
		require.True(t, ok)
		assert.Equal(t, 5, card)
	}
}

// Hard mixes 50% uniform with 50% top-3, so over a full hand the top
// three cards should be chosen well over the uniform 1/3 of the time
// (expected share is about 2/3). Statistical, hence the loose bound.
func TestHardSkewsTowardHighCards(t *testing.T) {
	hand := game.FullHand()
	const samples = 3000

	high := 0
	for i := 0; i < samples; i++ {
		card, ok := game.ChooseCard(hand, game.DifficultyHard)
		require.True(t, ok)
		if card >= 7 {
			high++
		}
	}
	share := float64(high) / samples
	assert.Greater(t, share, 0.5, "top-3 share %.3f", share)
	assert.Less(t, share, 0.85, "top-3 share %.3f", share)
}

// Normal's 30% branch stays inside the middle window, so mid cards end
// up overrepresented relative to uniform.
func TestNormalFavorsMiddleCards(t *testing.T) {
	hand := game.FullHand()
	const samples = 3000

	mid := 0
	for i := 0; i < samples; i++ {
		card, ok := game.ChooseCard(hand, game.DifficultyNormal)
		require.True(t, ok)
		if card >= 4 && card <= 6 {
			mid++
		}
	}
	// expected share: 0.7*(3/9) + 0.3*1 = 0.533
	share := float64(mid) / samples
	assert.Greater(t, share, 0.42, "middle share %.3f", share)
}
