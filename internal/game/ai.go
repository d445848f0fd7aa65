package game

import (
	"fmt"
	"math/rand"
	"sort"
)

// Difficulty selects an AI strategy.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a client-supplied string onto a known
// difficulty. The empty string falls back to normal.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return Difficulty(s), nil
	case "":
		return DifficultyNormal, nil
	default:
		return "", fmt.Errorf("unknown difficulty: %q", s)
	}
}

// strategy picks a card from a non-empty hand.
type strategy func(hand []int) int

var strategies = map[Difficulty]strategy{
	DifficultyEasy:   chooseRandom,
	DifficultyNormal: chooseNormal,
	DifficultyHard:   chooseHard,
}

// ChooseCard picks a card from the remaining hand using the strategy
// for d. ok is false only when the hand is empty, which cannot happen
// mid-game. Strategies are stateless; the only input besides the hand
// is process-wide entropy.
func ChooseCard(hand []int, d Difficulty) (card int, ok bool) {
	if len(hand) == 0 {
		return 0, false
	}
	pick, known := strategies[d]
	if !known {
		pick = chooseRandom
	}
	return pick(hand), true
}

func chooseRandom(hand []int) int {
	return hand[rand.Intn(len(hand))]
}

// chooseNormal plays randomly 70% of the time; otherwise it picks one
// of the 2-3 cards nearest the middle of the sorted remaining hand.
func chooseNormal(hand []int) int {
	if rand.Float64() < 0.7 {
		return chooseRandom(hand)
	}
	sorted := sortedCopy(hand)
	mid := len(sorted) / 2
	lo, hi := mid-1, mid+1
	if lo < 0 {
		lo = 0
	}
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	return sorted[lo+rand.Intn(hi-lo+1)]
}

// chooseHard plays randomly half the time; otherwise it picks one of
// the three highest remaining cards.
func chooseHard(hand []int) int {
	if rand.Float64() < 0.5 {
		return chooseRandom(hand)
	}
	sorted := sortedCopy(hand)
	n := 3
	if n > len(sorted) {
		n = len(sorted)
	}
	top := sorted[len(sorted)-n:]
	return top[rand.Intn(len(top))]
}

func sortedCopy(hand []int) []int {
	out := append([]int(nil), hand...)
	sort.Ints(out)
	return out
}
