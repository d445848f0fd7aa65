// Terminal client: a local duel against the AI, driven through the same
// engine the server uses. Pass a difficulty (easy|normal|hard) as the
// first argument.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"number-duel/internal/config"
	"number-duel/internal/game"
	"number-duel/internal/room"
	"number-duel/internal/store"
)

// consoleSink funnels game events into the main loop.
type consoleSink struct {
	events chan room.Event
}

func (s *consoleSink) Deliver(playerID string, ev room.Event) error {
	select {
	case s.events <- ev:
	default:
	}
	return nil
}

func main() {
	difficulty := game.DifficultyNormal
	if len(os.Args) > 1 {
		d, err := game.ParseDifficulty(os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
		difficulty = d
	}

	cfg := config.Load()
	cfg.SetAIDelayMS(600)

	sink := &consoleSink{events: make(chan room.Event, 64)}
	mgr := room.NewManager(store.NewMemoryStore(), cfg, room.NewDispatcher(sink))

	r, p, err := mgr.CreateAIRoom("", "You", difficulty)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Duel %s against the %s AI. One card per round, higher wins, 1 beats 9.\n", r.ID, difficulty)

	reader := bufio.NewReader(os.Stdin)
	for {
		snap, ok := mgr.RoomSnapshot(r.ID)
		if !ok || snap.State == room.StateFinished {
			break
		}

		hand := snap.Cards[game.SeatPlayer1]
		fmt.Printf("\nRound %d — your hand: %v\n", snap.CurrentRound, hand)
		card := readCard(reader, hand)
		if err := mgr.PlayCard(r.ID, p.ID, card); err != nil {
			fmt.Println("Invalid play:", err)
			continue
		}
		waitForRound(sink.events)
	}

	result, err := mgr.GameResult(r.ID)
	if err != nil || result == nil {
		return
	}
	fmt.Printf("\nGame over: %s (%d-%d)\n",
		outcomeLabel(result.Winner),
		result.Scores[game.SeatPlayer1],
		result.Scores[game.SeatPlayer2])
}

func readCard(reader *bufio.Reader, hand []int) int {
	for {
		fmt.Print("> ")
		line, _ := reader.ReadString('\n')
		card, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("Enter a card number from your hand.")
			continue
		}
		for _, v := range hand {
			if v == card {
				return card
			}
		}
		fmt.Printf("Card %d is not in your hand.\n", card)
	}
}

// waitForRound drains events until the round resolves.
func waitForRound(events chan room.Event) {
	for ev := range events {
		switch ev.Kind() {
		case room.EventCardPlayed:
			if id, _ := ev["playerId"].(string); id == room.AIPlayerID {
				fmt.Printf("AI plays %v\n", ev["card"])
			}
		case room.EventRoundResult:
			result, ok := ev["result"].(room.RoundResult)
			if !ok {
				return
			}
			fmt.Printf("Round %d: %s (%s)\n", result.Round, outcomeLabel(result.Winner), result.Reason)
			return
		case room.EventGameFinished:
			return
		}
	}
}

func outcomeLabel(winner game.Seat) string {
	switch winner {
	case game.SeatPlayer1:
		return "you win"
	case game.SeatPlayer2:
		return "AI wins"
	default:
		return "draw"
	}
}
