package ws

import (
	"number-duel/internal/game"
	"number-duel/internal/room"
)

// Engine is the subset of the room manager the hub drives.
type Engine interface {
	CreateRoom(playerID, playerName string) (*room.Room, *room.Player, error)
	CreateAIRoom(playerID, playerName string, difficulty game.Difficulty) (*room.Room, *room.Player, error)
	JoinRoom(roomID, playerID, playerName string) (*room.Room, *room.Player, error)
	StartGame(roomID string) (*room.Room, error)
	PlayCard(roomID, playerID string, card int) error
	Leave(playerID string)
}
