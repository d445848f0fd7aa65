package http

import (
	"number-duel/internal/api/ws"
	"number-duel/internal/config"
	"number-duel/internal/room"
	"number-duel/internal/store"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every HTTP-reachable surface: game actions, polling,
// the websocket upgrade and the ops endpoints. gin's recovery
// middleware turns handler panics into plain 500s, so a bad request can
// never take the process down.
func NewRouter(m *room.Manager, st *store.MemoryStore, cfg *config.Config, hub *ws.Hub, queue *PollQueue) *gin.Engine {
	r := gin.Default()

	// socket transport
	r.GET("/ws", hub.HandleWS)

	// polling transport
	r.POST("/game/:action", GameActionHandler(m))
	r.GET("/poll/:playerId", PollHandler(queue))

	// ops
	r.GET("/config/ai", GetAIConfigHandler(cfg))
	r.POST("/config/ai", UpdateAIConfigHandler(cfg))
	r.GET("/stats", StatsHandler(st))

	return r
}
