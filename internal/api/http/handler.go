package http

import (
	"errors"
	"net/http"
	"time"

	"number-duel/internal/game"
	"number-duel/internal/room"
	"number-duel/internal/store"

	"github.com/gin-gonic/gin"
)

func errStatus(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrRoomFull), errors.Is(err, room.ErrGameStarted):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{"success": false, "error": err.Error()})
}

// GameActionHandler routes the transport-agnostic game actions. The
// same action names and payload shapes are understood by the socket and
// relay transports.
// @Summary Execute a game action
// @Description Actions: create_room, create_ai_room, join_room, start_game, play_card, leave_room
// @Tags Game
// @Accept json
// @Produce json
// @Param action path string true "Action name"
// @Param request body ActionRequest true "Action payload"
// @Success 200 {object} map[string]interface{}
// @Router /game/{action} [post]
func GameActionHandler(m *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := c.Param("action")
		var req ActionRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
			return
		}

		switch action {
		case "create_room":
			r, p, err := m.CreateRoom(req.PlayerID, req.PlayerName)
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"success":  true,
				"playerId": p.ID,
				"roomId":   r.ID,
				"player":   p,
				"room":     r,
			})

		case "create_ai_room":
			difficulty, err := game.ParseDifficulty(req.Difficulty)
			if err != nil {
				fail(c, err)
				return
			}
			r, p, err := m.CreateAIRoom(req.PlayerID, req.PlayerName, difficulty)
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"success":  true,
				"playerId": p.ID,
				"roomId":   r.ID,
				"player":   p,
				"room":     r,
			})

		case "join_room":
			r, p, err := m.JoinRoom(req.RoomID, req.PlayerID, req.PlayerName)
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"success":  true,
				"playerId": p.ID,
				"roomId":   r.ID,
				"player":   p,
				"room":     r,
			})

		case "start_game":
			if _, err := m.StartGame(req.RoomID); err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true})

		case "play_card":
			if err := m.PlayCard(req.RoomID, req.PlayerID, req.Card); err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true})

		case "leave_room":
			m.Leave(req.PlayerID)
			c.JSON(http.StatusOK, gin.H{"success": true})

		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "unknown action"})
		}
	}
}

// PollHandler drains the caller's event queue.
// @Summary Poll pending events
// @Tags Game
// @Produce json
// @Param playerId path string true "Player ID"
// @Success 200 {object} map[string]interface{}
// @Router /poll/{playerId} [get]
func PollHandler(queue *PollQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.Param("playerId")
		c.JSON(http.StatusOK, gin.H{
			"events":    queue.Drain(playerID),
			"timestamp": time.Now().UnixMilli(),
		})
	}
}

// StatsHandler reports live room and player counts.
// @Summary Server stats
// @Tags Ops
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /stats [get]
func StatsHandler(st *store.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, players := st.Counts()
		c.JSON(http.StatusOK, gin.H{"rooms": rooms, "players": players})
	}
}
