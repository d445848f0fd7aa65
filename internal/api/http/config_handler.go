package http

import (
	"net/http"

	"number-duel/internal/config"

	"github.com/gin-gonic/gin"
)

// GetAIConfigHandler returns the current AI tunables.
// @Summary Get AI config
// @Tags Config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /config/ai [get]
func GetAIConfigHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"aiDelayMs": cfg.AIDelayMS()})
	}
}

// UpdateAIConfigHandler changes the AI thinking delay. Applies to moves
// scheduled after the update; in-flight timers keep their old delay.
// @Summary Update AI config
// @Tags Config
// @Accept json
// @Produce json
// @Param request body UpdateAIConfigRequest true "AI tunables"
// @Success 200 {object} map[string]interface{}
// @Router /config/ai [post]
func UpdateAIConfigHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateAIConfigRequest
		if err := c.BindJSON(&req); err != nil || req.AIDelayMS == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "aiDelayMs required"})
			return
		}
		cfg.SetAIDelayMS(*req.AIDelayMS)
		c.JSON(http.StatusOK, gin.H{"success": true, "aiDelayMs": cfg.AIDelayMS()})
	}
}
