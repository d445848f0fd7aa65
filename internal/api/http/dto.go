package http

// ActionRequest is the body of POST /game/:action. Fields are optional
// per action; handlers validate what they need.
type ActionRequest struct {
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Card       int    `json:"card"`
	Difficulty string `json:"difficulty"`
}

// UpdateAIConfigRequest tunes the AI thinking delay at runtime.
type UpdateAIConfigRequest struct {
	AIDelayMS *int `json:"aiDelayMs" binding:"required"`
}
