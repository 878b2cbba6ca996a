package websocket

// Типы сообщений
const (
	// TypeScoreboardUpdate сообщает об изменении таблицы результатов игры
	TypeScoreboardUpdate = "scoreboard_update"
)

// Message - конверт всех исходящих сообщений
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ScoreboardUpdate - содержимое сообщения scoreboard_update
type ScoreboardUpdate struct {
	GameID uint        `json:"game_id"`
	Teams  interface{} `json:"teams"`
}
