package entity

import "time"

// Reflection - ответ команды на рефлексивный вопрос после игры.
// Уникален по (game_id, team_id, question).
type Reflection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_reflections_game_team_question,priority:1" json:"game_id"`
	Game      *Game     `gorm:"foreignKey:GameID" json:"game,omitempty"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_reflections_game_team_question,priority:2;index" json:"team_id"`
	Team      *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Question  string    `gorm:"size:500;not null;uniqueIndex:idx_reflections_game_team_question,priority:3" json:"question"`
	Answer    string    `gorm:"type:text;not null;default:''" json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Reflection) TableName() string {
	return "reflections"
}
