package entity

import "time"

// Game представляет игру (тренировочную сессию), к которой команды присоединяются по коду доступа
type Game struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	AccessCode  string     `gorm:"size:50;not null;uniqueIndex" json:"access_code"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	CreatedBy   uint       `gorm:"not null;index" json:"created_by"`
	Creator     *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	StartTime   time.Time  `gorm:"not null" json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Game) TableName() string {
	return "games"
}

// IsOwnedBy проверяет, создал ли пользователь эту игру
func (g *Game) IsOwnedBy(userID uint) bool {
	return g.CreatedBy == userID
}

// GameStats содержит агрегаты по игре для списков администратора и инструктора
type GameStats struct {
	GameID           uint  `json:"game_id"`
	TeamCount        int64 `json:"team_count"`
	TaskCount        int64 `json:"task_count"`
	ParticipantCount int64 `json:"participant_count"`
}
