package entity

import "time"

// Team представляет команду участников в рамках одной игры
type Team struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"size:100;not null" json:"name"`
	GameID    uint         `gorm:"not null;index" json:"game_id"`
	Game      *Game        `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Points    int          `gorm:"not null;default:0" json:"points"`
	Members   []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Team) TableName() string {
	return "teams"
}

// HasMember проверяет, состоит ли пользователь в команде.
// Требует предзагруженного Members.
func (t *Team) HasMember(userID uint) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// TeamMember связывает пользователя с командой.
// Уникальный индекс (game_id, user_id) гарантирует не более одной команды на пользователя в игре.
type TeamMember struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	TeamID   uint      `gorm:"not null;index" json:"team_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_team_members_game_user,priority:2" json:"user_id"`
	GameID   uint      `gorm:"not null;uniqueIndex:idx_team_members_game_user,priority:1" json:"game_id"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
}

// TableName определяет имя таблицы для GORM
func (TeamMember) TableName() string {
	return "team_members"
}

// ScoreboardEntry - строка таблицы результатов игры
type ScoreboardEntry struct {
	TeamID         uint   `json:"team_id"`
	Name           string `json:"name"`
	Points         int    `json:"points"`
	CompletedTasks int64  `json:"completed_tasks"`
	MemberCount    int64  `json:"member_count"`
}
