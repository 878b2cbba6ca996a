package dto

import (
	"time"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/service"
)

// GameResponse представляет игру в ответе клиенту.
// Код доступа виден только автору игры и администратору.
type GameResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AccessCode  string     `json:"access_code,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   uint       `json:"created_by"`
	CreatorName string     `json:"creator_name,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GameListItem - игра со статистикой для списков
type GameListItem struct {
	GameResponse
	TeamCount        int64 `json:"team_count"`
	TaskCount        int64 `json:"task_count"`
	ParticipantCount int64 `json:"participant_count"`
}

// JoinGameResponse - игра и команда пользователя в ней, если есть
type JoinGameResponse struct {
	Game GameResponse  `json:"game"`
	Team *TeamResponse `json:"team"`
}

// ScoreboardResponse - таблица результатов игры
type ScoreboardResponse struct {
	GameID uint                     `json:"game_id"`
	Teams  []entity.ScoreboardEntry `json:"teams"`
}

// NewGameResponse создает DTO игры
func NewGameResponse(game *entity.Game, withAccessCode bool) GameResponse {
	var resp GameResponse
	_ = copyFields(&resp, game, "game")
	if game.Creator != nil {
		resp.CreatorName = game.Creator.Username
	}
	if !withAccessCode {
		resp.AccessCode = ""
	}
	return resp
}

// NewGameListResponse создает список игр со статистикой
func NewGameListResponse(games []service.GameWithStats) []GameListItem {
	resp := make([]GameListItem, 0, len(games))
	for i := range games {
		g := &games[i]
		resp = append(resp, GameListItem{
			GameResponse:     NewGameResponse(&g.Game, true),
			TeamCount:        g.Stats.TeamCount,
			TaskCount:        g.Stats.TaskCount,
			ParticipantCount: g.Stats.ParticipantCount,
		})
	}
	return resp
}
