package dto

import (
	"time"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// TeamMemberResponse - участник команды
type TeamMemberResponse struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// TeamResponse представляет команду в ответе клиенту
type TeamResponse struct {
	ID        uint                 `json:"id"`
	Name      string               `json:"name"`
	GameID    uint                 `json:"game_id"`
	GameTitle string               `json:"game_title,omitempty"`
	Points    int                  `json:"points"`
	Members   []TeamMemberResponse `json:"members"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewTeamResponse создает DTO команды
func NewTeamResponse(team *entity.Team) TeamResponse {
	var resp TeamResponse
	_ = copyFields(&resp, team, "team")
	if team.Game != nil {
		resp.GameTitle = team.Game.Title
	}
	resp.Members = make([]TeamMemberResponse, 0, len(team.Members))
	for _, m := range team.Members {
		member := TeamMemberResponse{UserID: m.UserID, JoinedAt: m.JoinedAt}
		if m.User != nil {
			member.Username = m.User.Username
		}
		resp.Members = append(resp.Members, member)
	}
	return resp
}

// NewTeamListResponse создает список DTO команд
func NewTeamListResponse(teams []entity.Team) []TeamResponse {
	resp := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		resp = append(resp, NewTeamResponse(&teams[i]))
	}
	return resp
}
