package dto

import (
	"time"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// ReflectionResponse представляет рефлексию в ответе клиенту
type ReflectionResponse struct {
	ID        uint      `json:"id"`
	GameID    uint      `json:"game_id"`
	TeamID    uint      `json:"team_id"`
	TeamName  string    `json:"team_name,omitempty"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReflectionResponse создает DTO рефлексии
func NewReflectionResponse(r *entity.Reflection) ReflectionResponse {
	var resp ReflectionResponse
	_ = copyFields(&resp, r, "reflection")
	if r.Team != nil {
		resp.TeamName = r.Team.Name
	}
	return resp
}

// NewReflectionListResponse создает список DTO рефлексий
func NewReflectionListResponse(reflections []entity.Reflection) []ReflectionResponse {
	resp := make([]ReflectionResponse, 0, len(reflections))
	for i := range reflections {
		resp = append(resp, NewReflectionResponse(&reflections[i]))
	}
	return resp
}
