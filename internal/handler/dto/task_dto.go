package dto

import (
	"time"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// TaskResponse представляет задание в ответе клиенту
type TaskResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	GameID        uint      `json:"game_id"`
	Type          string    `json:"type"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer,omitempty"`
	RiskPoints    int       `json:"risk_points"`
	RewardPoints  int       `json:"reward_points"`
	TimeLimit     int       `json:"time_limit"`
	Category      string    `json:"category"`
	CreatedBy     uint      `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewTaskResponse создает DTO задания.
// Правильный ответ включается только при withAnswer.
func NewTaskResponse(task *entity.Task, withAnswer bool) TaskResponse {
	var resp TaskResponse
	_ = copyFields(&resp, task, "task")
	resp.Options = append([]string{}, task.Options...)
	if !withAnswer {
		resp.CorrectAnswer = ""
	}
	return resp
}

// NewTaskListResponse создает список DTO заданий
func NewTaskListResponse(tasks []entity.Task, withAnswers bool) []TaskResponse {
	resp := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, NewTaskResponse(&tasks[i], withAnswers))
	}
	return resp
}
