package dto

import (
	"encoding/json"
	"time"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// SubmissionResponse представляет отправку в ответе клиенту
type SubmissionResponse struct {
	ID            uint            `json:"id"`
	TaskID        uint            `json:"task_id"`
	TaskTitle     string          `json:"task_title,omitempty"`
	TaskType      string          `json:"task_type,omitempty"`
	GameID        uint            `json:"game_id,omitempty"`
	TeamID        uint            `json:"team_id"`
	TeamName      string          `json:"team_name,omitempty"`
	Answer        json.RawMessage `json:"answer"`
	FileURL       string          `json:"file_url,omitempty"`
	IsEvaluated   bool            `json:"is_evaluated"`
	IsCorrect     *bool           `json:"is_correct"`
	PointsEarned  *int            `json:"points_earned"`
	Feedback      *string         `json:"feedback,omitempty"`
	EvaluatedBy   *uint           `json:"evaluated_by,omitempty"`
	EvaluatorName string          `json:"evaluator_name,omitempty"`
	EvaluatedAt   *time.Time      `json:"evaluated_at,omitempty"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}

// NewSubmissionResponse создает DTO отправки
func NewSubmissionResponse(sub *entity.Submission) SubmissionResponse {
	var resp SubmissionResponse
	_ = copyFields(&resp, sub, "submission")
	resp.Answer = json.RawMessage(sub.Answer)
	if len(resp.Answer) == 0 {
		resp.Answer = json.RawMessage("null")
	}
	if sub.Task != nil {
		resp.TaskTitle = sub.Task.Title
		resp.TaskType = sub.Task.Type
		resp.GameID = sub.Task.GameID
	}
	if sub.Team != nil {
		resp.TeamName = sub.Team.Name
	}
	if sub.Evaluator != nil {
		resp.EvaluatorName = sub.Evaluator.Username
	}
	return resp
}

// NewSubmissionListResponse создает список DTO отправок
func NewSubmissionListResponse(subs []entity.Submission) []SubmissionResponse {
	resp := make([]SubmissionResponse, 0, len(subs))
	for i := range subs {
		resp = append(resp, NewSubmissionResponse(&subs[i]))
	}
	return resp
}
