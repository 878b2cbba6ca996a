package entity

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Submission - единственная попытка команды по заданию.
// Уникальный индекс (task_id, team_id) не допускает повторной отправки.
type Submission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TaskID       uint           `gorm:"not null;uniqueIndex:idx_submissions_task_team,priority:1" json:"task_id"`
	Task         *Task          `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	TeamID       uint           `gorm:"not null;uniqueIndex:idx_submissions_task_team,priority:2;index" json:"team_id"`
	Team         *Team          `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Answer       datatypes.JSON `gorm:"type:jsonb" json:"answer"`
	FileURL      string         `gorm:"size:255;not null;default:''" json:"file_url,omitempty"`
	IsEvaluated  bool           `gorm:"not null;default:false;index" json:"is_evaluated"`
	IsCorrect    *bool          `json:"is_correct"`
	PointsEarned *int           `json:"points_earned"`
	Feedback     *string        `gorm:"type:text" json:"feedback,omitempty"`
	EvaluatedBy  *uint          `json:"evaluated_by,omitempty"`
	Evaluator    *User          `gorm:"foreignKey:EvaluatedBy" json:"evaluator,omitempty"`
	EvaluatedAt  *time.Time     `json:"evaluated_at,omitempty"`
	SubmittedAt  time.Time      `gorm:"not null" json:"submitted_at"`
}

// TableName определяет имя таблицы для GORM
func (Submission) TableName() string {
	return "submissions"
}

// AnswerText возвращает ответ как строку.
// JSON-строка раскрывается, любое другое значение возвращается как есть.
func (s *Submission) AnswerText() string {
	if len(s.Answer) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(s.Answer, &text); err == nil {
		return text
	}
	return string(s.Answer)
}

// AppliedPoints возвращает очки, уже учтенные в счете команды
func (s *Submission) AppliedPoints() int {
	if !s.IsEvaluated || s.PointsEarned == nil {
		return 0
	}
	return *s.PointsEarned
}
