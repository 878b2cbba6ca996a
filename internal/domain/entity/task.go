package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Типы заданий
const (
	TaskTypeMultipleChoice = "multiple_choice"
	TaskTypeText           = "text"
	TaskTypeVideo          = "video"
)

// Значения по умолчанию для заданий
const (
	DefaultTaskTimeLimit = 15
	DefaultTaskCategory  = "Ledelse"
)

// ValidTaskType проверяет тип задания
func ValidTaskType(t string) bool {
	switch t {
	case TaskTypeMultipleChoice, TaskTypeText, TaskTypeVideo:
		return true
	}
	return false
}

// StringArray - пользовательский тип для хранения списка строк в JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
func (o *StringArray) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*o = StringArray{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB value: unsupported type")
	}

	if len(data) == 0 {
		*o = StringArray{}
		return nil
	}
	return json.Unmarshal(data, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Task представляет задание игры
type Task struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Title         string      `gorm:"size:200;not null" json:"title"`
	Description   string      `gorm:"type:text;not null;default:''" json:"description"`
	GameID        uint        `gorm:"not null;index" json:"game_id"`
	Game          *Game       `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Type          string      `gorm:"size:20;not null" json:"type"`
	Options       StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer string      `gorm:"size:500;not null;default:''" json:"correct_answer,omitempty"`
	RiskPoints    int         `gorm:"not null;default:0" json:"risk_points"`
	RewardPoints  int         `gorm:"not null;default:0" json:"reward_points"`
	TimeLimit     int         `gorm:"not null" json:"time_limit"`
	Category      string      `gorm:"size:100;not null" json:"category"`
	CreatedBy     uint        `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Task) TableName() string {
	return "tasks"
}

// IsAutoGraded возвращает true для заданий, оцениваемых автоматически
func (t *Task) IsAutoGraded() bool {
	return t.Type == TaskTypeMultipleChoice
}

// RequiresMedia возвращает true, если для ответа нужен видеофайл
func (t *Task) RequiresMedia() bool {
	return t.Type == TaskTypeVideo
}

// Grade сравнивает ответ с правильным и возвращает корректность и начисленные очки.
// Правильный ответ дает +RewardPoints, неправильный -RiskPoints.
func (t *Task) Grade(answer string) (bool, int) {
	if answer == t.CorrectAnswer {
		return true, t.RewardPoints
	}
	return false, -t.RiskPoints
}

// ApplyDefaults заполняет значения по умолчанию для нового задания
func (t *Task) ApplyDefaults() {
	if t.Options == nil {
		t.Options = StringArray{}
	}
	if t.TimeLimit <= 0 {
		t.TimeLimit = DefaultTaskTimeLimit
	}
	if t.Category == "" {
		t.Category = DefaultTaskCategory
	}
}
