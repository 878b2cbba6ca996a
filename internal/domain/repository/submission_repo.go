package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// SubmissionRepository определяет методы для работы с отправками
type SubmissionRepository interface {
	// Create возвращает ErrConflict при повторной отправке пары (задание, команда)
	Create(tx *gorm.DB, submission *entity.Submission) error
	GetByID(id uint) (*entity.Submission, error)
	// GetForUpdate перечитывает отправку внутри транзакции с блокировкой строки
	GetForUpdate(tx *gorm.DB, id uint) (*entity.Submission, error)
	Update(tx *gorm.DB, submission *entity.Submission) error
	ExistsForTaskAndTeam(taskID, teamID uint) (bool, error)
	List() ([]entity.Submission, error)
	// ListPending возвращает неоцененные отправки; creatorID > 0 ограничивает играми этого автора
	ListPending(creatorID uint) ([]entity.Submission, error)
	ListByTeam(teamID uint) ([]entity.Submission, error)
	ListByGame(gameID uint) ([]entity.Submission, error)
	ListByTask(tx *gorm.DB, taskID uint) ([]entity.Submission, error)
	DeleteByTask(tx *gorm.DB, taskID uint) error
	// SumEvaluatedPoints возвращает сумму очков оцененных отправок по командам
	SumEvaluatedPoints(tx *gorm.DB) (map[uint]int, error)
	Count() (int64, error)
	CountPending() (int64, error)
}
