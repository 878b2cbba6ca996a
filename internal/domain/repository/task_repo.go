package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// TaskRepository определяет методы для работы с заданиями
type TaskRepository interface {
	Create(task *entity.Task) error
	GetByID(id uint) (*entity.Task, error)
	Update(task *entity.Task) error
	List() ([]entity.Task, error)
	// ListByGame возвращает задания игры, упорядоченные по категории
	ListByGame(gameID uint) ([]entity.Task, error)
	Delete(tx *gorm.DB, taskID uint) error
}
