package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// TaskRepo реализует repository.TaskRepository
type TaskRepo struct {
	db *gorm.DB
}

// NewTaskRepo создает новый репозиторий заданий
func NewTaskRepo(db *gorm.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Create создает новое задание
func (r *TaskRepo) Create(task *entity.Task) error {
	return translateError(r.db.Omit("Game").Create(task).Error)
}

// GetByID возвращает задание по ID вместе с игрой
func (r *TaskRepo) GetByID(id uint) (*entity.Task, error) {
	var task entity.Task
	if err := r.db.Preload("Game").First(&task, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// Update сохраняет все поля задания
func (r *TaskRepo) Update(task *entity.Task) error {
	return translateError(r.db.Omit("Game").Save(task).Error)
}

// List возвращает все задания
func (r *TaskRepo) List() ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.Preload("Game").Order("game_id ASC, category ASC, id ASC").Find(&tasks).Error
	return tasks, err
}

// ListByGame возвращает задания игры, упорядоченные по категории
func (r *TaskRepo) ListByGame(gameID uint) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.Where("game_id = ?", gameID).Order("category ASC, id ASC").Find(&tasks).Error
	return tasks, err
}

// Delete удаляет задание
func (r *TaskRepo) Delete(tx *gorm.DB, taskID uint) error {
	result := conn(r.db, tx).Delete(&entity.Task{}, taskID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
