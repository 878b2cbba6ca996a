package repository

import (
	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// UpdateFields точечно обновляет колонки пользователя
	UpdateFields(userID uint, updates map[string]interface{}) error
	// List возвращает всех пользователей, отсортированных по имени
	List() ([]entity.User, error)
	Count() (int64, error)
	CountByRole(role string) (int64, error)
}
