package repository

import (
	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// GameRepository определяет методы для работы с играми
type GameRepository interface {
	Create(game *entity.Game) error
	GetByID(id uint) (*entity.Game, error)
	GetByAccessCode(code string) (*entity.Game, error)
	UpdateFields(gameID uint, updates map[string]interface{}) error
	// List возвращает все игры, новые первыми
	List() ([]entity.Game, error)
	ListByCreator(userID uint) ([]entity.Game, error)
	// Stats возвращает количество команд, заданий и участников по каждой игре
	Stats(gameIDs []uint) (map[uint]entity.GameStats, error)
	// DeleteCascade удаляет игру со всеми заданиями, командами, отправками и рефлексиями
	DeleteCascade(gameID uint) error
	Count() (int64, error)
	CountActive() (int64, error)
}
