package repository

import (
	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// ReflectionRepository определяет методы для работы с рефлексиями
type ReflectionRepository interface {
	// Upsert создает рефлексию или обновляет ответ существующей с той же тройкой
	// (игра, команда, вопрос). Возвращает true, если запись была создана.
	Upsert(reflection *entity.Reflection) (bool, error)
	GetByID(id uint) (*entity.Reflection, error)
	UpdateAnswer(id uint, answer string) error
	List() ([]entity.Reflection, error)
	ListByTeam(teamID uint) ([]entity.Reflection, error)
	ListByGame(gameID uint) ([]entity.Reflection, error)
}
