package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// TeamRepository определяет методы для работы с командами и их составом
type TeamRepository interface {
	// CreateWithMember создает команду и добавляет создателя первым участником
	CreateWithMember(team *entity.Team, userID uint) error
	GetByID(id uint) (*entity.Team, error)
	List() ([]entity.Team, error)
	ListByGame(gameID uint) ([]entity.Team, error)
	ListByUser(userID uint) ([]entity.Team, error)
	// FindMembership возвращает членство пользователя в любой команде игры
	FindMembership(gameID, userID uint) (*entity.TeamMember, error)
	// AddMember возвращает ErrConflict, если пользователь уже в команде этой игры
	AddMember(member *entity.TeamMember) error
	IsMember(teamID, userID uint) (bool, error)
	// AddPoints атомарно прибавляет delta к очкам команды (points = points + delta).
	// Возвращает ErrNotFound, если команды нет.
	AddPoints(tx *gorm.DB, teamID uint, delta int) error
	SetPoints(tx *gorm.DB, teamID uint, points int) error
	Scoreboard(gameID uint) ([]entity.ScoreboardEntry, error)
	Count() (int64, error)
}
