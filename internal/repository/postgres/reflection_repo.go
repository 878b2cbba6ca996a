package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// ReflectionRepo реализует repository.ReflectionRepository
type ReflectionRepo struct {
	db *gorm.DB
}

// NewReflectionRepo создает новый репозиторий рефлексий
func NewReflectionRepo(db *gorm.DB) *ReflectionRepo {
	return &ReflectionRepo{db: db}
}

// Upsert вставляет рефлексию или обновляет ответ при совпадении (game_id, team_id, question).
// Возвращает true, если запись создана впервые.
func (r *ReflectionRepo) Upsert(reflection *entity.Reflection) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&entity.Reflection{}).
			Where("game_id = ? AND team_id = ? AND question = ?", reflection.GameID, reflection.TeamID, reflection.Question).
			Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		now := time.Now()
		reflection.UpdatedAt = now
		if reflection.CreatedAt.IsZero() {
			reflection.CreatedAt = now
		}
		err := tx.Omit("Game", "Team").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}, {Name: "team_id"}, {Name: "question"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer", "updated_at"}),
		}).Create(reflection).Error
		if err != nil {
			return err
		}

		// ON CONFLICT не всегда возвращает id существующей строки, перечитываем запись
		var stored entity.Reflection
		if err := tx.Where("game_id = ? AND team_id = ? AND question = ?", reflection.GameID, reflection.TeamID, reflection.Question).
			First(&stored).Error; err != nil {
			return err
		}
		*reflection = stored
		return nil
	})
	return created, translateError(err)
}

// GetByID возвращает рефлексию с игрой и командой
func (r *ReflectionRepo) GetByID(id uint) (*entity.Reflection, error) {
	var reflection entity.Reflection
	if err := r.db.Preload("Game").Preload("Team").First(&reflection, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &reflection, nil
}

// UpdateAnswer обновляет ответ рефлексии
func (r *ReflectionRepo) UpdateAnswer(id uint, answer string) error {
	result := r.db.Model(&entity.Reflection{}).Where("id = ?", id).
		Updates(map[string]interface{}{"answer": answer, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// List возвращает все рефлексии
func (r *ReflectionRepo) List() ([]entity.Reflection, error) {
	var reflections []entity.Reflection
	err := r.db.Preload("Game").Preload("Team").Order("id ASC").Find(&reflections).Error
	return reflections, err
}

// ListByTeam возвращает рефлексии команды
func (r *ReflectionRepo) ListByTeam(teamID uint) ([]entity.Reflection, error) {
	var reflections []entity.Reflection
	err := r.db.Where("team_id = ?", teamID).Order("id ASC").Find(&reflections).Error
	return reflections, err
}

// ListByGame возвращает рефлексии игры
func (r *ReflectionRepo) ListByGame(gameID uint) ([]entity.Reflection, error) {
	var reflections []entity.Reflection
	err := r.db.Preload("Team").Where("game_id = ?", gameID).Order("team_id ASC, id ASC").Find(&reflections).Error
	return reflections, err
}
