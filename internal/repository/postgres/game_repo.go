package postgres

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// GameRepo реализует repository.GameRepository
type GameRepo struct {
	db *gorm.DB
}

// NewGameRepo создает новый репозиторий игр
func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create создает новую игру. Занятый код доступа дает ErrConflict.
func (r *GameRepo) Create(game *entity.Game) error {
	return translateError(r.db.Create(game).Error)
}

// GetByID возвращает игру вместе с автором
func (r *GameRepo) GetByID(id uint) (*entity.Game, error) {
	var game entity.Game
	if err := r.db.Preload("Creator").First(&game, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &game, nil
}

// GetByAccessCode возвращает игру по коду доступа
func (r *GameRepo) GetByAccessCode(code string) (*entity.Game, error) {
	var game entity.Game
	if err := r.db.Where("access_code = ?", code).First(&game).Error; err != nil {
		return nil, translateError(err)
	}
	return &game, nil
}

// UpdateFields точечно обновляет поля игры
func (r *GameRepo) UpdateFields(gameID uint, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&entity.Game{}).Where("id = ?", gameID).Updates(updates)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// List возвращает все игры, новые первыми
func (r *GameRepo) List() ([]entity.Game, error) {
	var games []entity.Game
	err := r.db.Preload("Creator").Order("created_at DESC").Find(&games).Error
	return games, err
}

// ListByCreator возвращает игры, созданные пользователем
func (r *GameRepo) ListByCreator(userID uint) ([]entity.Game, error) {
	var games []entity.Game
	err := r.db.Preload("Creator").Where("created_by = ?", userID).Order("created_at DESC").Find(&games).Error
	return games, err
}

type gameCountRow struct {
	GameID uint
	Total  int64
}

// Stats считает команды, задания и участников для набора игр
func (r *GameRepo) Stats(gameIDs []uint) (map[uint]entity.GameStats, error) {
	stats := make(map[uint]entity.GameStats, len(gameIDs))
	if len(gameIDs) == 0 {
		return stats, nil
	}
	for _, id := range gameIDs {
		stats[id] = entity.GameStats{GameID: id}
	}

	var teams, tasks, members []gameCountRow
	if err := r.db.Model(&entity.Team{}).
		Select("game_id, COUNT(*) AS total").
		Where("game_id IN ?", gameIDs).
		Group("game_id").Scan(&teams).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entity.Task{}).
		Select("game_id, COUNT(*) AS total").
		Where("game_id IN ?", gameIDs).
		Group("game_id").Scan(&tasks).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entity.TeamMember{}).
		Select("game_id, COUNT(*) AS total").
		Where("game_id IN ?", gameIDs).
		Group("game_id").Scan(&members).Error; err != nil {
		return nil, err
	}

	for _, row := range teams {
		s := stats[row.GameID]
		s.TeamCount = row.Total
		stats[row.GameID] = s
	}
	for _, row := range tasks {
		s := stats[row.GameID]
		s.TaskCount = row.Total
		stats[row.GameID] = s
	}
	for _, row := range members {
		s := stats[row.GameID]
		s.ParticipantCount = row.Total
		stats[row.GameID] = s
	}
	return stats, nil
}

// DeleteCascade удаляет игру и все связанные записи в одной транзакции:
// отправки и рефлексии команд игры, состав команд, команды, задания и саму игру.
func (r *GameRepo) DeleteCascade(gameID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var game entity.Game
		if err := tx.Select("id").First(&game, gameID).Error; err != nil {
			return translateError(err)
		}

		teamIDs := tx.Model(&entity.Team{}).Select("id").Where("game_id = ?", gameID)
		taskIDs := tx.Model(&entity.Task{}).Select("id").Where("game_id = ?", gameID)

		subs := tx.Where("team_id IN (?) OR task_id IN (?)", teamIDs, taskIDs).Delete(&entity.Submission{})
		if subs.Error != nil {
			return subs.Error
		}
		refl := tx.Where("game_id = ? OR team_id IN (?)", gameID, teamIDs).Delete(&entity.Reflection{})
		if refl.Error != nil {
			return refl.Error
		}
		if err := tx.Where("team_id IN (?)", teamIDs).Delete(&entity.TeamMember{}).Error; err != nil {
			return err
		}
		teams := tx.Where("game_id = ?", gameID).Delete(&entity.Team{})
		if teams.Error != nil {
			return teams.Error
		}
		tasks := tx.Where("game_id = ?", gameID).Delete(&entity.Task{})
		if tasks.Error != nil {
			return tasks.Error
		}
		if err := tx.Delete(&entity.Game{}, gameID).Error; err != nil {
			return err
		}

		log.Info().Str("component", "GameRepo").
			Uint("game_id", gameID).
			Int64("tasks", tasks.RowsAffected).
			Int64("teams", teams.RowsAffected).
			Int64("submissions", subs.RowsAffected).
			Int64("reflections", refl.RowsAffected).
			Msg("game deleted with cascade")
		return nil
	})
}

// Count возвращает общее количество игр
func (r *GameRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Game{}).Count(&count).Error
	return count, err
}

// CountActive возвращает количество активных игр
func (r *GameRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Game{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
