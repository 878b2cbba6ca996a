package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// TeamRepo реализует repository.TeamRepository
type TeamRepo struct {
	db *gorm.DB
}

// NewTeamRepo создает новый репозиторий команд
func NewTeamRepo(db *gorm.DB) *TeamRepo {
	return &TeamRepo{db: db}
}

// CreateWithMember создает команду и членство создателя в одной транзакции
func (r *TeamRepo) CreateWithMember(team *entity.Team, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members", "Game").Create(team).Error; err != nil {
			return translateError(err)
		}
		member := entity.TeamMember{
			TeamID:   team.ID,
			UserID:   userID,
			GameID:   team.GameID,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return translateError(err)
		}
		team.Members = []entity.TeamMember{member}
		return nil
	})
}

// GetByID возвращает команду с участниками и игрой
func (r *TeamRepo) GetByID(id uint) (*entity.Team, error) {
	var team entity.Team
	err := r.db.Preload("Members.User").Preload("Game").First(&team, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &team, nil
}

// List возвращает все команды
func (r *TeamRepo) List() ([]entity.Team, error) {
	var teams []entity.Team
	err := r.db.Preload("Members.User").Preload("Game").Order("id ASC").Find(&teams).Error
	return teams, err
}

// ListByGame возвращает команды игры
func (r *TeamRepo) ListByGame(gameID uint) ([]entity.Team, error) {
	var teams []entity.Team
	err := r.db.Preload("Members.User").
		Where("game_id = ?", gameID).
		Order("id ASC").
		Find(&teams).Error
	return teams, err
}

// ListByUser возвращает команды, в которых состоит пользователь
func (r *TeamRepo) ListByUser(userID uint) ([]entity.Team, error) {
	var teams []entity.Team
	err := r.db.Preload("Members.User").Preload("Game").
		Where("id IN (?)", r.db.Model(&entity.TeamMember{}).Select("team_id").Where("user_id = ?", userID)).
		Order("id ASC").
		Find(&teams).Error
	return teams, err
}

// FindMembership возвращает членство пользователя в команде указанной игры
func (r *TeamRepo) FindMembership(gameID, userID uint) (*entity.TeamMember, error) {
	var member entity.TeamMember
	err := r.db.Where("game_id = ? AND user_id = ?", gameID, userID).First(&member).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &member, nil
}

// AddMember добавляет участника. Уникальный индекс (game_id, user_id) отклоняет вторую команду в игре.
func (r *TeamRepo) AddMember(member *entity.TeamMember) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	return translateError(r.db.Create(member).Error)
}

// IsMember проверяет, состоит ли пользователь в команде
func (r *TeamRepo) IsMember(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddPoints атомарно изменяет очки команды на delta
func (r *TeamRepo) AddPoints(tx *gorm.DB, teamID uint, delta int) error {
	result := conn(r.db, tx).Model(&entity.Team{}).
		Where("id = ?", teamID).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetPoints устанавливает очки команды
func (r *TeamRepo) SetPoints(tx *gorm.DB, teamID uint, points int) error {
	result := conn(r.db, tx).Model(&entity.Team{}).
		Where("id = ?", teamID).
		UpdateColumn("points", points)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Scoreboard возвращает команды игры по убыванию очков с числом оцененных заданий
func (r *TeamRepo) Scoreboard(gameID uint) ([]entity.ScoreboardEntry, error) {
	var entries []entity.ScoreboardEntry
	err := r.db.Model(&entity.Team{}).
		Select(`teams.id AS team_id, teams.name AS name, teams.points AS points,
			(SELECT COUNT(*) FROM submissions s WHERE s.team_id = teams.id AND s.is_evaluated = ?) AS completed_tasks,
			(SELECT COUNT(*) FROM team_members m WHERE m.team_id = teams.id) AS member_count`, true).
		Where("teams.game_id = ?", gameID).
		Order("teams.points DESC, teams.id ASC").
		Scan(&entries).Error
	return entries, err
}

// Count возвращает общее количество команд
func (r *TeamRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Team{}).Count(&count).Error
	return count, err
}
