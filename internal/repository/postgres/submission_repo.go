package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// SubmissionRepo реализует repository.SubmissionRepository
type SubmissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo создает новый репозиторий отправок
func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// Create сохраняет отправку. Нарушение уникальности (task_id, team_id) дает ErrConflict.
func (r *SubmissionRepo) Create(tx *gorm.DB, submission *entity.Submission) error {
	err := conn(r.db, tx).Omit("Task", "Team", "Evaluator").Create(submission).Error
	return translateError(err)
}

// GetByID возвращает отправку с заданием, командой и проверяющим
func (r *SubmissionRepo) GetByID(id uint) (*entity.Submission, error) {
	var submission entity.Submission
	err := r.db.Preload("Task").Preload("Team").Preload("Evaluator").First(&submission, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

// GetForUpdate читает отправку с блокировкой строки (FOR UPDATE поддерживается только в postgres)
func (r *SubmissionRepo) GetForUpdate(tx *gorm.DB, id uint) (*entity.Submission, error) {
	db := conn(r.db, tx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var submission entity.Submission
	if err := db.First(&submission, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

// Update сохраняет поля оценки отправки
func (r *SubmissionRepo) Update(tx *gorm.DB, submission *entity.Submission) error {
	err := conn(r.db, tx).Model(submission).
		Select("is_evaluated", "is_correct", "points_earned", "feedback", "evaluated_by", "evaluated_at").
		Updates(submission).Error
	return translateError(err)
}

// ExistsForTaskAndTeam проверяет, отправляла ли команда это задание
func (r *SubmissionRepo) ExistsForTaskAndTeam(taskID, teamID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Submission{}).
		Where("task_id = ? AND team_id = ?", taskID, teamID).
		Count(&count).Error
	return count > 0, err
}

// List возвращает все отправки, новые первыми
func (r *SubmissionRepo) List() ([]entity.Submission, error) {
	var submissions []entity.Submission
	err := r.db.Preload("Task").Preload("Team").Preload("Evaluator").
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// ListPending возвращает неоцененные отправки
func (r *SubmissionRepo) ListPending(creatorID uint) ([]entity.Submission, error) {
	query := r.db.Preload("Task.Game").Preload("Team").
		Where("is_evaluated = ?", false)
	if creatorID > 0 {
		query = query.Where("task_id IN (?)",
			r.db.Model(&entity.Task{}).Select("tasks.id").
				Joins("JOIN games ON games.id = tasks.game_id").
				Where("games.created_by = ?", creatorID))
	}

	var submissions []entity.Submission
	err := query.Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

// ListByTeam возвращает отправки команды
func (r *SubmissionRepo) ListByTeam(teamID uint) ([]entity.Submission, error) {
	var submissions []entity.Submission
	err := r.db.Preload("Task").Preload("Evaluator").
		Where("team_id = ?", teamID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// ListByGame возвращает отправки по всем заданиям игры
func (r *SubmissionRepo) ListByGame(gameID uint) ([]entity.Submission, error) {
	var submissions []entity.Submission
	err := r.db.Preload("Task").Preload("Team").Preload("Evaluator").
		Where("task_id IN (?)", r.db.Model(&entity.Task{}).Select("id").Where("game_id = ?", gameID)).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// ListByTask возвращает отправки по заданию
func (r *SubmissionRepo) ListByTask(tx *gorm.DB, taskID uint) ([]entity.Submission, error) {
	var submissions []entity.Submission
	err := conn(r.db, tx).Where("task_id = ?", taskID).Find(&submissions).Error
	return submissions, err
}

// DeleteByTask удаляет все отправки задания
func (r *SubmissionRepo) DeleteByTask(tx *gorm.DB, taskID uint) error {
	return conn(r.db, tx).Where("task_id = ?", taskID).Delete(&entity.Submission{}).Error
}

type teamPointsRow struct {
	TeamID uint
	Total  int
}

// SumEvaluatedPoints возвращает сумму начисленных очков оцененных отправок по каждой команде
func (r *SubmissionRepo) SumEvaluatedPoints(tx *gorm.DB) (map[uint]int, error) {
	var rows []teamPointsRow
	err := conn(r.db, tx).Model(&entity.Submission{}).
		Select("team_id, COALESCE(SUM(points_earned), 0) AS total").
		Where("is_evaluated = ?", true).
		Group("team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[uint]int, len(rows))
	for _, row := range rows {
		sums[row.TeamID] = row.Total
	}
	return sums, nil
}

// Count возвращает общее количество отправок
func (r *SubmissionRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Submission{}).Count(&count).Error
	return count, err
}

// CountPending возвращает количество неоцененных отправок
func (r *SubmissionRepo) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Submission{}).Where("is_evaluated = ?", false).Count(&count).Error
	return count, err
}
