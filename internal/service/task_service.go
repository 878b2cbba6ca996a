package service

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// TaskService управляет заданиями игр
type TaskService struct {
	tx             TxManager
	taskRepo       repository.TaskRepository
	gameRepo       repository.GameRepository
	submissionRepo repository.SubmissionRepository
	ledger         *ScoreLedger
	scoreboard     *ScoreboardService
}

// NewTaskService создает новый сервис заданий
func NewTaskService(
	tx TxManager,
	taskRepo repository.TaskRepository,
	gameRepo repository.GameRepository,
	submissionRepo repository.SubmissionRepository,
	ledger *ScoreLedger,
	scoreboard *ScoreboardService,
) *TaskService {
	return &TaskService{
		tx:             tx,
		taskRepo:       taskRepo,
		gameRepo:       gameRepo,
		submissionRepo: submissionRepo,
		ledger:         ledger,
		scoreboard:     scoreboard,
	}
}

// TaskInput - данные задания; при обновлении nil означает "не менять"
type TaskInput struct {
	Title         *string
	Description   *string
	GameID        uint
	Type          *string
	Options       []string
	CorrectAnswer *string
	RiskPoints    *int
	RewardPoints  *int
	TimeLimit     *int
	Category      *string
}

// CreateTask создает задание в игре (инструктор-автор игры или администратор)
func (s *TaskService) CreateTask(caller Caller, in TaskInput) (*entity.Task, error) {
	if err := RequireRole(caller, entity.RoleInstructor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	if in.GameID == 0 {
		return nil, fmt.Errorf("%w: gameId is required", apperrors.ErrValidation)
	}
	game, err := s.gameRepo.GetByID(in.GameID)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", in.GameID, err)
	}
	if err := Authorize(caller, ActionCreateTask, Resource{OwnerID: game.CreatedBy}); err != nil {
		return nil, err
	}

	task := &entity.Task{GameID: game.ID, CreatedBy: caller.UserID}
	applyTaskInput(task, in)
	task.ApplyDefaults()
	if err := validateTask(task); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	log.Info().Str("component", "TaskService").Uint("task_id", task.ID).Uint("game_id", game.ID).Str("type", task.Type).Msg("task created")
	return task, nil
}

// ListTasks возвращает все задания (администратор)
func (s *TaskService) ListTasks() ([]entity.Task, error) {
	return s.taskRepo.List()
}

// GetTask возвращает задание по ID
func (s *TaskService) GetTask(taskID uint) (*entity.Task, error) {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", taskID, err)
	}
	return task, nil
}

// UpdateTask обновляет задание (автор задания или администратор)
func (s *TaskService) UpdateTask(caller Caller, taskID uint, in TaskInput) (*entity.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionManageTask, Resource{OwnerID: task.CreatedBy}); err != nil {
		return nil, err
	}
	applyTaskInput(task, in)
	task.ApplyDefaults()
	if err := validateTask(task); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask удаляет задание и его отправки, снимая начисленные за них очки
func (s *TaskService) DeleteTask(caller Caller, taskID uint) error {
	task, err := s.GetTask(taskID)
	if err != nil {
		return err
	}
	if err := Authorize(caller, ActionManageTask, Resource{OwnerID: task.CreatedBy}); err != nil {
		return err
	}

	var withdrawn int
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		submissions, err := s.submissionRepo.ListByTask(tx, task.ID)
		if err != nil {
			return err
		}
		for i := range submissions {
			applied := submissions[i].AppliedPoints()
			if err := s.ledger.ApplyDelta(tx, submissions[i].TeamID, -applied); err != nil {
				return err
			}
			withdrawn += applied
		}
		if err := s.submissionRepo.DeleteByTask(tx, task.ID); err != nil {
			return err
		}
		return s.taskRepo.Delete(tx, task.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", task.ID, err)
	}

	log.Info().Str("component", "TaskService").Uint("task_id", task.ID).Int("withdrawn_points", withdrawn).Msg("task deleted")
	if s.scoreboard != nil {
		s.scoreboard.Refresh(task.GameID)
	}
	return nil
}

func applyTaskInput(task *entity.Task, in TaskInput) {
	if in.Title != nil {
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Type != nil {
		task.Type = *in.Type
	}
	if in.Options != nil {
		task.Options = entity.StringArray(in.Options)
	}
	if in.CorrectAnswer != nil {
		task.CorrectAnswer = *in.CorrectAnswer
	}
	if in.RiskPoints != nil {
		task.RiskPoints = *in.RiskPoints
	}
	if in.RewardPoints != nil {
		task.RewardPoints = *in.RewardPoints
	}
	if in.TimeLimit != nil {
		task.TimeLimit = *in.TimeLimit
	}
	if in.Category != nil {
		task.Category = strings.TrimSpace(*in.Category)
	}
}

func validateTask(task *entity.Task) error {
	if task.Title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if !entity.ValidTaskType(task.Type) {
		return fmt.Errorf("%w: type must be multiple_choice, text or video", apperrors.ErrValidation)
	}
	if task.RiskPoints < 0 || task.RewardPoints < 0 {
		return fmt.Errorf("%w: riskPoints and rewardPoints must not be negative", apperrors.ErrValidation)
	}
	if task.IsAutoGraded() {
		if task.CorrectAnswer == "" {
			return fmt.Errorf("%w: correctAnswer is required for multiple choice tasks", apperrors.ErrValidation)
		}
		if len(task.Options) > 0 && !containsString(task.Options, task.CorrectAnswer) {
			return fmt.Errorf("%w: correctAnswer must be one of the options", apperrors.ErrValidation)
		}
	}
	return nil
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
