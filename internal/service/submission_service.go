package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

const notificationTimeout = 5 * time.Second

// SubmissionService принимает ответы команд, оценивает их и ведет счет через ScoreLedger
type SubmissionService struct {
	tx             TxManager
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	teamRepo       repository.TeamRepository
	gameRepo       repository.GameRepository
	ledger         *ScoreLedger
	scoreboard     *ScoreboardService
	media          MediaStorage
	email          EmailService
}

// NewSubmissionService создает новый сервис отправок
func NewSubmissionService(
	tx TxManager,
	submissionRepo repository.SubmissionRepository,
	taskRepo repository.TaskRepository,
	teamRepo repository.TeamRepository,
	gameRepo repository.GameRepository,
	ledger *ScoreLedger,
	scoreboard *ScoreboardService,
	media MediaStorage,
	email EmailService,
) *SubmissionService {
	if email == nil {
		email = &NoopEmailService{}
	}
	return &SubmissionService{
		tx:             tx,
		submissionRepo: submissionRepo,
		taskRepo:       taskRepo,
		teamRepo:       teamRepo,
		gameRepo:       gameRepo,
		ledger:         ledger,
		scoreboard:     scoreboard,
		media:          media,
		email:          email,
	}
}

// SubmitInput - ответ команды на задание
type SubmitInput struct {
	TaskID uint
	TeamID uint
	// Answer - произвольный JSON; для текстовых ответов это JSON-строка
	Answer json.RawMessage
	// Media - видеофайл, обязателен для заданий типа video
	Media *multipart.FileHeader
}

// Submit принимает ответ команды. Задания с выбором ответа оцениваются сразу,
// очки применяются в той же транзакции, что и создание отправки.
func (s *SubmissionService) Submit(caller Caller, in SubmitInput) (*entity.Submission, error) {
	if in.TaskID == 0 || in.TeamID == 0 {
		return nil, fmt.Errorf("%w: taskId and teamId are required", apperrors.ErrValidation)
	}

	task, err := s.taskRepo.GetByID(in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", in.TaskID, err)
	}
	team, err := s.teamRepo.GetByID(in.TeamID)
	if err != nil {
		return nil, fmt.Errorf("team %d: %w", in.TeamID, err)
	}
	if err := Authorize(caller, ActionActAsMember, Resource{IsMember: team.HasMember(caller.UserID)}); err != nil {
		return nil, err
	}
	if team.GameID != task.GameID {
		return nil, fmt.Errorf("%w: team does not play the game of this task", apperrors.ErrValidation)
	}

	exists, err := s.submissionRepo.ExistsForTaskAndTeam(task.ID, team.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: task already submitted by this team", apperrors.ErrConflict)
	}

	submission := &entity.Submission{
		TaskID:      task.ID,
		TeamID:      team.ID,
		SubmittedAt: time.Now(),
	}
	if len(in.Answer) > 0 {
		if !json.Valid(in.Answer) {
			return nil, fmt.Errorf("%w: answer must be valid JSON", apperrors.ErrValidation)
		}
		submission.Answer = datatypes.JSON(in.Answer)
	}
	if !task.RequiresMedia() && strings.TrimSpace(submission.AnswerText()) == "" {
		return nil, fmt.Errorf("%w: answer is required", apperrors.ErrValidation)
	}

	if task.RequiresMedia() {
		if in.Media == nil {
			return nil, fmt.Errorf("%w: video file is required for video tasks", apperrors.ErrValidation)
		}
		url, err := s.media.Save(in.Media)
		if err != nil {
			return nil, err
		}
		submission.FileURL = url
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if task.IsAutoGraded() {
			correct, points := task.Grade(submission.AnswerText())
			now := time.Now()
			submission.IsEvaluated = true
			submission.IsCorrect = &correct
			submission.PointsEarned = &points
			submission.EvaluatedAt = &now
		}
		if err := s.submissionRepo.Create(tx, submission); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return fmt.Errorf("%w: task already submitted by this team", apperrors.ErrConflict)
			}
			return err
		}
		return s.ledger.ApplyDelta(tx, team.ID, submission.AppliedPoints())
	})
	if err != nil {
		if submission.FileURL != "" {
			if rmErr := s.media.Remove(submission.FileURL); rmErr != nil {
				log.Warn().Err(rmErr).Str("component", "SubmissionService").Str("file", submission.FileURL).Msg("failed to remove orphaned media")
			}
		}
		return nil, err
	}

	log.Info().Str("component", "SubmissionService").
		Uint("submission_id", submission.ID).
		Uint("task_id", task.ID).
		Uint("team_id", team.ID).
		Bool("auto_graded", submission.IsEvaluated).
		Int("points", submission.AppliedPoints()).
		Msg("submission accepted")

	if submission.IsEvaluated {
		s.refreshScoreboard(task.GameID)
	} else {
		s.notifyInstructor(submission, task, team)
	}

	submission.Task = task
	submission.Team = team
	return submission, nil
}

// EvaluationInput - частичное обновление оценки; nil означает "не менять".
// IsEvaluated по умолчанию true: сам вызов является оценкой.
type EvaluationInput struct {
	IsEvaluated  *bool
	IsCorrect    *bool
	PointsEarned *int
	Feedback     *string
}

// Evaluate выставляет ручную оценку и применяет к счету команды только разницу
// между новыми и ранее учтенными очками.
func (s *SubmissionService) Evaluate(caller Caller, submissionID uint, in EvaluationInput) (*entity.Submission, error) {
	if err := RequireRole(caller, entity.RoleInstructor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	current, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, fmt.Errorf("submission %d: %w", submissionID, err)
	}
	gameID, ownerID, err := s.taskOwner(current)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionEvaluate, Resource{OwnerID: ownerID}); err != nil {
		return nil, err
	}

	var (
		delta         int
		statusChanged bool
	)
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		sub, err := s.submissionRepo.GetForUpdate(tx, submissionID)
		if err != nil {
			return fmt.Errorf("submission %d: %w", submissionID, err)
		}

		previous := sub.AppliedPoints()
		wasEvaluated := sub.IsEvaluated

		sub.IsEvaluated = true
		if in.IsEvaluated != nil {
			sub.IsEvaluated = *in.IsEvaluated
		}
		if in.IsCorrect != nil {
			sub.IsCorrect = in.IsCorrect
		}
		if in.PointsEarned != nil {
			sub.PointsEarned = in.PointsEarned
		} else if sub.IsEvaluated && !wasEvaluated && sub.PointsEarned == nil {
			log.Warn().Str("component", "SubmissionService").Uint("submission_id", sub.ID).Msg("evaluated without pointsEarned, no points applied")
		}
		if in.Feedback != nil {
			sub.Feedback = in.Feedback
		}
		now := time.Now()
		evaluator := caller.UserID
		sub.EvaluatedBy = &evaluator
		sub.EvaluatedAt = &now

		if err := s.submissionRepo.Update(tx, sub); err != nil {
			return err
		}
		delta = sub.AppliedPoints() - previous
		statusChanged = wasEvaluated != sub.IsEvaluated
		return s.ledger.ApplyDelta(tx, sub.TeamID, delta)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("component", "SubmissionService").
		Uint("submission_id", submissionID).
		Uint("evaluator_id", caller.UserID).
		Int("delta", delta).
		Msg("submission evaluated")

	// completed_tasks зависит от статуса оценки, а не только от очков
	if delta != 0 || statusChanged {
		s.refreshScoreboard(gameID)
	}
	return s.submissionRepo.GetByID(submissionID)
}

// GetSubmission возвращает отправку участнику команды, автору игры или администратору
func (s *SubmissionService) GetSubmission(caller Caller, submissionID uint) (*entity.Submission, error) {
	sub, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, fmt.Errorf("submission %d: %w", submissionID, err)
	}
	_, ownerID, err := s.taskOwner(sub)
	if err != nil {
		return nil, err
	}
	member, err := s.teamRepo.IsMember(sub.TeamID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionViewTeam, Resource{OwnerID: ownerID, IsMember: member}); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubmissions возвращает все отправки (администратор)
func (s *SubmissionService) ListSubmissions() ([]entity.Submission, error) {
	return s.submissionRepo.List()
}

// ListPending возвращает отправки, ожидающие оценки. Инструктор видит только свои игры.
func (s *SubmissionService) ListPending(caller Caller) ([]entity.Submission, error) {
	if err := RequireRole(caller, entity.RoleInstructor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	var creatorID uint
	if !caller.IsAdmin() {
		creatorID = caller.UserID
	}
	return s.submissionRepo.ListPending(creatorID)
}

// taskOwner возвращает игру задания отправки и ее автора
func (s *SubmissionService) taskOwner(sub *entity.Submission) (uint, uint, error) {
	task := sub.Task
	if task == nil {
		var err error
		task, err = s.taskRepo.GetByID(sub.TaskID)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: task %d of submission %d is missing", apperrors.ErrInternal, sub.TaskID, sub.ID)
		}
	}
	game, err := s.gameRepo.GetByID(task.GameID)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: game %d of task %d is missing", apperrors.ErrInternal, task.GameID, task.ID)
	}
	return game.ID, game.CreatedBy, nil
}

func (s *SubmissionService) refreshScoreboard(gameID uint) {
	if s.scoreboard != nil {
		s.scoreboard.Refresh(gameID)
	}
}

// notifyInstructor сообщает автору игры о новой отправке; ошибки только логируются
func (s *SubmissionService) notifyInstructor(sub *entity.Submission, task *entity.Task, team *entity.Team) {
	game, err := s.gameRepo.GetByID(task.GameID)
	if err != nil || game.Creator == nil || game.Creator.Email == "" {
		log.Warn().Err(err).Str("component", "SubmissionService").Uint("submission_id", sub.ID).Msg("no recipient for pending submission notice")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
	defer cancel()

	notice := PendingSubmissionNotice{
		SubmissionID: sub.ID,
		GameTitle:    game.Title,
		TaskTitle:    task.Title,
		TaskType:     task.Type,
		TeamName:     team.Name,
	}
	if err := s.email.NotifyPendingSubmission(ctx, game.Creator.Email, notice); err != nil {
		log.Warn().Err(err).Str("component", "SubmissionService").Uint("submission_id", sub.ID).Msg("pending submission notice failed")
	}
}
