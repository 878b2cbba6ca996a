package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// GameService управляет играми: создание, присоединение по коду, удаление каскадом
type GameService struct {
	gameRepo       repository.GameRepository
	teamRepo       repository.TeamRepository
	taskRepo       repository.TaskRepository
	submissionRepo repository.SubmissionRepository
	reflectionRepo repository.ReflectionRepository
	scoreboard     *ScoreboardService
}

// NewGameService создает новый сервис игр
func NewGameService(
	gameRepo repository.GameRepository,
	teamRepo repository.TeamRepository,
	taskRepo repository.TaskRepository,
	submissionRepo repository.SubmissionRepository,
	reflectionRepo repository.ReflectionRepository,
	scoreboard *ScoreboardService,
) *GameService {
	return &GameService{
		gameRepo:       gameRepo,
		teamRepo:       teamRepo,
		taskRepo:       taskRepo,
		submissionRepo: submissionRepo,
		reflectionRepo: reflectionRepo,
		scoreboard:     scoreboard,
	}
}

// GameWithStats - игра с агрегатами для списков
type GameWithStats struct {
	entity.Game
	Stats entity.GameStats
}

// CreateGameInput - данные новой игры
type CreateGameInput struct {
	Title       string
	Description string
	AccessCode  string
	IsActive    *bool
	StartTime   *time.Time
	EndTime     *time.Time
}

// CreateGame создает игру; код доступа должен быть уникальным
func (s *GameService) CreateGame(caller Caller, in CreateGameInput) (*entity.Game, error) {
	if err := RequireRole(caller, entity.RoleInstructor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	code := strings.TrimSpace(in.AccessCode)
	if title == "" || code == "" {
		return nil, fmt.Errorf("%w: title and accessCode are required", apperrors.ErrValidation)
	}
	if err := s.ensureAccessCodeFree(code, 0); err != nil {
		return nil, err
	}

	game := &entity.Game{
		Title:       title,
		Description: in.Description,
		AccessCode:  code,
		IsActive:    true,
		CreatedBy:   caller.UserID,
		StartTime:   time.Now(),
		EndTime:     in.EndTime,
	}
	if in.IsActive != nil {
		game.IsActive = *in.IsActive
	}
	if in.StartTime != nil {
		game.StartTime = *in.StartTime
	}
	if game.EndTime != nil && game.EndTime.Before(game.StartTime) {
		return nil, fmt.Errorf("%w: endTime is before startTime", apperrors.ErrValidation)
	}

	if err := s.gameRepo.Create(game); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: access code already in use", apperrors.ErrConflict)
		}
		return nil, err
	}
	log.Info().Str("component", "GameService").Uint("game_id", game.ID).Uint("creator_id", caller.UserID).Msg("game created")
	return game, nil
}

// ListGames возвращает все игры с агрегатами (администратор)
func (s *GameService) ListGames() ([]GameWithStats, error) {
	games, err := s.gameRepo.List()
	if err != nil {
		return nil, err
	}
	return s.withStats(games)
}

// ListInstructorGames возвращает игры инструктора; администратор видит все
func (s *GameService) ListInstructorGames(caller Caller) ([]GameWithStats, error) {
	if err := RequireRole(caller, entity.RoleInstructor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	if caller.IsAdmin() {
		return s.ListGames()
	}
	games, err := s.gameRepo.ListByCreator(caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.withStats(games)
}

func (s *GameService) withStats(games []entity.Game) ([]GameWithStats, error) {
	ids := make([]uint, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	stats, err := s.gameRepo.Stats(ids)
	if err != nil {
		return nil, err
	}
	result := make([]GameWithStats, 0, len(games))
	for _, g := range games {
		st := stats[g.ID]
		st.GameID = g.ID
		result = append(result, GameWithStats{Game: g, Stats: st})
	}
	return result, nil
}

// GetGame возвращает игру по ID
func (s *GameService) GetGame(gameID uint) (*entity.Game, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", gameID, err)
	}
	return game, nil
}

// UpdateGameInput - частичное обновление игры
type UpdateGameInput struct {
	Title       *string
	Description *string
	AccessCode  *string
	EndTime     *time.Time
	IsActive    *bool
}

// UpdateGame обновляет игру (автор или администратор)
func (s *GameService) UpdateGame(caller Caller, gameID uint, in UpdateGameInput) (*entity.Game, error) {
	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionManageGame, Resource{OwnerID: game.CreatedBy}); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.AccessCode != nil {
		code := strings.TrimSpace(*in.AccessCode)
		if code == "" {
			return nil, fmt.Errorf("%w: accessCode cannot be empty", apperrors.ErrValidation)
		}
		if code != game.AccessCode {
			if err := s.ensureAccessCodeFree(code, game.ID); err != nil {
				return nil, err
			}
			updates["access_code"] = code
		}
	}
	if in.EndTime != nil {
		if in.EndTime.Before(game.StartTime) {
			return nil, fmt.Errorf("%w: endTime is before startTime", apperrors.ErrValidation)
		}
		updates["end_time"] = *in.EndTime
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	if len(updates) > 0 {
		if err := s.gameRepo.UpdateFields(game.ID, updates); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return nil, fmt.Errorf("%w: access code already in use", apperrors.ErrConflict)
			}
			return nil, err
		}
	}
	return s.GetGame(game.ID)
}

// DeleteGame удаляет игру со всеми зависимыми записями в одной транзакции
func (s *GameService) DeleteGame(caller Caller, gameID uint) error {
	game, err := s.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := Authorize(caller, ActionManageGame, Resource{OwnerID: game.CreatedBy}); err != nil {
		return err
	}
	if err := s.gameRepo.DeleteCascade(game.ID); err != nil {
		return fmt.Errorf("failed to delete game %d: %w", game.ID, err)
	}
	if s.scoreboard != nil {
		s.scoreboard.Refresh(game.ID)
	}
	return nil
}

// JoinGame находит активную игру по коду доступа и команду вызывающего в ней, если есть
func (s *GameService) JoinGame(caller Caller, accessCode string) (*entity.Game, *entity.Team, error) {
	code := strings.TrimSpace(accessCode)
	if code == "" {
		return nil, nil, fmt.Errorf("%w: accessCode is required", apperrors.ErrValidation)
	}
	game, err := s.gameRepo.GetByAccessCode(code)
	if err != nil {
		return nil, nil, fmt.Errorf("game with access code: %w", err)
	}
	if !game.IsActive {
		return nil, nil, fmt.Errorf("%w: game is not active", apperrors.ErrValidation)
	}

	member, err := s.teamRepo.FindMembership(game.ID, caller.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return game, nil, nil
		}
		return nil, nil, err
	}
	team, err := s.teamRepo.GetByID(member.TeamID)
	if err != nil {
		return nil, nil, err
	}
	return game, team, nil
}

// GetScoreboard возвращает таблицу результатов игры
func (s *GameService) GetScoreboard(gameID uint) ([]entity.ScoreboardEntry, error) {
	if _, err := s.GetGame(gameID); err != nil {
		return nil, err
	}
	return s.scoreboard.Get(gameID)
}

// ListTeams возвращает команды игры
func (s *GameService) ListTeams(gameID uint) ([]entity.Team, error) {
	if _, err := s.GetGame(gameID); err != nil {
		return nil, err
	}
	return s.teamRepo.ListByGame(gameID)
}

// ListTasks возвращает задания игры, отсортированные по категории
func (s *GameService) ListTasks(gameID uint) ([]entity.Task, error) {
	if _, err := s.GetGame(gameID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByGame(gameID)
}

// ListSubmissions возвращает отправки игры (автор или администратор)
func (s *GameService) ListSubmissions(caller Caller, gameID uint) ([]entity.Submission, error) {
	if err := s.authorizeGameData(caller, gameID); err != nil {
		return nil, err
	}
	return s.submissionRepo.ListByGame(gameID)
}

// ListReflections возвращает рефлексии игры (автор или администратор)
func (s *GameService) ListReflections(caller Caller, gameID uint) ([]entity.Reflection, error) {
	if err := s.authorizeGameData(caller, gameID); err != nil {
		return nil, err
	}
	return s.reflectionRepo.ListByGame(gameID)
}

// CanSeeAnswers сообщает, может ли вызывающий видеть правильные ответы заданий игры
func (s *GameService) CanSeeAnswers(caller Caller, game *entity.Game) bool {
	return Authorize(caller, ActionManageGame, Resource{OwnerID: game.CreatedBy}) == nil
}

func (s *GameService) authorizeGameData(caller Caller, gameID uint) error {
	game, err := s.GetGame(gameID)
	if err != nil {
		return err
	}
	return Authorize(caller, ActionViewGameData, Resource{OwnerID: game.CreatedBy})
}

func (s *GameService) ensureAccessCodeFree(code string, exceptGameID uint) error {
	existing, err := s.gameRepo.GetByAccessCode(code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != exceptGameID {
		return fmt.Errorf("%w: access code already in use", apperrors.ErrConflict)
	}
	return nil
}
