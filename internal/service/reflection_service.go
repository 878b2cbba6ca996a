package service

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// ReflectionService сохраняет ответы команд на рефлексивные вопросы
type ReflectionService struct {
	reflectionRepo repository.ReflectionRepository
	teamRepo       repository.TeamRepository
	gameRepo       repository.GameRepository
}

// NewReflectionService создает новый сервис рефлексий
func NewReflectionService(reflectionRepo repository.ReflectionRepository, teamRepo repository.TeamRepository, gameRepo repository.GameRepository) *ReflectionService {
	return &ReflectionService{
		reflectionRepo: reflectionRepo,
		teamRepo:       teamRepo,
		gameRepo:       gameRepo,
	}
}

// ReflectionInput - ответ команды на вопрос игры
type ReflectionInput struct {
	GameID   uint
	TeamID   uint
	Question string
	Answer   string
}

// Upsert создает рефлексию или перезаписывает ответ на тот же вопрос.
// Второе значение - true, если запись была создана.
func (s *ReflectionService) Upsert(caller Caller, in ReflectionInput) (*entity.Reflection, bool, error) {
	question := strings.TrimSpace(in.Question)
	if in.GameID == 0 || in.TeamID == 0 || question == "" {
		return nil, false, fmt.Errorf("%w: gameId, teamId and question are required", apperrors.ErrValidation)
	}
	game, err := s.gameRepo.GetByID(in.GameID)
	if err != nil {
		return nil, false, fmt.Errorf("game %d: %w", in.GameID, err)
	}
	team, err := s.teamRepo.GetByID(in.TeamID)
	if err != nil {
		return nil, false, fmt.Errorf("team %d: %w", in.TeamID, err)
	}
	if err := Authorize(caller, ActionActAsMember, Resource{IsMember: team.HasMember(caller.UserID)}); err != nil {
		return nil, false, err
	}
	if team.GameID != game.ID {
		return nil, false, fmt.Errorf("%w: team does not play this game", apperrors.ErrValidation)
	}

	reflection := &entity.Reflection{
		GameID:   game.ID,
		TeamID:   team.ID,
		Question: question,
		Answer:   in.Answer,
	}
	created, err := s.reflectionRepo.Upsert(reflection)
	if err != nil {
		return nil, false, err
	}
	log.Info().Str("component", "ReflectionService").Uint("reflection_id", reflection.ID).Uint("team_id", team.ID).Bool("created", created).Msg("reflection saved")
	return reflection, created, nil
}

// ListReflections возвращает все рефлексии (администратор)
func (s *ReflectionService) ListReflections() ([]entity.Reflection, error) {
	return s.reflectionRepo.List()
}

// GetReflection возвращает рефлексию участнику команды, автору игры или администратору
func (s *ReflectionService) GetReflection(caller Caller, reflectionID uint) (*entity.Reflection, error) {
	reflection, team, err := s.load(reflectionID)
	if err != nil {
		return nil, err
	}
	res := Resource{IsMember: team.HasMember(caller.UserID)}
	if team.Game != nil {
		res.OwnerID = team.Game.CreatedBy
	}
	if err := Authorize(caller, ActionViewTeam, res); err != nil {
		return nil, err
	}
	return reflection, nil
}

// UpdateAnswer перезаписывает ответ рефлексии (только участники команды)
func (s *ReflectionService) UpdateAnswer(caller Caller, reflectionID uint, answer string) (*entity.Reflection, error) {
	reflection, team, err := s.load(reflectionID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionActAsMember, Resource{IsMember: team.HasMember(caller.UserID)}); err != nil {
		return nil, err
	}
	if err := s.reflectionRepo.UpdateAnswer(reflection.ID, answer); err != nil {
		return nil, err
	}
	reflection.Answer = answer
	return reflection, nil
}

func (s *ReflectionService) load(reflectionID uint) (*entity.Reflection, *entity.Team, error) {
	reflection, err := s.reflectionRepo.GetByID(reflectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("reflection %d: %w", reflectionID, err)
	}
	team, err := s.teamRepo.GetByID(reflection.TeamID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: team %d of reflection %d is missing", apperrors.ErrInternal, reflection.TeamID, reflection.ID)
	}
	return reflection, team, nil
}
