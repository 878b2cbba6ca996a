package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// TeamService управляет командами и их составом.
// Пользователь может состоять не более чем в одной команде каждой игры.
type TeamService struct {
	teamRepo       repository.TeamRepository
	gameRepo       repository.GameRepository
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
	reflectionRepo repository.ReflectionRepository
	scoreboard     *ScoreboardService
}

// NewTeamService создает новый сервис команд
func NewTeamService(
	teamRepo repository.TeamRepository,
	gameRepo repository.GameRepository,
	userRepo repository.UserRepository,
	submissionRepo repository.SubmissionRepository,
	reflectionRepo repository.ReflectionRepository,
	scoreboard *ScoreboardService,
) *TeamService {
	return &TeamService{
		teamRepo:       teamRepo,
		gameRepo:       gameRepo,
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
		reflectionRepo: reflectionRepo,
		scoreboard:     scoreboard,
	}
}

// CreateTeam создает команду в игре; создатель становится первым участником
func (s *TeamService) CreateTeam(caller Caller, name string, gameID uint) (*entity.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" || gameID == 0 {
		return nil, fmt.Errorf("%w: name and gameId are required", apperrors.ErrValidation)
	}
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", gameID, err)
	}
	if err := s.ensureNotInGame(game.ID, caller.UserID); err != nil {
		return nil, err
	}

	team := &entity.Team{Name: name, GameID: game.ID}
	if err := s.teamRepo.CreateWithMember(team, caller.UserID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: already a member of a team in this game", apperrors.ErrConflict)
		}
		return nil, err
	}
	log.Info().Str("component", "TeamService").Uint("team_id", team.ID).Uint("game_id", game.ID).Uint("user_id", caller.UserID).Msg("team created")
	s.refreshScoreboard(game.ID)
	return s.teamRepo.GetByID(team.ID)
}

// ListTeams возвращает все команды (администратор)
func (s *TeamService) ListTeams() ([]entity.Team, error) {
	return s.teamRepo.List()
}

// ListMyTeams возвращает команды вызывающего
func (s *TeamService) ListMyTeams(caller Caller) ([]entity.Team, error) {
	return s.teamRepo.ListByUser(caller.UserID)
}

// GetTeam возвращает команду по ID
func (s *TeamService) GetTeam(teamID uint) (*entity.Team, error) {
	team, err := s.teamRepo.GetByID(teamID)
	if err != nil {
		return nil, fmt.Errorf("team %d: %w", teamID, err)
	}
	return team, nil
}

// JoinTeam добавляет вызывающего в команду
func (s *TeamService) JoinTeam(caller Caller, teamID uint) (*entity.Team, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}
	if team.HasMember(caller.UserID) {
		return nil, fmt.Errorf("%w: already a member of this team", apperrors.ErrConflict)
	}
	if err := s.addMember(team, caller.UserID); err != nil {
		return nil, err
	}
	return s.GetTeam(team.ID)
}

// AddMember добавляет пользователя в команду (автор игры или администратор)
func (s *TeamService) AddMember(caller Caller, teamID, userID uint) (*entity.Team, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionManageGame, Resource{OwnerID: s.gameOwner(team)}); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}
	if team.HasMember(userID) {
		return nil, fmt.Errorf("%w: user is already a member of this team", apperrors.ErrConflict)
	}
	if err := s.addMember(team, userID); err != nil {
		return nil, err
	}
	return s.GetTeam(team.ID)
}

// ListTeamSubmissions возвращает отправки команды (участник, автор игры или администратор)
func (s *TeamService) ListTeamSubmissions(caller Caller, teamID uint) ([]entity.Submission, error) {
	team, err := s.authorizeView(caller, teamID)
	if err != nil {
		return nil, err
	}
	return s.submissionRepo.ListByTeam(team.ID)
}

// ListTeamReflections возвращает рефлексии команды
func (s *TeamService) ListTeamReflections(caller Caller, teamID uint) ([]entity.Reflection, error) {
	team, err := s.authorizeView(caller, teamID)
	if err != nil {
		return nil, err
	}
	return s.reflectionRepo.ListByTeam(team.ID)
}

func (s *TeamService) authorizeView(caller Caller, teamID uint) (*entity.Team, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}
	res := Resource{OwnerID: s.gameOwner(team), IsMember: team.HasMember(caller.UserID)}
	if err := Authorize(caller, ActionViewTeam, res); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) addMember(team *entity.Team, userID uint) error {
	if err := s.ensureNotInGame(team.GameID, userID); err != nil {
		return err
	}
	member := &entity.TeamMember{TeamID: team.ID, UserID: userID, GameID: team.GameID}
	if err := s.teamRepo.AddMember(member); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: already a member of a team in this game", apperrors.ErrConflict)
		}
		return err
	}
	log.Info().Str("component", "TeamService").Uint("team_id", team.ID).Uint("user_id", userID).Msg("member added")
	s.refreshScoreboard(team.GameID)
	return nil
}

// refreshScoreboard сбрасывает таблицу результатов: в ней есть состав команд
func (s *TeamService) refreshScoreboard(gameID uint) {
	if s.scoreboard != nil {
		s.scoreboard.Refresh(gameID)
	}
}

func (s *TeamService) ensureNotInGame(gameID, userID uint) error {
	_, err := s.teamRepo.FindMembership(gameID, userID)
	if err == nil {
		return fmt.Errorf("%w: already a member of a team in this game", apperrors.ErrConflict)
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

func (s *TeamService) gameOwner(team *entity.Team) uint {
	if team.Game != nil {
		return team.Game.CreatedBy
	}
	game, err := s.gameRepo.GetByID(team.GameID)
	if err != nil {
		return 0
	}
	return game.CreatedBy
}
