package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// Учетные данные администратора по умолчанию
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "admin123"

	demoAccessCode = "TEST123"
)

// SeedService создает начальные данные: администратора и демонстрационную игру
type SeedService struct {
	userRepo repository.UserRepository
	gameRepo repository.GameRepository
	teamRepo repository.TeamRepository
	taskRepo repository.TaskRepository
}

// NewSeedService создает новый сервис начальных данных
func NewSeedService(
	userRepo repository.UserRepository,
	gameRepo repository.GameRepository,
	teamRepo repository.TeamRepository,
	taskRepo repository.TaskRepository,
) *SeedService {
	return &SeedService{
		userRepo: userRepo,
		gameRepo: gameRepo,
		teamRepo: teamRepo,
		taskRepo: taskRepo,
	}
}

// EnsureDefaultAdmin создает администратора, если в системе нет ни одного.
// Возвращает true, если пользователь был создан.
func (s *SeedService) EnsureDefaultAdmin() (bool, error) {
	count, err := s.userRepo.CountByRole(entity.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	admin := &entity.User{
		Username: DefaultAdminUsername,
		Email:    DefaultAdminEmail,
		Password: DefaultAdminPassword,
		Role:     entity.RoleAdmin,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return false, fmt.Errorf("failed to create default admin: %w", err)
	}
	log.Warn().Str("component", "SeedService").Str("email", admin.Email).Msg("default admin created, change its password")
	return true, nil
}

// SeedDemoData создает демонстрационную игру с командами и заданиями.
// Ничего не делает, если игра с демо-кодом уже есть.
func (s *SeedService) SeedDemoData() (bool, error) {
	_, err := s.gameRepo.GetByAccessCode(demoAccessCode)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}

	instructor, err := s.ensureUser("instructor", "instructor@example.com", "instructor123", entity.RoleInstructor)
	if err != nil {
		return false, err
	}
	participant1, err := s.ensureUser("participant1", "participant1@example.com", "participant123", entity.RoleParticipant)
	if err != nil {
		return false, err
	}
	participant2, err := s.ensureUser("participant2", "participant2@example.com", "participant123", entity.RoleParticipant)
	if err != nil {
		return false, err
	}

	game := &entity.Game{
		Title:       "Test Game",
		Description: "This is a test game for development",
		AccessCode:  demoAccessCode,
		IsActive:    true,
		CreatedBy:   instructor.ID,
		StartTime:   time.Now(),
	}
	if err := s.gameRepo.Create(game); err != nil {
		return false, fmt.Errorf("failed to create demo game: %w", err)
	}

	teams := []struct {
		name   string
		member uint
	}{
		{"Team Alpha", participant1.ID},
		{"Team Beta", participant2.ID},
	}
	for _, t := range teams {
		team := &entity.Team{Name: t.name, GameID: game.ID}
		if err := s.teamRepo.CreateWithMember(team, t.member); err != nil {
			return false, fmt.Errorf("failed to create team %s: %w", t.name, err)
		}
	}

	for _, task := range demoTasks(game.ID, instructor.ID) {
		task.ApplyDefaults()
		if err := s.taskRepo.Create(&task); err != nil {
			return false, fmt.Errorf("failed to create task %s: %w", task.Title, err)
		}
	}

	log.Info().Str("component", "SeedService").Uint("game_id", game.ID).Msg("demo data created")
	return true, nil
}

func (s *SeedService) ensureUser(username, email, password, role string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	user = &entity.User{Username: username, Email: email, Password: password, Role: role}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", username, err)
	}
	return user, nil
}

func demoTasks(gameID, creatorID uint) []entity.Task {
	return []entity.Task{
		{
			Title:         "Leadership Quiz",
			Description:   "What is the most important quality of a leader?",
			Type:          entity.TaskTypeMultipleChoice,
			Options:       entity.StringArray{"Charisma", "Intelligence", "Empathy", "Decisiveness"},
			CorrectAnswer: "Empathy",
			RiskPoints:    5,
			RewardPoints:  10,
			TimeLimit:     5,
			Category:      "Ledelse",
			GameID:        gameID,
			CreatedBy:     creatorID,
		},
		{
			Title:        "Communication Challenge",
			Description:  "Describe a situation where effective communication was crucial to success.",
			Type:         entity.TaskTypeText,
			RiskPoints:   3,
			RewardPoints: 15,
			TimeLimit:    10,
			Category:     "Kommunikation",
			GameID:       gameID,
			CreatedBy:    creatorID,
		},
		{
			Title:         "Decision Making",
			Description:   "What is the first step in effective decision making?",
			Type:          entity.TaskTypeMultipleChoice,
			Options:       entity.StringArray{"Identify alternatives", "Define the problem", "Evaluate options", "Make a choice"},
			CorrectAnswer: "Define the problem",
			RiskPoints:    5,
			RewardPoints:  10,
			TimeLimit:     5,
			Category:      "Beslutningstagning",
			GameID:        gameID,
			CreatedBy:     creatorID,
		},
		{
			Title:        "Conflict Resolution",
			Description:  "Explain how you would handle a conflict within your team.",
			Type:         entity.TaskTypeText,
			RiskPoints:   3,
			RewardPoints: 15,
			TimeLimit:    10,
			Category:     "Konfliktløsning",
			GameID:       gameID,
			CreatedBy:    creatorID,
		},
		{
			Title:         "Team Building Quiz",
			Description:   "Which of these is NOT a stage in team development according to Tuckman's model?",
			Type:          entity.TaskTypeMultipleChoice,
			Options:       entity.StringArray{"Forming", "Storming", "Organizing", "Performing"},
			CorrectAnswer: "Organizing",
			RiskPoints:    5,
			RewardPoints:  10,
			TimeLimit:     5,
			Category:      "Teambuilding",
			GameID:        gameID,
			CreatedBy:     creatorID,
		},
	}
}
