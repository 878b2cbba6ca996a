package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// UserService предоставляет административные методы для работы с пользователями
type UserService struct {
	userRepo       repository.UserRepository
	gameRepo       repository.GameRepository
	teamRepo       repository.TeamRepository
	submissionRepo repository.SubmissionRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(
	userRepo repository.UserRepository,
	gameRepo repository.GameRepository,
	teamRepo repository.TeamRepository,
	submissionRepo repository.SubmissionRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		gameRepo:       gameRepo,
		teamRepo:       teamRepo,
		submissionRepo: submissionRepo,
	}
}

// ListUsers возвращает всех пользователей, отсортированных по имени
func (s *UserService) ListUsers() ([]entity.User, error) {
	return s.userRepo.List()
}

// UpdateUserInput - частичное обновление пользователя администратором
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// UpdateUser обновляет пользователя; имя и email остаются уникальными
func (s *UserService) UpdateUser(userID uint, in UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}

	updates := map[string]interface{}{}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", apperrors.ErrValidation)
		}
		if username != user.Username {
			if err := ensureFree(s.userRepo.GetByUsername(username)); err != nil {
				return nil, fmt.Errorf("%w: username already taken", err)
			}
			updates["username"] = username
		}
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
		}
		if email != user.Email {
			if err := ensureFree(s.userRepo.GetByEmail(email)); err != nil {
				return nil, fmt.Errorf("%w: email already taken", err)
			}
			updates["email"] = email
		}
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hashed)
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, *in.Role)
		}
		updates["role"] = *in.Role
	}

	if len(updates) > 0 {
		if err := s.userRepo.UpdateFields(user.ID, updates); err != nil {
			return nil, err
		}
		log.Info().Str("component", "UserService").Uint("user_id", user.ID).Int("fields", len(updates)).Msg("user updated")
	}
	return s.userRepo.GetByID(user.ID)
}

// ensureFree превращает найденную запись в ErrConflict, а ErrNotFound - в nil
func ensureFree(existing *entity.User, err error) error {
	if err == nil {
		return apperrors.ErrConflict
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

// SystemStats - сводка для администратора
type SystemStats struct {
	UserCount              int64 `json:"user_count"`
	InstructorCount        int64 `json:"instructor_count"`
	GameCount              int64 `json:"game_count"`
	ActiveGameCount        int64 `json:"active_game_count"`
	TeamCount              int64 `json:"team_count"`
	SubmissionCount        int64 `json:"submission_count"`
	PendingSubmissionCount int64 `json:"pending_submission_count"`
}

// GetStats собирает общую статистику системы
func (s *UserService) GetStats() (*SystemStats, error) {
	var stats SystemStats
	counters := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&stats.UserCount, s.userRepo.Count},
		{&stats.InstructorCount, func() (int64, error) { return s.userRepo.CountByRole(entity.RoleInstructor) }},
		{&stats.GameCount, s.gameRepo.Count},
		{&stats.ActiveGameCount, s.gameRepo.CountActive},
		{&stats.TeamCount, s.teamRepo.Count},
		{&stats.SubmissionCount, s.submissionRepo.Count},
		{&stats.PendingSubmissionCount, s.submissionRepo.CountPending},
	}
	for _, c := range counters {
		n, err := c.fn()
		if err != nil {
			return nil, fmt.Errorf("failed to collect stats: %w", err)
		}
		*c.dst = n
	}
	return &stats, nil
}
