package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// TokenIssuer выпускает токены доступа
type TokenIssuer interface {
	GenerateToken(user *entity.User) (string, time.Time, error)
}

// AuthService отвечает за регистрацию, вход и выход пользователей
type AuthService struct {
	userRepo  repository.UserRepository
	tokens    TokenIssuer
	blacklist repository.TokenBlacklist
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, blacklist repository.TokenBlacklist) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
	}
}

// RegisterInput - данные регистрации
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// RegisterUser регистрирует участника или инструктора.
// Роль администратора через регистрацию не выдается.
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", apperrors.ErrValidation)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
	}
	if input.Role == "" {
		input.Role = entity.RoleParticipant
	}
	if input.Role != entity.RoleParticipant && input.Role != entity.RoleInstructor {
		return nil, fmt.Errorf("%w: role must be participant or instructor", apperrors.ErrValidation)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(input.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	_, err = s.userRepo.GetByUsername(input.Username)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this username already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}

	user := &entity.User{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("component", "AuthService").Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

// LoginResult - выданный токен и пользователь
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// LoginUser проверяет email и пароль и выдает токен доступа
func (s *AuthService) LoginUser(email, password string) (*LoginResult, error) {
	user, err := s.AuthenticateUser(email, password)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		log.Error().Err(err).Str("component", "AuthService").Uint("user_id", user.ID).Msg("token generation failed")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	log.Info().Str("component", "AuthService").Uint("user_id", user.ID).Msg("user logged in")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// AuthenticateUser проверяет учетные данные пользователя без создания токена
func (s *AuthService) AuthenticateUser(email, password string) (*entity.User, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Debug().Str("component", "AuthService").Str("email", email).Msg("login for unknown email")
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrInvalidCredential)
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		log.Debug().Str("component", "AuthService").Uint("user_id", user.ID).Msg("wrong password")
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrInvalidCredential)
	}
	return user, nil
}

// GetUserByID возвращает профиль пользователя
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// Logout отзывает токен до окончания его срока действия
func (s *AuthService) Logout(tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return fmt.Errorf("%w: token has no id", apperrors.ErrInvalidCredential)
	}
	if err := s.blacklist.Revoke(tokenID, time.Until(expiresAt)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// normalizeEmail приводит email к стандартному виду: trim пробелов + lowercase
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
