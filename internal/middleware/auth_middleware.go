package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
	"github.com/yourusername/leadership-api/internal/service"
	"github.com/yourusername/leadership-api/pkg/auth"
)

// Ключи контекста Gin, заполняемые RequireAuth
const (
	ContextUserID   = "user_id"
	ContextRole     = "role"
	ContextTokenID  = "token_id"
	ContextTokenExp = "token_exp"
)

// TokenParser проверяет токен доступа
type TokenParser interface {
	ParseToken(tokenString string) (*auth.JWTCustomClaims, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	tokens    TokenParser
	blacklist repository.TokenBlacklist
}

// NewAuthMiddleware создает middleware аутентификации.
// blacklist может быть nil, тогда отзыв токенов не проверяется.
func NewAuthMiddleware(tokens TokenParser, blacklist repository.TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:    tokens,
		blacklist: blacklist,
	}
}

// RequireAuth проверяет заголовок Authorization: Bearer {token}
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			return
		}

		// Проверяем формат заголовка Bearer {token}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_invalid"})
			return
		}

		m.authenticate(c, parts[1])
	}
}

// RequireSocketAuth принимает токен из query-параметра token.
// Браузерный WebSocket не умеет выставлять заголовки.
func (m *AuthMiddleware) RequireSocketAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is required", "error_type": "token_missing"})
			return
		}
		m.authenticate(c, token)
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) {
	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, apperrors.ErrExpiredToken) {
			msg = "Token is expired"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "error_type": "token_invalid"})
		return
	}

	if m.blacklist != nil && claims.ID != "" {
		revoked, err := m.blacklist.IsRevoked(claims.ID)
		if err != nil {
			log.Error().Err(err).Str("component", "AuthMiddleware").Uint("user_id", claims.UserID).Msg("revocation check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked", "error_type": "token_invalid"})
			return
		}
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(ContextTokenExp, claims.ExpiresAt.Time)
	}

	c.Next()
}

// RequireRoles пропускает только пользователей с одной из указанных ролей.
// Должен применяться ПОСЛЕ RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// CallerFromContext возвращает аутентифицированного пользователя запроса
func CallerFromContext(c *gin.Context) (service.Caller, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return service.Caller{}, false
	}
	id, ok := userID.(uint)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{UserID: id, Role: c.GetString(ContextRole)}, true
}

// TokenFromContext возвращает идентификатор и срок действия предъявленного токена
func TokenFromContext(c *gin.Context) (string, time.Time) {
	return c.GetString(ContextTokenID), c.GetTime(ContextTokenExp)
}
