package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/middleware"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
	"github.com/yourusername/leadership-api/internal/service"
)

// respondError переводит ошибку сервиса в HTTP-ответ.
// Внутренние ошибки логируются и не раскрываются клиенту.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "error_type": "unauthorized"})
	case apperrors.IsCredentialError(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "error_type": "token_invalid"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).
			Str("component", "Handler").
			Str("request_id", c.GetString(middleware.ContextRequestID)).
			Str("path", c.FullPath()).
			Msg("internal server error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// respondBindError отвечает 400 на невалидное тело запроса
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": details})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
}

// currentCaller возвращает пользователя запроса или отвечает 401
func currentCaller(c *gin.Context) (service.Caller, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
	}
	return caller, ok
}

// idParam возвращает числовой параметр :id, извлеченный ExtractUintParam
func idParam(c *gin.Context) uint {
	return middleware.UintParam(c, "id")
}
