package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/leadership-api/internal/handler/dto"
	"github.com/yourusername/leadership-api/internal/service"
)

// ReflectionHandler обрабатывает запросы, связанные с рефлексиями
type ReflectionHandler struct {
	reflectionService *service.ReflectionService
}

// NewReflectionHandler создает новый обработчик рефлексий
func NewReflectionHandler(reflectionService *service.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{reflectionService: reflectionService}
}

// UpsertReflectionRequest представляет ответ команды на вопрос
type UpsertReflectionRequest struct {
	GameID   uint   `json:"game_id" binding:"required"`
	TeamID   uint   `json:"team_id" binding:"required"`
	Question string `json:"question" binding:"required,max=500"`
	Answer   string `json:"answer" binding:"max=10000"`
}

// UpdateReflectionRequest представляет новый ответ на вопрос
type UpdateReflectionRequest struct {
	Answer string `json:"answer" binding:"max=10000"`
}

// Upsert создает или обновляет рефлексию. 201 при создании, 200 при обновлении.
func (h *ReflectionHandler) Upsert(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req UpsertReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reflection, created, err := h.reflectionService.Upsert(caller, service.ReflectionInput{
		GameID:   req.GameID,
		TeamID:   req.TeamID,
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.NewReflectionResponse(reflection))
}

// ListReflections возвращает все рефлексии (администратор)
func (h *ReflectionHandler) ListReflections(c *gin.Context) {
	reflections, err := h.reflectionService.ListReflections()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReflectionListResponse(reflections))
}

// GetReflection возвращает рефлексию
func (h *ReflectionHandler) GetReflection(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	reflection, err := h.reflectionService.GetReflection(caller, idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReflectionResponse(reflection))
}

// UpdateReflection меняет ответ рефлексии (участники команды)
func (h *ReflectionHandler) UpdateReflection(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req UpdateReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	reflection, err := h.reflectionService.UpdateAnswer(caller, idParam(c), req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReflectionResponse(reflection))
}
