package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/leadership-api/internal/handler/dto"
	"github.com/yourusername/leadership-api/internal/service"
)

// GameHandler обрабатывает запросы, связанные с играми
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler создает новый обработчик игр
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// CreateGameRequest представляет запрос на создание игры
type CreateGameRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=5000"`
	AccessCode  string     `json:"access_code" binding:"required,min=3,max=50"`
	IsActive    *bool      `json:"is_active"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

// UpdateGameRequest представляет частичное обновление игры
type UpdateGameRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	AccessCode  *string    `json:"access_code" binding:"omitempty,min=3,max=50"`
	EndTime     *time.Time `json:"end_time"`
	IsActive    *bool      `json:"is_active"`
}

// JoinGameRequest представляет запрос на вход в игру по коду
type JoinGameRequest struct {
	AccessCode string `json:"access_code" binding:"required"`
}

// CreateGame создает игру
func (h *GameHandler) CreateGame(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	game, err := h.gameService.CreateGame(caller, service.CreateGameInput{
		Title:       req.Title,
		Description: req.Description,
		AccessCode:  req.AccessCode,
		IsActive:    req.IsActive,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewGameResponse(game, true))
}

// ListGames возвращает все игры (администратор)
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.gameService.ListGames()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGameListResponse(games))
}

// ListInstructorGames возвращает игры инструктора
func (h *GameHandler) ListInstructorGames(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	games, err := h.gameService.ListInstructorGames(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGameListResponse(games))
}

// GetGame возвращает игру
func (h *GameHandler) GetGame(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	game, err := h.gameService.GetGame(idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGameResponse(game, h.gameService.CanSeeAnswers(caller, game)))
}

// UpdateGame частично обновляет игру
func (h *GameHandler) UpdateGame(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	game, err := h.gameService.UpdateGame(caller, idParam(c), service.UpdateGameInput{
		Title:       req.Title,
		Description: req.Description,
		AccessCode:  req.AccessCode,
		EndTime:     req.EndTime,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGameResponse(game, true))
}

// DeleteGame удаляет игру со всеми данными
func (h *GameHandler) DeleteGame(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	if err := h.gameService.DeleteGame(caller, idParam(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// JoinGame находит активную игру по коду доступа
func (h *GameHandler) JoinGame(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	game, team, err := h.gameService.JoinGame(caller, req.AccessCode)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.JoinGameResponse{Game: dto.NewGameResponse(game, true)}
	if team != nil {
		t := dto.NewTeamResponse(team)
		resp.Team = &t
	}
	c.JSON(http.StatusOK, resp)
}

// GetScoreboard возвращает таблицу результатов игры
func (h *GameHandler) GetScoreboard(c *gin.Context) {
	gameID := idParam(c)
	entries, err := h.gameService.GetScoreboard(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ScoreboardResponse{GameID: gameID, Teams: entries})
}

// ListTeams возвращает команды игры
func (h *GameHandler) ListTeams(c *gin.Context) {
	teams, err := h.gameService.ListTeams(idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTeamListResponse(teams))
}

// ListTasks возвращает задания игры.
// Правильные ответы видны только автору игры и администратору.
func (h *GameHandler) ListTasks(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	game, err := h.gameService.GetGame(idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	tasks, err := h.gameService.ListTasks(game.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskListResponse(tasks, h.gameService.CanSeeAnswers(caller, game)))
}

// ListSubmissions возвращает отправки игры
func (h *GameHandler) ListSubmissions(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	subs, err := h.gameService.ListSubmissions(caller, idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSubmissionListResponse(subs))
}

// ListReflections возвращает рефлексии игры
func (h *GameHandler) ListReflections(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	reflections, err := h.gameService.ListReflections(caller, idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReflectionListResponse(reflections))
}
