package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/leadership-api/internal/handler/dto"
	"github.com/yourusername/leadership-api/internal/service"
)

// TeamHandler обрабатывает запросы, связанные с командами
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый обработчик команд
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeamRequest представляет запрос на создание команды
type CreateTeamRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	GameID uint   `json:"game_id" binding:"required"`
}

// AddMemberRequest представляет запрос на добавление участника
type AddMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// CreateTeam создает команду; создатель становится ее участником
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	team, err := h.teamService.CreateTeam(caller, req.Name, req.GameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTeamResponse(team))
}

// ListTeams возвращает все команды (администратор)
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTeamListResponse(teams))
}

// ListMyTeams возвращает команды текущего пользователя
func (h *TeamHandler) ListMyTeams(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	teams, err := h.teamService.ListMyTeams(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTeamListResponse(teams))
}

// GetTeam возвращает команду
func (h *TeamHandler) GetTeam(c *gin.Context) {
	team, err := h.teamService.GetTeam(idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTeamResponse(team))
}

// JoinTeam добавляет текущего пользователя в команду
func (h *TeamHandler) JoinTeam(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	team, err := h.teamService.JoinTeam(caller, idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTeamResponse(team))
}

// AddMember добавляет пользователя в команду (автор игры или администратор)
func (h *TeamHandler) AddMember(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	team, err := h.teamService.AddMember(caller, idParam(c), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTeamResponse(team))
}

// ListSubmissions возвращает отправки команды
func (h *TeamHandler) ListSubmissions(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	subs, err := h.teamService.ListTeamSubmissions(caller, idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSubmissionListResponse(subs))
}

// ListReflections возвращает рефлексии команды
func (h *TeamHandler) ListReflections(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	reflections, err := h.teamService.ListTeamReflections(caller, idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReflectionListResponse(reflections))
}
