package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/leadership-api/internal/handler/dto"
	"github.com/yourusername/leadership-api/internal/service"
)

// TaskHandler обрабатывает запросы, связанные с заданиями
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler создает новый обработчик заданий
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest представляет запрос на создание задания
type CreateTaskRequest struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Description   *string  `json:"description" binding:"omitempty,max=5000"`
	GameID        uint     `json:"game_id" binding:"required"`
	Type          string   `json:"type" binding:"required,task_type"`
	Options       []string `json:"options" binding:"omitempty,max=20,dive,max=500"`
	CorrectAnswer *string  `json:"correct_answer" binding:"omitempty,max=500"`
	RiskPoints    *int     `json:"risk_points" binding:"omitempty,min=0"`
	RewardPoints  *int     `json:"reward_points" binding:"omitempty,min=0"`
	TimeLimit     *int     `json:"time_limit" binding:"omitempty,min=1"`
	Category      *string  `json:"category" binding:"omitempty,max=100"`
}

// UpdateTaskRequest представляет частичное обновление задания
type UpdateTaskRequest struct {
	Title         *string  `json:"title" binding:"omitempty,max=200"`
	Description   *string  `json:"description" binding:"omitempty,max=5000"`
	Type          *string  `json:"type" binding:"omitempty,task_type"`
	Options       []string `json:"options" binding:"omitempty,max=20,dive,max=500"`
	CorrectAnswer *string  `json:"correct_answer" binding:"omitempty,max=500"`
	RiskPoints    *int     `json:"risk_points" binding:"omitempty,min=0"`
	RewardPoints  *int     `json:"reward_points" binding:"omitempty,min=0"`
	TimeLimit     *int     `json:"time_limit" binding:"omitempty,min=1"`
	Category      *string  `json:"category" binding:"omitempty,max=100"`
}

// CreateTask создает задание
func (h *TaskHandler) CreateTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(caller, service.TaskInput{
		Title:         &req.Title,
		Description:   req.Description,
		GameID:        req.GameID,
		Type:          &req.Type,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		RiskPoints:    req.RiskPoints,
		RewardPoints:  req.RewardPoints,
		TimeLimit:     req.TimeLimit,
		Category:      req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTaskResponse(task, true))
}

// ListTasks возвращает все задания (администратор)
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskListResponse(tasks, true))
}

// GetTask возвращает задание. Правильный ответ виден автору и администратору.
func (h *TaskHandler) GetTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	withAnswer := service.Authorize(caller, service.ActionManageTask, service.Resource{OwnerID: task.CreatedBy}) == nil
	c.JSON(http.StatusOK, dto.NewTaskResponse(task, withAnswer))
}

// UpdateTask частично обновляет задание
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(caller, idParam(c), service.TaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		RiskPoints:    req.RiskPoints,
		RewardPoints:  req.RewardPoints,
		TimeLimit:     req.TimeLimit,
		Category:      req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskResponse(task, true))
}

// DeleteTask удаляет задание вместе с отправками
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(caller, idParam(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
