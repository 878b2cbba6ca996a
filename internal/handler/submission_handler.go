package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/leadership-api/internal/handler/dto"
	"github.com/yourusername/leadership-api/internal/service"
)

// multipartOverhead - запас на текстовые поля и границы multipart-формы
const multipartOverhead = 1 << 20

// SubmissionHandler обрабатывает запросы, связанные с отправками ответов
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	maxUploadBytes    int64
}

// NewSubmissionHandler создает новый обработчик отправок.
// maxUploadBytes ограничивает размер видеофайла; 0 отключает ограничение тела запроса.
func NewSubmissionHandler(submissionService *service.SubmissionService, maxUploadBytes int64) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService, maxUploadBytes: maxUploadBytes}
}

// SubmitRequest представляет JSON-отправку ответа
type SubmitRequest struct {
	TaskID uint            `json:"task_id" binding:"required"`
	TeamID uint            `json:"team_id" binding:"required"`
	Answer json.RawMessage `json:"answer"`
}

// EvaluateRequest - частичная оценка: отсутствующие поля не меняются
type EvaluateRequest struct {
	IsEvaluated  *bool   `json:"is_evaluated"`
	IsCorrect    *bool   `json:"is_correct"`
	PointsEarned *int    `json:"points_earned"`
	Feedback     *string `json:"feedback" binding:"omitempty,max=5000"`
}

// Submit принимает ответ команды.
// Для видеозаданий используется multipart/form-data с полями task_id, team_id, answer и file.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	var input service.SubmitInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if !h.limitUploadBody(c) {
			return
		}
		parsed, err := parseMultipartSubmission(c)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondUploadTooLarge(c, h.maxUploadBytes)
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input = parsed
	} else {
		var req SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		input = service.SubmitInput{TaskID: req.TaskID, TeamID: req.TeamID, Answer: req.Answer}
	}

	sub, err := h.submissionService.Submit(caller, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSubmissionResponse(sub))
}

// limitUploadBody отклоняет заведомо большие тела до разбора формы
// и ограничивает чтение для запросов без Content-Length.
func (h *SubmissionHandler) limitUploadBody(c *gin.Context) bool {
	if h.maxUploadBytes <= 0 {
		return true
	}
	limit := h.maxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		respondUploadTooLarge(c, h.maxUploadBytes)
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	return true
}

func respondUploadTooLarge(c *gin.Context, maxBytes int64) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error":     "uploaded file is too large",
		"max_bytes": maxBytes,
	})
}

func parseMultipartSubmission(c *gin.Context) (service.SubmitInput, error) {
	// PostForm молча проглатывает ошибки разбора, поэтому форму разбираем явно
	if _, err := c.MultipartForm(); err != nil {
		return service.SubmitInput{}, fmt.Errorf("invalid multipart form: %w", err)
	}

	taskID, err := strconv.ParseUint(c.PostForm("task_id"), 10, 32)
	if err != nil || taskID == 0 {
		return service.SubmitInput{}, errors.New("invalid task_id")
	}
	teamID, err := strconv.ParseUint(c.PostForm("team_id"), 10, 32)
	if err != nil || teamID == 0 {
		return service.SubmitInput{}, errors.New("invalid team_id")
	}

	input := service.SubmitInput{TaskID: uint(taskID), TeamID: uint(teamID)}
	if answer := c.PostForm("answer"); answer != "" {
		encoded, err := json.Marshal(answer)
		if err != nil {
			return service.SubmitInput{}, err
		}
		input.Answer = encoded
	}

	file, err := c.FormFile("file")
	switch {
	case err == nil:
		input.Media = file
	case errors.Is(err, http.ErrMissingFile):
	default:
		return service.SubmitInput{}, errors.New("invalid file")
	}
	return input, nil
}

// ListSubmissions возвращает все отправки (администратор)
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	subs, err := h.submissionService.ListSubmissions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSubmissionListResponse(subs))
}

// ListPending возвращает отправки, ожидающие оценки
func (h *SubmissionHandler) ListPending(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	subs, err := h.submissionService.ListPending(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSubmissionListResponse(subs))
}

// GetSubmission возвращает отправку
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	sub, err := h.submissionService.GetSubmission(caller, idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSubmissionResponse(sub))
}

// Evaluate оценивает отправку вручную
func (h *SubmissionHandler) Evaluate(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sub, err := h.submissionService.Evaluate(caller, idParam(c), service.EvaluationInput{
		IsEvaluated:  req.IsEvaluated,
		IsCorrect:    req.IsCorrect,
		PointsEarned: req.PointsEarned,
		Feedback:     req.Feedback,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSubmissionResponse(sub))
}
