package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/leadership-api/internal/handler/dto"
	"github.com/yourusername/leadership-api/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler обрабатывает административные запросы
type AdminHandler struct {
	userService   *service.UserService
	exportService *service.ExportService
	ledger        *service.ScoreLedger
}

// NewAdminHandler создает новый обработчик администратора
func NewAdminHandler(userService *service.UserService, exportService *service.ExportService, ledger *service.ScoreLedger) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		exportService: exportService,
		ledger:        ledger,
	}
}

// UpdateUserRequest представляет частичное обновление пользователя
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
	Role     *string `json:"role" binding:"omitempty,role"`
}

// RecalculateResponse - результат пересчета очков
type RecalculateResponse struct {
	DryRun bool                  `json:"dry_run"`
	Drifts []service.PointsDrift `json:"drifts"`
}

// GetStats возвращает сводную статистику системы
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.userService.GetStats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers возвращает всех пользователей
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// UpdateUser обновляет пользователя
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.userService.UpdateUser(idParam(c), service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// ExportGame выгружает данные игры в CSV (по умолчанию) или XLSX (?format=xlsx)
func (h *AdminHandler) ExportGame(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	export, err := h.exportService.BuildGameExport(caller, idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = xlsxContentType
		err = export.WriteXLSX(&buf)
	} else {
		err = export.WriteCSV(&buf)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(format)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// RecalculatePoints сверяет очки команд с оцененными отправками.
// С ?dry_run=true только сообщает о расхождениях.
func (h *AdminHandler) RecalculatePoints(c *gin.Context) {
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))
	drifts, err := h.ledger.Recalculate(dryRun)
	if err != nil {
		respondError(c, err)
		return
	}
	if drifts == nil {
		drifts = []service.PointsDrift{}
	}
	c.JSON(http.StatusOK, RecalculateResponse{DryRun: dryRun, Drifts: drifts})
}
