package service

import (
	"fmt"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// Caller - аутентифицированный пользователь, выполняющий операцию
type Caller struct {
	UserID uint
	Role   string
}

// IsAdmin возвращает true для администратора
func (c Caller) IsAdmin() bool {
	return c.Role == entity.RoleAdmin
}

// Action - проверяемое действие над ресурсом
type Action string

const (
	// ActionManageGame - изменение, удаление, экспорт игры и управление составом ее команд
	ActionManageGame Action = "game:manage"
	// ActionViewGameData - просмотр отправок и рефлексий всей игры
	ActionViewGameData Action = "game:view_data"
	// ActionCreateTask - добавление задания в игру
	ActionCreateTask Action = "task:create"
	// ActionManageTask - изменение и удаление задания
	ActionManageTask Action = "task:manage"
	// ActionEvaluate - ручная оценка отправки
	ActionEvaluate Action = "submission:evaluate"
	// ActionViewTeam - просмотр отправок и рефлексий команды
	ActionViewTeam Action = "team:view"
	// ActionActAsMember - действия от имени команды (отправка ответа, рефлексия)
	ActionActAsMember Action = "team:act"
)

// Resource описывает объект проверки: автора (игры или задания) и членство вызывающего в команде
type Resource struct {
	OwnerID  uint
	IsMember bool
}

// Authorize - единая проверка прав для всех сервисов.
// Возвращает ошибку, оборачивающую ErrForbidden, если действие запрещено.
func Authorize(c Caller, action Action, res Resource) error {
	owner := res.OwnerID != 0 && res.OwnerID == c.UserID

	switch action {
	case ActionManageGame, ActionViewGameData, ActionManageTask:
		if c.IsAdmin() || owner {
			return nil
		}
	case ActionCreateTask, ActionEvaluate:
		if c.IsAdmin() || (c.Role == entity.RoleInstructor && owner) {
			return nil
		}
	case ActionViewTeam:
		if c.IsAdmin() || owner || res.IsMember {
			return nil
		}
	case ActionActAsMember:
		if res.IsMember {
			return nil
		}
		return fmt.Errorf("%w: not a member of this team", apperrors.ErrForbidden)
	default:
		return fmt.Errorf("%w: unknown action %q", apperrors.ErrForbidden, action)
	}
	return fmt.Errorf("%w: not authorized to %s", apperrors.ErrForbidden, action)
}

// RequireRole проверяет, что роль вызывающего входит в допустимый набор
func RequireRole(c Caller, roles ...string) error {
	for _, r := range roles {
		if c.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: insufficient permissions", apperrors.ErrForbidden)
}
