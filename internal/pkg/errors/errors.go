package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется, когда учетные данные не предъявлены вовсе.
	ErrUnauthorized = errors.New("authorization required")

	// ErrInvalidCredential используется для поврежденного, чужого или неверно подписанного токена.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrExpiredToken используется, когда токен истек. Частный случай ErrInvalidCredential.
	ErrExpiredToken = errors.New("token is expired")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("invalid input")

	// ErrConflict используется для нарушений уникальности
	// (повторная отправка задания, занятый код доступа и т.д.).
	ErrConflict = errors.New("conflict")

	// ErrInternal используется для нарушений целостности данных.
	ErrInternal = errors.New("internal error")
)

// IsCredentialError сообщает, относится ли ошибка к проблемам с токеном.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrExpiredToken)
}
