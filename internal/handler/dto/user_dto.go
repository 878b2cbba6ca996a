package dto

import (
	"time"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// UserResponse - публичное представление пользователя (без пароля)
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse - ответ на вход и регистрацию
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewUserResponse создает DTO пользователя
func NewUserResponse(user *entity.User) UserResponse {
	var resp UserResponse
	_ = copyFields(&resp, user, "user")
	return resp
}

// NewUserListResponse создает список DTO пользователей
func NewUserListResponse(users []entity.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, NewUserResponse(&users[i]))
	}
	return resp
}
