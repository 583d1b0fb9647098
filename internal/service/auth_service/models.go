package auth_service

import (
	"github.com/google/uuid"
	"github.com/xjudge/xjudge/internal/store"
)

type AuthService struct {
	Store *store.Store

	// JWTSecret signs session tokens. Empty secret panics at Start.
	JWTSecret string
}

type UserRegistration struct {
	Handle   string `json:"handle" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7,max=64"`
}

type UserLoginRequest struct {
	Handle           string `json:"handle" validate:"required"`
	Password         string `json:"password" validate:"required"`
	RememberForMonth bool   `json:"remember_for_month"`
}

type UserResponse struct {
	ID     uuid.UUID `json:"id"`
	Handle string    `json:"handle"`
	Email  string    `json:"email"`
}
