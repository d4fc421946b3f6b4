package dto

import (
	"net/mail"
	"time"

	"github.com/tasktrail/backend/internal/domain"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name"`
}

func (r *RegisterRequest) Validate() []string {
	var errors []string

	if r.Email == "" {
		errors = append(errors, "email is required")
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errors = append(errors, "email is not a valid address")
	}

	if r.Password == "" {
		errors = append(errors, "password is required")
	} else if len(r.Password) < 8 {
		errors = append(errors, "password must be at least 8 characters")
	}

	return errors
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() []string {
	var errors []string

	if r.Email == "" {
		errors = append(errors, "email is required")
	}
	if r.Password == "" {
		errors = append(errors, "password is required")
	}

	return errors
}

type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

func UserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.PublicID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}
