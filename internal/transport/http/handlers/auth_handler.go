package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/core/services"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"github.com/tasktrail/backend/internal/transport/http/dto"
	httpmw "github.com/tasktrail/backend/internal/transport/http/middleware"
)

type AuthHandler struct {
	service ports.AuthService
	logger  *logger.Logger
}

func NewAuthHandler(service ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("auth_register_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.logger.Warnw("auth_register_validation_failed", "details", errs)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	result, err := h.service.Register(c.Context(), ports.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		if errors.Is(err, services.ErrAuthEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		if errors.Is(err, services.ErrAuthInvalidEmail) || errors.Is(err, services.ErrAuthWeakPassword) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Errorw("auth_register_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(authToResponse(result))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("auth_login_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	result, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Errorw("auth_login_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(authToResponse(result))
}

// Me returns the identity behind the current session, as the UI's header
// displays it. The stored account is resolved rather than echoing token
// claims, which may be stale.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.service.CurrentUser(c.Context(), httpmw.SessionFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrAuthNoSession) || errors.Is(err, services.ErrAuthUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "unauthorized",
			})
		}
		h.logger.Errorw("auth_me_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	identity := domain.Session{
		UserID:      user.PublicID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
	return c.JSON(fiber.Map{
		"id":           user.PublicID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"first_name":   identity.FirstName(),
	})
}

func authToResponse(result *ports.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        dto.UserToResponse(result.User),
	}
}
