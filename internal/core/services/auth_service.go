package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8
	bcryptCost        = 12
)

type sessionClaims struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

type AuthServiceConfig struct {
	Users         ports.UserRepository
	Logger        *logger.Logger
	JWTSecret     string
	JWTIssuer     string
	TokenLifetime time.Duration
}

type authService struct {
	users    ports.UserRepository
	log      *logger.Logger
	secret   []byte
	issuer   string
	lifetime time.Duration
}

func NewAuthService(cfg AuthServiceConfig) ports.AuthService {
	lifetime := cfg.TokenLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &authService{
		users:    cfg.Users,
		log:      cfg.Logger,
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		lifetime: lifetime,
	}
}

func (s *authService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrAuthInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrAuthWeakPassword
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.log.Warnw("auth_register_email_taken", "email", email)
		return nil, ErrAuthEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		PublicID:     uuid.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infow("auth_register_ok", "public_id", user.PublicID)
	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Warnw("auth_login_bad_password", "public_id", user.PublicID)
		return nil, ErrAuthInvalidCredentials
	}

	s.log.Infow("auth_login_ok", "public_id", user.PublicID)
	return s.issueToken(user)
}

func (s *authService) issueToken(user *domain.User) (*ports.AuthResult, error) {
	now := time.Now()
	claims := sessionClaims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.PublicID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		User:        user,
		AccessToken: signed,
		ExpiresIn:   int64(s.lifetime.Seconds()),
	}, nil
}

// CurrentUser resolves the session back to the stored account. Token
// claims can go stale over the token's lifetime; the database row is the
// source of truth.
func (s *authService) CurrentUser(ctx context.Context, session domain.Session) (*domain.User, error) {
	if !session.Valid() {
		return nil, ErrAuthNoSession
	}

	user, err := s.users.GetByPublicID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) SessionFromToken(tokenString string) (domain.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAuthInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Session{}, ErrAuthExpiredToken
		}
		return domain.Session{}, ErrAuthInvalidToken
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return domain.Session{}, ErrAuthInvalidToken
	}

	return domain.Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}
