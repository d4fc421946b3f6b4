package db

import (
	"context"

	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type userRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepository(db *gorm.DB, log *logger.Logger) ports.UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.log.Errorw("user_repo_create_failed", "email", user.Email, "error", err)
		return err
	}
	r.log.Infow("user_repo_create_ok", "id", user.ID, "public_id", user.PublicID)
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		r.log.Errorw("user_repo_get_by_email_failed", "email", email, "error", err)
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error; err != nil {
		r.log.Errorw("user_repo_get_failed", "public_id", publicID, "error", err)
		return nil, err
	}
	return &user, nil
}
