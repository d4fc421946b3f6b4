package ports

import (
	"context"

	"github.com/tasktrail/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPublicID(ctx context.Context, publicID string) (*domain.User, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uint) (*domain.Task, error)
	GetAllByOwner(ctx context.Context, ownerID string) ([]domain.Task, error)
	GetByOwnerAndCompleted(ctx context.Context, ownerID string, completed bool) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uint) error
}

type HistoryRepository interface {
	Create(ctx context.Context, record *domain.HistoryRecord) error
	GetByID(ctx context.Context, id uint) (*domain.HistoryRecord, error)
	GetAllByOwner(ctx context.Context, ownerID string) ([]domain.HistoryRecord, error)
	Delete(ctx context.Context, id uint) error
	ClearByOwner(ctx context.Context, ownerID string) error
}
