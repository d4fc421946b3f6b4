package db

import (
	"context"

	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type taskRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepository(db *gorm.DB, log *logger.Logger) ports.TaskRepository {
	return &taskRepository{db: db, log: log}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.Errorw("task_repo_create_failed", "owner_id", task.OwnerID, "error", err)
		return err
	}
	r.log.Infow("task_repo_create_ok", "id", task.ID, "owner_id", task.OwnerID)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		r.log.Errorw("task_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	r.log.Infow("task_repo_list_ok", "owner_id", ownerID, "count", len(tasks))
	return tasks, nil
}

func (r *taskRepository) GetByOwnerAndCompleted(ctx context.Context, ownerID string, completed bool) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND completed = ?", ownerID, completed).
		Order("created_at asc").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_partition_failed", "owner_id", ownerID, "completed", completed, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		r.log.Errorw("task_repo_update_failed", "id", task.ID, "error", err)
		return err
	}
	r.log.Infow("task_repo_update_ok", "id", task.ID)
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Task{}, id).Error; err != nil {
		r.log.Errorw("task_repo_delete_failed", "id", id, "error", err)
		return err
	}
	r.log.Infow("task_repo_delete_ok", "id", id)
	return nil
}
