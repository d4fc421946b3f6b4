package db

import (
	"context"

	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type historyRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepository(db *gorm.DB, log *logger.Logger) ports.HistoryRepository {
	return &historyRepository{db: db, log: log}
}

func (r *historyRepository) Create(ctx context.Context, record *domain.HistoryRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.log.Errorw("history_repo_create_failed", "owner_id", record.OwnerID, "action", record.Action, "error", err)
		return err
	}
	r.log.Infow("history_repo_create_ok", "id", record.ID, "owner_id", record.OwnerID, "action", record.Action)
	return nil
}

func (r *historyRepository) GetByID(ctx context.Context, id uint) (*domain.HistoryRecord, error) {
	var record domain.HistoryRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		r.log.Errorw("history_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &record, nil
}

func (r *historyRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]domain.HistoryRecord, error) {
	var records []domain.HistoryRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("timestamp desc").
		Find(&records).Error
	if err != nil {
		r.log.Errorw("history_repo_list_failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	r.log.Infow("history_repo_list_ok", "owner_id", ownerID, "count", len(records))
	return records, nil
}

func (r *historyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.HistoryRecord{}, id).Error; err != nil {
		r.log.Errorw("history_repo_delete_failed", "id", id, "error", err)
		return err
	}
	r.log.Infow("history_repo_delete_ok", "id", id)
	return nil
}

func (r *historyRepository) ClearByOwner(ctx context.Context, ownerID string) error {
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&domain.HistoryRecord{}).Error; err != nil {
		r.log.Errorw("history_repo_clear_failed", "owner_id", ownerID, "error", err)
		return err
	}
	r.log.Infow("history_repo_clear_ok", "owner_id", ownerID)
	return nil
}
