package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type TaskServiceConfig struct {
	Tasks   ports.TaskRepository
	History ports.HistoryRepository
	Streams ports.StreamService
	Logger  *logger.Logger
}

type taskService struct {
	tasks   ports.TaskRepository
	history ports.HistoryRepository
	streams ports.StreamService
	log     *logger.Logger
}

func NewTaskService(cfg TaskServiceConfig) ports.TaskService {
	return &taskService{
		tasks:   cfg.Tasks,
		history: cfg.History,
		streams: cfg.Streams,
		log:     cfg.Logger,
	}
}

func (s *taskService) AddTask(ctx context.Context, session domain.Session, text string) (*domain.Task, error) {
	if !session.Valid() {
		return nil, ErrAuthNoSession
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTaskEmptyText
	}

	task := &domain.Task{
		OwnerID:       session.UserID,
		Text:          text,
		Completed:     false,
		Progress:      0,
		ProgressTrail: domain.ProgressTrail{},
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.log.Infow("task_added", "id", task.ID, "owner_id", session.UserID)
	s.notifyTasks(session.UserID)
	return task, nil
}

func (s *taskService) GetTasks(ctx context.Context, session domain.Session) ([]domain.Task, error) {
	if !session.Valid() {
		return nil, ErrAuthNoSession
	}
	return s.tasks.GetAllByOwner(ctx, session.UserID)
}

func (s *taskService) GetTasksByState(ctx context.Context, session domain.Session, completed bool) ([]domain.Task, error) {
	if !session.Valid() {
		return nil, ErrAuthNoSession
	}
	return s.tasks.GetByOwnerAndCompleted(ctx, session.UserID, completed)
}

// ToggleComplete flips the completed flag. Completing forces progress to
// 100 and archives a Completed event; un-completing leaves progress at its
// stored value and archives nothing.
func (s *taskService) ToggleComplete(ctx context.Context, session domain.Session, id uint) (*domain.Task, error) {
	task, err := s.getOwned(ctx, session, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if task.Completed {
		task.Progress = 100
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if task.Completed {
		if err := s.archive(ctx, task, domain.ActionCompleted); err != nil {
			return nil, err
		}
		s.notifyHistory(session.UserID)
	}

	s.log.Infow("task_toggled", "id", task.ID, "completed", task.Completed)
	s.notifyTasks(session.UserID)
	return task, nil
}

// UpdateProgress raises progress to the requested value, clamped to the
// [current, 100] floor so progress never decreases. Reaching 100 marks the
// task completed without a separate Completed event; the Progress Updated
// event already captures the transition.
func (s *taskService) UpdateProgress(ctx context.Context, session domain.Session, id uint, progress int) (*domain.Task, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrTaskInvalidValue
	}

	task, err := s.getOwned(ctx, session, id)
	if err != nil {
		return nil, err
	}

	if progress < task.Progress {
		progress = task.Progress
	}

	task.ProgressTrail = append(task.ProgressTrail, domain.ProgressPoint{
		Timestamp: time.Now(),
		Progress:  progress,
	})
	task.Progress = progress
	if progress == 100 {
		task.Completed = true
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if err := s.archive(ctx, task, domain.ActionProgressUpdated); err != nil {
		return nil, err
	}

	s.log.Infow("task_progress_updated", "id", task.ID, "progress", task.Progress, "completed", task.Completed)
	s.notifyTasks(session.UserID)
	s.notifyHistory(session.UserID)
	return task, nil
}

func (s *taskService) EditText(ctx context.Context, session domain.Session, id uint, text string) (*domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTaskEmptyText
	}

	task, err := s.getOwned(ctx, session, id)
	if err != nil {
		return nil, err
	}

	task.Text = text
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.log.Infow("task_text_edited", "id", task.ID)
	s.notifyTasks(session.UserID)
	return task, nil
}

// DeleteTask archives a Deleted event first when the task carries progress,
// so the trail survives the removal. Untouched tasks vanish silently.
func (s *taskService) DeleteTask(ctx context.Context, session domain.Session, id uint) error {
	task, err := s.getOwned(ctx, session, id)
	if err != nil {
		return err
	}

	if task.Progress > 0 {
		if err := s.archive(ctx, task, domain.ActionDeleted); err != nil {
			return err
		}
		s.notifyHistory(session.UserID)
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}

	s.log.Infow("task_deleted", "id", task.ID, "progress", task.Progress)
	s.notifyTasks(session.UserID)
	return nil
}

// ResetAll archives every task that saw progress (Completed for completed
// tasks, Reset otherwise) and then deletes all of the owner's tasks. All
// archival writes finish before the first delete is issued; an archival
// failure aborts the whole operation with every task still in place.
func (s *taskService) ResetAll(ctx context.Context, session domain.Session) (int, error) {
	if !session.Valid() {
		return 0, ErrAuthNoSession
	}

	tasks, err := s.tasks.GetAllByOwner(ctx, session.UserID)
	if err != nil {
		return 0, err
	}

	archived := 0
	for i := range tasks {
		task := &tasks[i]
		if !task.Completed && task.Progress == 0 {
			continue
		}
		action := domain.ActionReset
		if task.Completed {
			action = domain.ActionCompleted
		}
		if err := s.archive(ctx, task, action); err != nil {
			s.log.Errorw("task_reset_archive_failed", "id", task.ID, "error", err)
			return 0, err
		}
		archived++
	}

	for i := range tasks {
		if err := s.tasks.Delete(ctx, tasks[i].ID); err != nil {
			return archived, err
		}
	}

	s.log.Infow("task_reset_ok", "owner_id", session.UserID, "deleted", len(tasks), "archived", archived)
	s.notifyTasks(session.UserID)
	if archived > 0 {
		s.notifyHistory(session.UserID)
	}
	return len(tasks), nil
}

// ClearAll archives every task as Cleared, progress or not, then deletes
// them. The ongoing and completed partitions are read separately rather
// than as one scan.
func (s *taskService) ClearAll(ctx context.Context, session domain.Session) (int, error) {
	if !session.Valid() {
		return 0, ErrAuthNoSession
	}

	ongoing, err := s.tasks.GetByOwnerAndCompleted(ctx, session.UserID, false)
	if err != nil {
		return 0, err
	}
	completed, err := s.tasks.GetByOwnerAndCompleted(ctx, session.UserID, true)
	if err != nil {
		return 0, err
	}

	all := append(ongoing, completed...)
	for i := range all {
		if err := s.archive(ctx, &all[i], domain.ActionCleared); err != nil {
			s.log.Errorw("task_clear_archive_failed", "id", all[i].ID, "error", err)
			return 0, err
		}
	}

	for i := range all {
		if err := s.tasks.Delete(ctx, all[i].ID); err != nil {
			return len(all), err
		}
	}

	s.log.Infow("task_clear_ok", "owner_id", session.UserID, "cleared", len(all))
	s.notifyTasks(session.UserID)
	if len(all) > 0 {
		s.notifyHistory(session.UserID)
	}
	return len(all), nil
}

func (s *taskService) getOwned(ctx context.Context, session domain.Session, id uint) (*domain.Task, error) {
	if !session.Valid() {
		return nil, ErrAuthNoSession
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	// Cross-owner access reads the same as a missing record.
	if task.OwnerID != session.UserID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *taskService) archive(ctx context.Context, task *domain.Task, action domain.HistoryAction) error {
	trail := make(domain.ProgressTrail, len(task.ProgressTrail))
	copy(trail, task.ProgressTrail)

	record := &domain.HistoryRecord{
		OwnerID:       task.OwnerID,
		Text:          task.Text,
		Action:        action,
		Progress:      task.Progress,
		ProgressTrail: trail,
		Timestamp:     time.Now(),
		TaskCreatedAt: task.CreatedAt,
	}
	return s.history.Create(ctx, record)
}

func (s *taskService) notifyTasks(ownerID string) {
	if s.streams != nil {
		s.streams.NotifyTasks(ownerID)
	}
}

func (s *taskService) notifyHistory(ownerID string) {
	if s.streams != nil {
		s.streams.NotifyHistory(ownerID)
	}
}
