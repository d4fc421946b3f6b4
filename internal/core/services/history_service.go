package services

import (
	"context"
	"errors"
	"time"

	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type HistoryServiceConfig struct {
	History ports.HistoryRepository
	Streams ports.StreamService
	Logger  *logger.Logger
	// Timezone for grouping events into calendar days. Nil means local.
	Location *time.Location
}

type historyService struct {
	history ports.HistoryRepository
	streams ports.StreamService
	log     *logger.Logger
	loc     *time.Location
}

func NewHistoryService(cfg HistoryServiceConfig) ports.HistoryService {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &historyService{
		history: cfg.History,
		streams: cfg.Streams,
		log:     cfg.Logger,
		loc:     loc,
	}
}

func (s *historyService) Events(ctx context.Context, session domain.Session) ([]domain.HistoryRecord, error) {
	if !session.Valid() {
		return nil, ErrAuthNoSession
	}
	return s.history.GetAllByOwner(ctx, session.UserID)
}

// EventsOn returns the records whose timestamp falls on the same calendar
// day as the given date, evaluated in the configured zone. Records with a
// zero timestamp are excluded.
func (s *historyService) EventsOn(ctx context.Context, session domain.Session, day time.Time) ([]domain.HistoryRecord, error) {
	records, err := s.Events(ctx, session)
	if err != nil {
		return nil, err
	}

	wantY, wantM, wantD := day.In(s.loc).Date()
	filtered := make([]domain.HistoryRecord, 0, len(records))
	for _, record := range records {
		if record.Timestamp.IsZero() {
			continue
		}
		y, m, d := record.Timestamp.In(s.loc).Date()
		if y == wantY && m == wantM && d == wantD {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

func (s *historyService) DeleteEvent(ctx context.Context, session domain.Session, id uint) error {
	if !session.Valid() {
		return ErrAuthNoSession
	}

	record, err := s.history.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryNotFound
		}
		return err
	}
	if record.OwnerID != session.UserID {
		return ErrHistoryNotFound
	}

	if err := s.history.Delete(ctx, record.ID); err != nil {
		return err
	}

	s.log.Infow("history_event_deleted", "id", id, "owner_id", session.UserID)
	s.notifyHistory(session.UserID)
	return nil
}

// ClearAll wipes the owner's entire history. Destructive and irreversible;
// there is no archival of the archive.
func (s *historyService) ClearAll(ctx context.Context, session domain.Session) error {
	if !session.Valid() {
		return ErrAuthNoSession
	}

	if err := s.history.ClearByOwner(ctx, session.UserID); err != nil {
		return err
	}

	s.log.Infow("history_cleared", "owner_id", session.UserID)
	s.notifyHistory(session.UserID)
	return nil
}

func (s *historyService) notifyHistory(ownerID string) {
	if s.streams != nil {
		s.streams.NotifyHistory(ownerID)
	}
}
