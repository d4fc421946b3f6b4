package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
)

type StreamServiceConfig struct {
	Tasks   ports.TaskRepository
	History ports.HistoryRepository
	Logger  *logger.Logger
}

type subscriber struct {
	id      string
	ownerID string
	kind    domain.StreamKind
	ch      chan any
}

// deliver replaces whatever the subscriber has not consumed yet with the
// newest snapshot. A slow consumer never blocks the broker and never sees
// a stale snapshot after a fresh one exists.
func (sub *subscriber) deliver(snapshot any) {
	for {
		select {
		case sub.ch <- snapshot:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

type streamService struct {
	tasks   ports.TaskRepository
	history ports.HistoryRepository
	log     *logger.Logger

	mu   sync.RWMutex
	subs map[string]*subscriber
}

func NewStreamService(cfg StreamServiceConfig) ports.StreamService {
	return &streamService{
		tasks:   cfg.Tasks,
		history: cfg.History,
		log:     cfg.Logger,
		subs:    make(map[string]*subscriber),
	}
}

// Subscribe registers a standing query and sends the current snapshot
// immediately. The caller must Unsubscribe when the viewing session ends;
// an abandoned subscription stays registered for the process lifetime.
func (s *streamService) Subscribe(ctx context.Context, session domain.Session, kind domain.StreamKind) (*ports.Subscription, error) {
	if !session.Valid() {
		return nil, ErrAuthNoSession
	}
	if _, ok := domain.ParseStreamKind(string(kind)); !ok {
		return nil, ErrStreamUnknownKind
	}

	sub := &subscriber{
		id:      uuid.New().String(),
		ownerID: session.UserID,
		kind:    kind,
		ch:      make(chan any, 1),
	}

	// Snapshot and registration happen under one lock, so a concurrent
	// mutation either lands in the initial snapshot or fans out to the
	// already-registered subscriber. Never neither.
	s.mu.Lock()
	snapshot, err := s.snapshot(ctx, sub.ownerID, kind)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	sub.ch <- snapshot
	s.subs[sub.id] = sub
	s.mu.Unlock()

	s.log.Infow("stream_subscribed", "id", sub.id, "owner_id", sub.ownerID, "kind", kind)
	return &ports.Subscription{ID: sub.id, Kind: kind, C: sub.ch}, nil
}

func (s *streamService) Unsubscribe(id string) {
	s.mu.Lock()
	sub, ok := s.subs[id]
	if ok {
		delete(s.subs, id)
		close(sub.ch)
	}
	s.mu.Unlock()

	if ok {
		s.log.Infow("stream_unsubscribed", "id", id, "kind", sub.kind)
	}
}

func (s *streamService) NotifyTasks(ownerID string) {
	s.fanOut(ownerID, domain.StreamOngoing, domain.StreamCompleted)
}

func (s *streamService) NotifyHistory(ownerID string) {
	s.fanOut(ownerID, domain.StreamHistory)
}

func (s *streamService) fanOut(ownerID string, kinds ...domain.StreamKind) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, kind := range kinds {
		var snapshot any
		for _, sub := range s.subs {
			if sub.ownerID != ownerID || sub.kind != kind {
				continue
			}
			if snapshot == nil {
				var err error
				snapshot, err = s.snapshot(context.Background(), ownerID, kind)
				if err != nil {
					s.log.Errorw("stream_snapshot_failed", "owner_id", ownerID, "kind", kind, "error", err)
					break
				}
			}
			sub.deliver(snapshot)
		}
	}
}

func (s *streamService) snapshot(ctx context.Context, ownerID string, kind domain.StreamKind) (any, error) {
	switch kind {
	case domain.StreamOngoing, domain.StreamCompleted:
		tasks, err := s.tasks.GetByOwnerAndCompleted(ctx, ownerID, kind == domain.StreamCompleted)
		if err != nil {
			return nil, err
		}
		return domain.TaskSnapshot{Kind: kind, Tasks: tasks}, nil
	case domain.StreamHistory:
		events, err := s.history.GetAllByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return domain.HistorySnapshot{Kind: kind, Events: events}, nil
	}
	return nil, ErrStreamUnknownKind
}
