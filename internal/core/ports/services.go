package ports

import (
	"context"
	"time"

	"github.com/tasktrail/backend/internal/domain"
)

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type AuthResult struct {
	User        *domain.User
	AccessToken string
	ExpiresIn   int64
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	SessionFromToken(tokenString string) (domain.Session, error)
	CurrentUser(ctx context.Context, session domain.Session) (*domain.User, error)
}

type TaskService interface {
	AddTask(ctx context.Context, session domain.Session, text string) (*domain.Task, error)
	GetTasks(ctx context.Context, session domain.Session) ([]domain.Task, error)
	GetTasksByState(ctx context.Context, session domain.Session, completed bool) ([]domain.Task, error)
	ToggleComplete(ctx context.Context, session domain.Session, id uint) (*domain.Task, error)
	UpdateProgress(ctx context.Context, session domain.Session, id uint, progress int) (*domain.Task, error)
	EditText(ctx context.Context, session domain.Session, id uint, text string) (*domain.Task, error)
	DeleteTask(ctx context.Context, session domain.Session, id uint) error
	ResetAll(ctx context.Context, session domain.Session) (int, error)
	ClearAll(ctx context.Context, session domain.Session) (int, error)
}

type HistoryService interface {
	Events(ctx context.Context, session domain.Session) ([]domain.HistoryRecord, error)
	EventsOn(ctx context.Context, session domain.Session, day time.Time) ([]domain.HistoryRecord, error)
	DeleteEvent(ctx context.Context, session domain.Session, id uint) error
	ClearAll(ctx context.Context, session domain.Session) error
}

// StreamService fans full snapshots out to standing subscriptions. Every
// delivery replaces the subscriber's previous view of the stream.
type StreamService interface {
	Subscribe(ctx context.Context, session domain.Session, kind domain.StreamKind) (*Subscription, error)
	Unsubscribe(id string)
	NotifyTasks(ownerID string)
	NotifyHistory(ownerID string)
}

// Subscription is one standing live query. Deliveries arrive on C until
// Unsubscribe is called with ID; after that C is closed.
type Subscription struct {
	ID   string
	Kind domain.StreamKind
	C    <-chan any
}
