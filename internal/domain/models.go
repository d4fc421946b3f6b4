package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ==================== ENUMS ====================

type HistoryAction string

const (
	ActionCompleted       HistoryAction = "Completed"
	ActionReset           HistoryAction = "Reset"
	ActionCleared         HistoryAction = "Cleared"
	ActionDeleted         HistoryAction = "Deleted"
	ActionProgressUpdated HistoryAction = "Progress Updated"
)

// ==================== JSONB TYPES ====================

// ProgressPoint is one snapshot in a task's progress trail.
type ProgressPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Progress  int       `json:"progress"`
}

// ProgressTrail is an append-only sequence of progress snapshots, oldest
// first. Stored as a JSONB column.
type ProgressTrail []ProgressPoint

func (t ProgressTrail) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal(ProgressTrail{})
	}
	return json.Marshal(t)
}

func (t *ProgressTrail) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ProgressTrail: invalid type")
	}
	return json.Unmarshal(bytes, t)
}

// ==================== ENTITIES ====================

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	PublicID     string `gorm:"size:36;uniqueIndex;not null" json:"public_id"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	DisplayName  string `gorm:"size:255" json:"display_name"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
}

type Task struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OwnerID       string        `gorm:"size:36;not null;index" json:"owner_id"`
	Text          string        `gorm:"type:text;not null" json:"text"`
	Completed     bool          `gorm:"not null;default:false;index" json:"completed"`
	Progress      int           `gorm:"not null;default:0" json:"progress"`
	ProgressTrail ProgressTrail `gorm:"type:jsonb" json:"progress_trail"`
}

// HistoryRecord is a point-in-time copy of a task at a lifecycle event.
// It carries no reference back to the task and never changes after creation.
type HistoryRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID       string        `gorm:"size:36;not null;index" json:"owner_id"`
	Text          string        `gorm:"type:text;not null" json:"text"`
	Action        HistoryAction `gorm:"size:50;not null" json:"action"`
	Progress      int           `gorm:"not null;default:0" json:"progress"`
	ProgressTrail ProgressTrail `gorm:"type:jsonb" json:"progress_trail"`
	Timestamp     time.Time     `gorm:"not null;index" json:"timestamp"`
	TaskCreatedAt time.Time     `json:"task_created_at"`
}
