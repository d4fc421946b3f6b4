package dto

import (
	"time"

	"github.com/tasktrail/backend/internal/domain"
)

type HistoryEventResponse struct {
	ID            uint                 `json:"id"`
	OwnerID       string               `json:"owner_id"`
	Text          string               `json:"text"`
	Action        domain.HistoryAction `json:"action"`
	Progress      int                  `json:"progress"`
	ProgressTrail domain.ProgressTrail `json:"progress_trail"`
	Timestamp     time.Time            `json:"timestamp"`
	TaskCreatedAt time.Time            `json:"task_created_at"`
}

func HistoryEventToResponse(record *domain.HistoryRecord) HistoryEventResponse {
	return HistoryEventResponse{
		ID:            record.ID,
		OwnerID:       record.OwnerID,
		Text:          record.Text,
		Action:        record.Action,
		Progress:      record.Progress,
		ProgressTrail: record.ProgressTrail,
		Timestamp:     record.Timestamp,
		TaskCreatedAt: record.TaskCreatedAt,
	}
}

func HistoryEventsToResponse(records []domain.HistoryRecord) []HistoryEventResponse {
	responses := make([]HistoryEventResponse, 0, len(records))
	for i := range records {
		responses = append(responses, HistoryEventToResponse(&records[i]))
	}
	return responses
}
