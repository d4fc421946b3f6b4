package dto

import (
	"strings"
	"time"

	"github.com/tasktrail/backend/internal/domain"
)

type CreateTaskRequest struct {
	Text string `json:"text" validate:"required"`
}

func (r *CreateTaskRequest) Validate() []string {
	var errors []string

	if strings.TrimSpace(r.Text) == "" {
		errors = append(errors, "text is required")
	}

	return errors
}

type UpdateProgressRequest struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

func (r *UpdateProgressRequest) Validate() []string {
	var errors []string

	if r.Progress == nil {
		errors = append(errors, "progress is required")
	} else if *r.Progress < 0 || *r.Progress > 100 {
		errors = append(errors, "progress must be between 0 and 100")
	}

	return errors
}

type EditTextRequest struct {
	Text string `json:"text" validate:"required"`
}

func (r *EditTextRequest) Validate() []string {
	var errors []string

	if strings.TrimSpace(r.Text) == "" {
		errors = append(errors, "text is required")
	}

	return errors
}

type TaskResponse struct {
	ID            uint                 `json:"id"`
	OwnerID       string               `json:"owner_id"`
	Text          string               `json:"text"`
	Completed     bool                 `json:"completed"`
	Progress      int                  `json:"progress"`
	ProgressTrail domain.ProgressTrail `json:"progress_trail"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func TaskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		OwnerID:       task.OwnerID,
		Text:          task.Text,
		Completed:     task.Completed,
		Progress:      task.Progress,
		ProgressTrail: task.ProgressTrail,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

func TasksToResponse(tasks []domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, TaskToResponse(&tasks[i]))
	}
	return responses
}

type TaskListResponse struct {
	Ongoing   []TaskResponse `json:"ongoing"`
	Completed []TaskResponse `json:"completed"`
}

type BulkResponse struct {
	Deleted int `json:"deleted"`
}
